// Package system provides the system program and sysvar addresses referenced
// by instructions that allocate accounts.
package system

// ProgramKey is the address of the system program (all zeros).
var ProgramKey [32]byte
