package splits

import (
	"time"

	"github.com/cascade-protocol/splits-go/pkg/config"
	"github.com/cascade-protocol/splits-go/pkg/config/env"
	"github.com/cascade-protocol/splits-go/pkg/solana"
)

const (
	envComputeUnitLimit      = "splits_compute_unit_limit"
	envComputeUnitPrice      = "splits_compute_unit_price"
	envCreateMissingAccounts = "splits_create_missing_receiving_accounts"
	envMinExecuteBalance     = "splits_min_execute_balance"
	envAutoExecuteOnClose    = "splits_auto_execute_on_close"
	envConfirmationTimeout   = "splits_confirmation_timeout"

	defaultConfirmationTimeout = 30 * time.Second
)

// Config is the engine's tunable surface. Values are config.Config backed
// so deployments can override them from the environment and tests can use
// in-memory providers.
type Config struct {
	// Commitment is the confirmation level used by the Solana ledger
	// adapter for reads, submission, and the post-submission wait.
	Commitment solana.Commitment

	// ComputeUnitLimit and ComputeUnitPrice are optional compute budget
	// hints. Zero means the corresponding instruction is omitted.
	ComputeUnitLimit config.Uint64
	ComputeUnitPrice config.Uint64

	// CreateMissingReceivingAccounts controls whether ensure transparently
	// creates recipients' missing receiving accounts instead of blocking.
	CreateMissingReceivingAccounts config.Bool

	// MinExecuteBalance skips execute submission while the vault balance is
	// below the threshold, letting small inflows batch up before paying
	// transaction cost.
	MinExecuteBalance config.Uint64

	// AutoExecuteOnClose controls whether close drains a nonempty vault by
	// executing first instead of blocking.
	AutoExecuteOnClose config.Bool

	// ConfirmationTimeout bounds the post-submission confirmation wait.
	ConfirmationTimeout config.Duration
}

// DefaultConfig returns the default engine configuration with environment
// overrides enabled.
func DefaultConfig() *Config {
	return &Config{
		Commitment:                     solana.CommitmentConfirmed,
		ComputeUnitLimit:               env.NewUint64Config(envComputeUnitLimit, 0),
		ComputeUnitPrice:               env.NewUint64Config(envComputeUnitPrice, 0),
		CreateMissingReceivingAccounts: env.NewBoolConfig(envCreateMissingAccounts, true),
		MinExecuteBalance:              env.NewUint64Config(envMinExecuteBalance, 0),
		AutoExecuteOnClose:             env.NewBoolConfig(envAutoExecuteOnClose, true),
		ConfirmationTimeout:            env.NewDurationConfig(envConfirmationTimeout, defaultConfirmationTimeout),
	}
}
