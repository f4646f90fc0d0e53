package wrapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cascade-protocol/splits-go/pkg/config/memory"
)

func TestBoolConfig(t *testing.T) {
	defaultValue := true
	overriddenValue := false
	mock := memory.NewConfig(nil)
	wrapper := NewBoolConfig(mock, defaultValue)

	// Return the default value when no override is set
	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)
	assert.Equal(t, defaultValue, wrapper.Get(context.Background()))

	// The overridden value is returned when set
	mock.SetValue(overriddenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overriddenValue, val)

	// The last observed config value is returned on error
	mock.InduceErrors()
	val, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
	assert.Equal(t, overriddenValue, val)
	assert.Equal(t, overriddenValue, wrapper.Get(context.Background()))

	// The default value is returned when the override no longer has a value
	mock.StopInducingErrors()
	mock.ClearValue()
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	// Byte slices are parsed
	mock.SetValue([]byte("true"))
	assert.True(t, wrapper.Get(context.Background()))

	// Unsupported source value types surface an error
	mock.SetValue(42)
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, ErrUnsupportedConversion, err)
}

func TestUint64Config(t *testing.T) {
	defaultValue := uint64(30)
	overriddenValue := uint64(88)
	mock := memory.NewConfig(nil)
	wrapper := NewUint64Config(mock, defaultValue)

	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	mock.SetValue(overriddenValue)
	val, err = wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, overriddenValue, val)

	// Common integer source types are converted
	mock.SetValue(int(7))
	assert.Equal(t, uint64(7), wrapper.Get(context.Background()))
	mock.SetValue([]byte("123"))
	assert.Equal(t, uint64(123), wrapper.Get(context.Background()))

	// Negative ints do not silently wrap
	mock.SetValue(int(-1))
	_, err = wrapper.GetSafe(context.Background())
	assert.Equal(t, ErrUnsupportedConversion, err)

	mock.InduceErrors()
	_, err = wrapper.GetSafe(context.Background())
	require.Error(t, err)
}

func TestDurationConfig(t *testing.T) {
	defaultValue := 30 * time.Second
	overriddenValue := time.Minute
	mock := memory.NewConfig(nil)
	wrapper := NewDurationConfig(mock, defaultValue)

	val, err := wrapper.GetSafe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, defaultValue, val)

	mock.SetValue(overriddenValue)
	assert.Equal(t, overriddenValue, wrapper.Get(context.Background()))

	// Byte slices are parsed as duration strings
	mock.SetValue([]byte("1500ms"))
	assert.Equal(t, 1500*time.Millisecond, wrapper.Get(context.Background()))

	mock.SetValue([]byte("not a duration"))
	_, err = wrapper.GetSafe(context.Background())
	assert.Error(t, err)
}

func TestStringConfig(t *testing.T) {
	mock := memory.NewConfig(nil)
	wrapper := NewStringConfig(mock, "default")

	assert.Equal(t, "default", wrapper.Get(context.Background()))

	mock.SetValue("override")
	assert.Equal(t, "override", wrapper.Get(context.Background()))

	mock.SetValue([]byte("bytes"))
	assert.Equal(t, "bytes", wrapper.Get(context.Background()))
}
