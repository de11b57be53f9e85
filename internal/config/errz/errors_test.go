package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err         error
		expectedMsg string
	}{
		{ErrFailedToLoadConfig, "failed to load config"},
		{ErrFailedToValidateConfig, "failed to validate config"},
		{ErrUnsupportedConfigVer, "unsupported config version"},
		{ErrUnsupportedExtension, "unsupported file extension"},
		{ErrDuplicateName, "duplicate name"},
		{ErrEmptyName, "empty name"},
		{ErrInvalidValue, "invalid value"},
		{ErrMissingRequiredField, "missing required field"},
		{ErrInvalidLogFormat, "invalid log format"},
		{ErrInvalidLogLevel, "invalid log level"},
		{ErrInvalidKey, "invalid key"},
		{ErrInvalidLanguage, "invalid console language"},
		{ErrInvalidRuntime, "invalid script runtime"},
	}

	for _, tt := range tests {
		t.Run(tt.expectedMsg, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("%w: scripts[2] 'demo'", ErrDuplicateName)
	require.ErrorIs(t, wrapped, ErrDuplicateName)
	assert.False(t, errors.Is(wrapped, ErrEmptyName))

	joined := errors.Join(
		fmt.Errorf("%w: console.open_key", ErrInvalidKey),
		fmt.Errorf("%w: logging.level", ErrInvalidLogLevel),
	)
	require.ErrorIs(t, joined, ErrInvalidKey)
	require.ErrorIs(t, joined, ErrInvalidLogLevel)
}
