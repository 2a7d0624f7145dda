package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit(t *testing.T) {
	orig := CLILogger
	defer func() { CLILogger = orig }()

	t.Run("structured profile", func(t *testing.T) {
		require.NoError(t, Init("info", "STRUCTURED"))
		assert.NotNil(t, CLILogger)
		assert.True(t, CLILogger.Core().Enabled(zap.InfoLevel))
		assert.False(t, CLILogger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("console profile", func(t *testing.T) {
		require.NoError(t, Init("debug", "console"))
		assert.True(t, CLILogger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("level is case insensitive", func(t *testing.T) {
		require.NoError(t, Init("WARN", "STRUCTURED"))
		assert.False(t, CLILogger.Core().Enabled(zap.InfoLevel))
		assert.True(t, CLILogger.Core().Enabled(zap.WarnLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		err := Init("loud", "STRUCTURED")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestSyncIsSafeOnNopLogger(t *testing.T) {
	orig := CLILogger
	CLILogger = zap.NewNop()
	defer func() { CLILogger = orig }()

	Sync()
}
