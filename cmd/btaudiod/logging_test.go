package main

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLevelTestCmd(t *testing.T, logLevel string, verbose bool) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().Bool("verbose", false, "")
	if logLevel != "" {
		require.NoError(t, cmd.Flags().Set("log-level", logLevel))
	}
	if verbose {
		require.NoError(t, cmd.Flags().Set("verbose", "true"))
	}
	return cmd
}

func TestConfigureLogger(t *testing.T) {
	tests := []struct {
		name         string
		logLevel     string
		verbose      bool
		defaultLevel string
		want         logrus.Level
		wantErr      bool
	}{
		{
			name:         "explicit flag wins over verbose and default",
			logLevel:     "error",
			verbose:      true,
			defaultLevel: "debug",
			want:         logrus.ErrorLevel,
		},
		{
			name:         "verbose wins over default",
			verbose:      true,
			defaultLevel: "warn",
			want:         logrus.DebugLevel,
		},
		{
			name:         "configured default applies without flags",
			defaultLevel: "warn",
			want:         logrus.WarnLevel,
		},
		{
			name:         "unparseable default degrades to info",
			defaultLevel: "loud",
			want:         logrus.InfoLevel,
		},
		{
			name:     "invalid flag level is an error",
			logLevel: "loud",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newLevelTestCmd(t, tt.logLevel, tt.verbose)

			logger, err := configureLogger(cmd, "verbose", tt.defaultLevel)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}
