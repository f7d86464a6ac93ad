package main

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/vjkit/config"
)

// runCommand executes the CLI with args, capturing combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommandStructure(t *testing.T) {
	cmd := newRootCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "devices")
	assert.Contains(t, names, "gradients")

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-format"))
}

func TestConfigureLogging(t *testing.T) {
	origLevel := logrus.GetLevel()
	origFormatter := logrus.StandardLogger().Formatter
	defer func() {
		logrus.SetLevel(origLevel)
		logrus.SetFormatter(origFormatter)
	}()

	require.NoError(t, configureLogging(config.Logging{Level: "debug", Format: "json"}))
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	require.NoError(t, configureLogging(config.Logging{Level: "warn", Format: "text"}))
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)

	assert.Error(t, configureLogging(config.Logging{Level: "nope", Format: "text"}))
}

func TestFlagOverridesAreValidated(t *testing.T) {
	_, err := runCommand(t, "gradients", "--log-level", "bogus", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}
