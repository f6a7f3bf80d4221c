/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: commands_test.go
Description: Tests for the shared command plumbing. Covers config-file loading
into the logging setup, evidence flag parsing, and the validate command's
verdict on an invalid network.
*/

package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/medbayes/cmd/medbayes/commands"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadConfigSetsLogging tests that log settings from a config file reach
// the configured logger
func TestLoadConfigSetsLogging(t *testing.T) {
	t.Cleanup(viper.Reset)
	path := writeFile(t, "config.yaml", "log_level: debug\nlog_format: json\n")
	viper.Set("config", path)

	require.NoError(t, commands.LoadConfig())
	assert.Equal(t, "debug", viper.GetString("log_level"))

	require.NoError(t, commands.SetupLogging())
	require.NotNil(t, commands.Logger)
	assert.Equal(t, logrus.DebugLevel, commands.Logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, commands.Logger.Formatter)
}

// TestParseEvidence tests the variable=value flag format
func TestParseEvidence(t *testing.T) {
	evidence, err := commands.ParseEvidence([]string{"Fever=high", "Smoker=no"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Fever": "high", "Smoker": "no"}, evidence)

	_, err = commands.ParseEvidence([]string{"Fever"})
	assert.Error(t, err)
}

// TestRunValidateCyclicStructure tests that an invalid network yields the
// verdict without echoing the reason through the returned error
func TestRunValidateCyclicStructure(t *testing.T) {
	t.Cleanup(viper.Reset)

	structure := writeFile(t, "structure.yaml", `variables:
  - name: A
    domain: ["0", "1"]
  - name: B
    domain: ["0", "1"]
edges:
  - from: A
    to: B
  - from: B
    to: A
`)
	dataset := writeFile(t, "train.csv", "A,B\n0,0\n0,1\n1,0\n1,1\n")

	viper.Set("structure", structure)
	viper.Set("data", dataset)
	viper.Set("fallback", "uniform")
	viper.Set("log_level", "error")
	viper.Set("log_format", "text")

	err := commands.RunValidate(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.Equal(t, "network failed validation", err.Error())
}
