/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the MedBayes commands. Provides common
configuration loading, logging setup, and the train pipeline (structure file +
CSV dataset -> cleaned table -> fitted, validated network) used across command
implementations.
*/

package commands

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/medbayes/pkg/data"
	"github.com/kleascm/medbayes/pkg/estimation"
	"github.com/kleascm/medbayes/pkg/logging"
	"github.com/kleascm/medbayes/pkg/network"
)

// Logger is the shared logger configured by SetupLogging
var Logger *logrus.Logger

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	viper.SetEnvPrefix("MEDBAYES")
	viper.AutomaticEnv()

	return nil
}

// SetupLogging configures the shared logger from viper settings
func SetupLogging() error {
	logger, err := logging.New(&logging.Config{
		Level:  logging.Level(viper.GetString("log_level")),
		Format: logging.Format(viper.GetString("log_format")),
	})
	if err != nil {
		return err
	}
	Logger = logger
	return nil
}

// fallbackPolicy resolves the configured zero-count fallback policy
func fallbackPolicy() (estimation.FallbackPolicy, error) {
	switch name := viper.GetString("fallback"); name {
	case "", "uniform":
		return estimation.UniformFallback{}, nil
	case "strict":
		return estimation.StrictFallback{}, nil
	default:
		return nil, fmt.Errorf("unknown fallback policy: %s", name)
	}
}

// loadTrainingTable loads the CSV dataset, cleans it, and applies any
// configured column discretizations of the form "column:label1|label2|..."
func loadTrainingTable() (*estimation.Table, error) {
	table, err := data.LoadCSV(viper.GetString("data"))
	if err != nil {
		return nil, err
	}
	raw := table.Len()

	table, err = data.Clean(table)
	if err != nil {
		return nil, err
	}
	Logger.WithFields(logrus.Fields{
		"rows":    table.Len(),
		"dropped": raw - table.Len(),
	}).Info("Loaded training data")

	for _, spec := range viper.GetStringSlice("discretize") {
		column, labels, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, fmt.Errorf("invalid discretize spec %q, expected column:label1|label2", spec)
		}
		table, err = data.Discretize(table, column, strings.Split(labels, "|"))
		if err != nil {
			return nil, err
		}
	}
	return table, nil
}

// trainNetwork runs the full pipeline: structure file -> cleaned training
// table -> fitted CPDs -> validity check
func trainNetwork() (*network.Network, error) {
	net, err := LoadStructure(viper.GetString("structure"))
	if err != nil {
		return nil, err
	}

	table, err := loadTrainingTable()
	if err != nil {
		return nil, err
	}

	fallback, err := fallbackPolicy()
	if err != nil {
		return nil, err
	}
	estimator := estimation.NewEstimator(&estimation.Config{
		Fallback:    fallback,
		Pseudocount: viper.GetFloat64("pseudocount"),
		Logger:      Logger,
	})
	if err := estimator.Fit(net, table); err != nil {
		return nil, err
	}

	if ok, err := net.CheckTolerance(viper.GetFloat64("tolerance")); !ok {
		return nil, fmt.Errorf("network failed validation: %w", err)
	}
	return net, nil
}

// ParseEvidence parses repeated key=value evidence flags
func ParseEvidence(pairs []string) (map[string]string, error) {
	evidence := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid evidence %q, expected variable=value", pair)
		}
		evidence[key] = value
	}
	return evidence, nil
}
