/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for MedBayes. Declares the train,
validate, query, and show commands with configuration management via flags,
config files, and environment variables.
*/

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/medbayes/cmd/medbayes/commands"
	"github.com/kleascm/medbayes/pkg/model"
)

var (
	// Configuration
	configFile string
	logLevel   string
	logFormat  string

	// Pipeline configuration
	structurePath string
	dataPath      string
	discretize    []string
	fallback      string
	pseudocount   float64
	tolerance     float64

	// Query configuration
	targets  []string
	evidence []string
	node     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medbayes",
		Short: "MedBayes - discrete Bayesian network engine for categorical medical data",
		Long: `MedBayes estimates and queries discrete Bayesian networks over categorical
medical variables. Network structure is declared from domain knowledge in a YAML
file, CPDs are estimated from observed data by maximum-likelihood counting, and
queries are answered exactly with Variable Elimination.`,
		Version: "1.0.0",
	}

	// Persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&structurePath, "structure", "", "Network structure YAML file (required)")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Training data CSV file (required)")
	rootCmd.PersistentFlags().StringSliceVar(&discretize, "discretize", []string{}, "Discretize numeric columns (column:label1|label2|...)")
	rootCmd.PersistentFlags().StringVar(&fallback, "fallback", "uniform", "Zero-count fallback policy (uniform, strict)")
	rootCmd.PersistentFlags().Float64Var(&pseudocount, "pseudocount", 0, "Additive smoothing pseudocount (0 = pure MLE)")
	rootCmd.PersistentFlags().Float64Var(&tolerance, "tolerance", model.DefaultTolerance, "CPD column normalization tolerance")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("structure", rootCmd.PersistentFlags().Lookup("structure"))
	viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("discretize", rootCmd.PersistentFlags().Lookup("discretize"))
	viper.BindPFlag("fallback", rootCmd.PersistentFlags().Lookup("fallback"))
	viper.BindPFlag("pseudocount", rootCmd.PersistentFlags().Lookup("pseudocount"))
	viper.BindPFlag("tolerance", rootCmd.PersistentFlags().Lookup("tolerance"))

	// Train command
	trainCmd := &cobra.Command{
		Use:   "train",
		Short: "Estimate CPDs from training data and print the learned model",
		Long: `Build the declared network structure, estimate every node's conditional
probability table from the training dataset by maximum-likelihood counting,
validate the result, and print the learned tables.`,
		RunE: commands.RunTrain,
	}
	rootCmd.AddCommand(trainCmd)

	// Validate command
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that the trained network is a valid Bayesian network",
		Long: `Run the training pipeline and report the validity verdict: acyclic edges,
a CPD on every node, parent sets matching in-edges, and normalized columns.`,
		RunE: commands.RunValidate,
	}
	rootCmd.AddCommand(validateCmd)

	// Query command
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Answer P(targets | evidence) with Variable Elimination",
		Long: `Train and validate the network, then compute the exact conditional
distribution of the target variables given the evidence.`,
		RunE: commands.RunQuery,
	}
	queryCmd.Flags().StringSliceVar(&targets, "target", []string{}, "Target variable (repeatable, required)")
	queryCmd.Flags().StringSliceVar(&evidence, "evidence", []string{}, "Evidence as variable=value (repeatable)")
	queryCmd.MarkFlagRequired("target")
	viper.BindPFlag("target", queryCmd.Flags().Lookup("target"))
	viper.BindPFlag("evidence", queryCmd.Flags().Lookup("evidence"))
	rootCmd.AddCommand(queryCmd)

	// Show command
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the network summary and CPD tables",
		RunE:  commands.RunShow,
	}
	showCmd.Flags().StringVar(&node, "node", "", "Show only the named node's CPD")
	viper.BindPFlag("node", showCmd.Flags().Lookup("node"))
	rootCmd.AddCommand(showCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
