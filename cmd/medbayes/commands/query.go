/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: query.go
Description: Query command implementation for MedBayes. Trains and validates the
network, then answers a conditional probability query P(targets | evidence) with
Variable Elimination and prints the resulting distribution.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/medbayes/pkg/inference"
	"github.com/kleascm/medbayes/pkg/report"
)

// RunQuery trains the network and answers a probability query against it
func RunQuery(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	net, err := trainNetwork()
	if err != nil {
		return err
	}

	evidence, err := ParseEvidence(viper.GetStringSlice("evidence"))
	if err != nil {
		return err
	}
	targets := viper.GetStringSlice("target")

	engine, err := inference.NewEngine(net, Logger)
	if err != nil {
		return err
	}
	result, err := engine.Query(targets, evidence)
	if err != nil {
		return err
	}

	fmt.Println(report.QueryResult(result))
	return nil
}
