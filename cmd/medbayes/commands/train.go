/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: train.go
Description: Train command implementation for MedBayes. Builds the declared network
structure, estimates CPDs from the training dataset, validates the result, and
prints every learned table.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kleascm/medbayes/pkg/report"
)

// RunTrain executes the full training pipeline and prints the learned model
func RunTrain(cmd *cobra.Command, args []string) error {
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

	fmt.Println(report.NetworkSummary(net))
	for _, name := range net.VariableNames() {
		cpd, _ := net.CPD(name)
		fmt.Println(report.CPDTable(cpd))
	}
	return nil
}
