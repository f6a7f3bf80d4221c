/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Validate command implementation for MedBayes. Runs the training
pipeline and reports the network's validity verdict with the failing reason, if
any. Useful for CI checks on dataset or structure changes.
*/

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// RunValidate trains the network and reports the validity verdict
func RunValidate(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	// The verdict line carries the detail; return a bare error so the caller
	// does not print the same reason twice.
	net, err := trainNetwork()
	if err != nil {
		fmt.Printf("INVALID: %v\n", err)
		return errors.New("network failed validation")
	}

	fmt.Printf("VALID: %d nodes, state %s\n", net.Size(), net.State())
	return nil
}
