/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: show.go
Description: Show command implementation for MedBayes. Trains the network and
prints the summary plus the CPD table of one node, or of every node when no node
is named.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/medbayes/pkg/report"
)

// RunShow trains the network and prints CPD tables
func RunShow(cmd *cobra.Command, args []string) error {
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

	node := viper.GetString("node")
	if node != "" {
		cpd, ok := net.CPD(node)
		if !ok {
			return fmt.Errorf("unknown node: %s", node)
		}
		fmt.Println(report.CPDTable(cpd))
		return nil
	}

	fmt.Println(report.NetworkSummary(net))
	for _, name := range net.VariableNames() {
		cpd, _ := net.CPD(name)
		fmt.Println(report.CPDTable(cpd))
	}
	return nil
}
