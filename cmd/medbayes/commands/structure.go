/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: structure.go
Description: Network structure file loading for the MedBayes CLI. The structure file
is a YAML document declaring the categorical variables with their domains and the
directed edges of the network. Structure comes from domain knowledge, not from data,
so it is declared once and versioned alongside the dataset.
*/

package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kleascm/medbayes/pkg/model"
	"github.com/kleascm/medbayes/pkg/network"
)

// StructureFile is the YAML schema for a network structure declaration
type StructureFile struct {
	Variables []VariableDecl `yaml:"variables"`
	Edges     []network.Edge `yaml:"edges"`
}

// VariableDecl declares one categorical variable
type VariableDecl struct {
	Name   string   `yaml:"name"`
	Domain []string `yaml:"domain"`
}

// LoadStructure reads a YAML structure file and builds a network in the
// StructureDeclared state
func LoadStructure(path string) (*network.Network, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read structure file: %w", err)
	}

	var file StructureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse structure file: %w", err)
	}
	if len(file.Variables) == 0 {
		return nil, fmt.Errorf("structure file declares no variables")
	}

	variables := make([]*model.Variable, len(file.Variables))
	for i, decl := range file.Variables {
		v, err := model.NewVariable(decl.Name, decl.Domain)
		if err != nil {
			return nil, err
		}
		variables[i] = v
	}

	return network.Build(variables, file.Edges)
}
