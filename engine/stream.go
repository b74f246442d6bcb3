package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retargetlab/relower/isa"
)

// LoadStreamFileFromASM reads an instruction stream from a plain text
// file, one instruction per line.
func LoadStreamFileFromASM(path string) ([]isa.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stream file: %w", err)
	}

	stream, err := isa.ParseStream(string(data))
	if err != nil {
		return nil, fmt.Errorf("load stream file %s: %w", path, err)
	}
	return stream, nil
}

type streamFile struct {
	Instructions []string `yaml:"instructions"`
}

// LoadStreamFileFromYAML reads an instruction stream from a YAML file of
// the form:
//
//	instructions:
//	  - "MOV *x, #5"
//	  - "ADD *x, #1"
func LoadStreamFileFromYAML(path string) ([]isa.Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stream file: %w", err)
	}

	var f streamFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load stream file %s: %w", path, err)
	}

	var stream []isa.Instruction
	for n, line := range f.Instructions {
		inst, err := isa.ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("load stream file %s: instruction %d: %w", path, n+1, err)
		}
		inst.Pos = n + 1
		stream = append(stream, inst)
	}

	return stream, nil
}
