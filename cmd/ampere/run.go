package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"Ampere/internal/calc/cable"
	"Ampere/internal/calc/demand"
	"Ampere/internal/calc/derating"
	"Ampere/internal/calc/diversity"
	"Ampere/internal/calc/lighting"
)

// readInput decodes a YAML (or JSON) file into v; "-" reads stdin.
func readInput(path string, v any) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCable(path string, w io.Writer) error {
	var in cable.Input
	if err := readInput(path, &in); err != nil {
		return err
	}
	res, err := cable.Calculate(in)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

func runDerate(path string, w io.Writer) error {
	var in derating.Input
	if err := readInput(path, &in); err != nil {
		return err
	}
	res, err := derating.Calculate(in)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

func runDemand(path, floorsPath string, w io.Writer) error {
	var in demand.Input
	if err := readInput(path, &in); err != nil {
		return err
	}
	policy := diversity.DefaultPolicy()
	if floorsPath != "" {
		var floors map[diversity.Category]float64
		if err := readInput(floorsPath, &floors); err != nil {
			return err
		}
		p, err := policy.WithFloors(floors)
		if err != nil {
			return err
		}
		policy = p
	}
	res, err := demand.CalculateWithPolicy(in, policy)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}

func runLighting(path string, w io.Writer) error {
	var in lighting.Input
	if err := readInput(path, &in); err != nil {
		return err
	}
	res, err := lighting.Calculate(in)
	if err != nil {
		return err
	}
	return writeJSON(w, res)
}
