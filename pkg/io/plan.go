package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hallgen/hallgen/pkg/pipeline"
)

// WritePlan encodes a compiled plan as indented JSON and writes it to w.
// The output can be re-imported with [ReadPlan] for round-trip processing.
func WritePlan(p *pipeline.Plan, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return nil
}

// ExportPlan writes a plan to a JSON file at path.
// This is a convenience wrapper around [WritePlan] for file-based output.
func ExportPlan(p *pipeline.Plan, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WritePlan(p, f)
}

// ReadPlan decodes a JSON plan from r.
//
// The returned plan is independent of r and can be used freely after
// ReadPlan returns. ReadPlan does not close r.
func ReadPlan(r io.Reader) (*pipeline.Plan, error) {
	var p pipeline.Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &p, nil
}

// ImportPlan reads a JSON plan file at path.
//
// ImportPlan opens the file, decodes it using [ReadPlan], and closes the
// file. Errors wrap the underlying cause with the file path for context.
func ImportPlan(path string) (*pipeline.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadPlan(f)
}
