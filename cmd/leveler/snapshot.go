package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JaimeStill/verum/leveler"
)

func readSnapshot(path string) (leveler.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return leveler.Input{}, err
	}
	defer f.Close()

	var in leveler.Input
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return leveler.Input{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return in, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes v to path, or to fallback when path is empty.
func writeOutput(path string, fallback io.Writer, v any) error {
	if path == "" {
		return writeJSON(fallback, v)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
