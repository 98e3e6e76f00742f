package services

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/duty-roster/pkg/core/roster"
)

// LoadInput reads a roster input document. JSON documents are read by the
// same decoder since JSON is valid YAML. Unknown keys are rejected.
func LoadInput(path string) (*roster.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster input: %w", err)
	}
	return ParseInput(data)
}

// ParseInput decodes a roster input document
func ParseInput(data []byte) (*roster.Input, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var in roster.Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse roster input: %w", err)
	}
	return &in, nil
}
