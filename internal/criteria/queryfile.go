// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package criteria

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"
)

// QueryFile is the on-disk form of a saved search. It holds the search
// parameters only; results are always fetched fresh.
type QueryFile struct {
	Description string    `yaml:"description,omitempty"`
	SavedAt     time.Time `yaml:"saved_at,omitempty"`
	Params      Params    `yaml:"search_params"`
}

// WriteQueryFile saves qf as YAML at path.
func WriteQueryFile(path string, qf QueryFile) error {
	if qf.SavedAt.IsZero() {
		qf.SavedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return errors.Wrap(err, "marshaling query file")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing query file %s", path)
	}
	return nil
}

// ReadQueryFile loads a saved search and checks that its parameters build.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading query file")
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		if errors.Is(err, ErrValidation) {
			return nil, err
		}
		return nil, NewValidationError("query_file", "parsing %s: %v", path, err)
	}
	if _, err := qf.Params.Build(); err != nil {
		return nil, err
	}
	return &qf, nil
}
