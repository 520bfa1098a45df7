// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes the most recent runs to <dir>/export.yaml and returns
// the path written.
func (s *Store) ExportYAML(ctx context.Context, limit int) (string, error) {
	runs, err := s.Recent(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the most recent runs to <dir>/export.json and returns
// the path written.
func (s *Store) ExportJSON(ctx context.Context, limit int) (string, error) {
	runs, err := s.Recent(ctx, limit)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}
