// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

const exportLimit = 100000

// ExportYAML writes the proposals matching opts to catalogDir/export.yaml
// and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	results, err := s.exportResults(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes the proposals matching opts to catalogDir/export.json
// and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	results, err := s.exportResults(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("export.json", data)
}

func (s *Store) exportResults(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	if results == nil {
		results = []QueryResult{}
	}
	return results, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.catalogDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return path, nil
}
