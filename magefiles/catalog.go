//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Catalog groups targets for the SQLite proposal catalog.
type Catalog mg.Namespace

// Store parses proposals/ and indexes it into catalog/catalog.db.
func (Catalog) Store() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "catalog", "store", "proposals")
}

// Export writes catalog/export.yaml and catalog/export.json.
func (Catalog) Export() error {
	if err := (Catalog{}).Store(); err != nil {
		return err
	}
	bin := filepath.Join(binDir, binName)
	if err := sh.RunV(bin, "catalog", "export", "--format", "yaml"); err != nil {
		return err
	}
	return sh.RunV(bin, "catalog", "export", "--format", "json")
}
