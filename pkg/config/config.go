// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📋 Columns names the inventory spreadsheet columns the pipeline requires
type Columns struct {
	Name     string `json:"name" yaml:"name"`         // Display name column
	Location string `json:"location" yaml:"location"` // Remote URI column
	Size     string `json:"size" yaml:"size"`         // Declared size column
	Site     string `json:"site" yaml:"site"`         // Owning endpoint address column
}

// 📦 InventoryArgs configures the spreadsheet inventory
type InventoryArgs struct {
	Path           string   `json:"path" yaml:"path"`
	Sheet          string   `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Columns        Columns  `json:"columns,omitempty" yaml:"columns,omitempty"`
	IgnorePatterns []string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"` // Glob patterns for records to skip
}

// 🔐 SourceArgs configures authentication against the source endpoints.
// Exactly one credential variant is selected per run via Variant.
type SourceArgs struct {
	Variant  string `json:"variant" yaml:"variant"` // "principal" or "delegated"
	TokenURL string `json:"token_url,omitempty" yaml:"token_url,omitempty"`
	ClientID string `json:"client_id,omitempty" yaml:"client_id,omitempty"`
	CertPath string `json:"cert_path,omitempty" yaml:"cert_path,omitempty"` // PEM bundle for the service principal
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// 🪣 BlobArgs configures the blob storage destination
type BlobArgs struct {
	Bucket    string `json:"bucket" yaml:"bucket"`
	Region    string `json:"region" yaml:"region"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Inventory InventoryArgs `json:"inventory" yaml:"inventory"`
	Source    SourceArgs    `json:"source" yaml:"source"`
	Blob      BlobArgs      `json:"blob" yaml:"blob"`

	// StagingRoot is the local directory files are staged under. It is always
	// threaded explicitly; nothing in the pipeline reads the process working
	// directory.
	StagingRoot string `json:"staging_root" yaml:"staging_root"`
	LedgerPath  string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`
}

// Credential variants for SourceArgs.Variant.
const (
	VariantPrincipal = "principal"
	VariantDelegated = "delegated"
)

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// ✅ Validate applies defaults and rejects obviously unusable configs
func (c *Config) Validate(ctx context.Context) error {
	if c.Inventory.Path == "" {
		return errors.New("inventory.path is required")
	}
	if c.StagingRoot == "" {
		return errors.New("staging_root is required")
	}
	if c.Blob.Bucket == "" {
		return errors.New("blob.bucket is required")
	}

	c.applyColumnDefaults()

	if c.LedgerPath == "" {
		c.LedgerPath = filepath.Join(c.StagingRoot, "migration-ledger.csv")
	}

	switch c.Source.Variant {
	case VariantPrincipal:
		if c.Source.ClientID == "" || c.Source.CertPath == "" {
			return errors.New("source: principal variant requires client_id and cert_path")
		}
	case VariantDelegated:
		if c.Source.Username == "" || c.Source.Password == "" {
			return errors.New("source: delegated variant requires username and password")
		}
	default:
		return errors.Errorf("source: unknown credential variant %q", c.Source.Variant)
	}

	return nil
}

// applyColumnDefaults fills in the conventional inventory column names
func (c *Config) applyColumnDefaults() {
	cols := &c.Inventory.Columns
	if cols.Name == "" {
		cols.Name = "Name"
	}
	if cols.Location == "" {
		cols.Location = "Location"
	}
	if cols.Size == "" {
		cols.Size = "Size (MB)"
	}
	if cols.Site == "" {
		cols.Site = "Site Address"
	}
}

// 📜 Required returns the required column names in spreadsheet order
func (c Columns) Required() []string {
	return []string{c.Name, c.Location, c.Size, c.Site}
}
