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

package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/blobmig/pkg/config"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

const yamlConfig = `
inventory:
  path: /data/inventory.xlsx
source:
  variant: delegated
  token_url: https://login.example.com/token
  username: svc-migrate
  password: hunter2
blob:
  bucket: archive-lake
  region: eu-west-1
  access_key: AKIA123
  secret_key: shhh
staging_root: /var/lib/blobmig/staging
`

// 🧪 TestLoadYAML tests loading and defaulting a YAML config
func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "blobmig.yaml", yamlConfig)

	cfg, err := config.Load(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/inventory.xlsx", cfg.Inventory.Path)
	assert.Equal(t, config.VariantDelegated, cfg.Source.Variant)
	assert.Equal(t, "archive-lake", cfg.Blob.Bucket)

	// Column names and ledger path default
	assert.Equal(t, []string{"Name", "Location", "Size (MB)", "Site Address"}, cfg.Inventory.Columns.Required())
	assert.Equal(t, filepath.Join("/var/lib/blobmig/staging", "migration-ledger.csv"), cfg.LedgerPath)
}

const hclConfig = `
inventory {
  path = "/data/inventory.xlsx"
  ignore_patterns = ["*.tmp"]
  columns {
    site = "Site URL"
  }
}

source {
  variant   = "principal"
  token_url = "https://login.example.com/token"
  client_id = "app-123"
  cert_path = "/etc/blobmig/principal.pem"
}

blob {
  bucket     = "archive-lake"
  region     = "eu-west-1"
  access_key = "AKIA123"
  secret_key = "shhh"
  key_prefix = "migrated"
}

staging_root = "/var/lib/blobmig/staging"
ledger_path  = "/var/log/blobmig/ledger.csv"
`

// 🧪 TestLoadHCL tests loading an HCL config
func TestLoadHCL(t *testing.T) {
	path := writeConfig(t, "blobmig.hcl", hclConfig)

	cfg, err := config.Load(testContext(t), path)
	require.NoError(t, err)

	assert.Equal(t, config.VariantPrincipal, cfg.Source.Variant)
	assert.Equal(t, "app-123", cfg.Source.ClientID)
	assert.Equal(t, []string{"*.tmp"}, cfg.Inventory.IgnorePatterns)
	assert.Equal(t, "migrated", cfg.Blob.KeyPrefix)
	assert.Equal(t, "/var/log/blobmig/ledger.csv", cfg.LedgerPath)

	// Overridden column keeps its custom name, the rest default
	assert.Equal(t, "Site URL", cfg.Inventory.Columns.Site)
	assert.Equal(t, "Name", cfg.Inventory.Columns.Name)
}

// 🧪 TestLoadUnknownExtension tests that unparseable files are rejected
func TestLoadUnknownExtension(t *testing.T) {
	path := writeConfig(t, "blobmig.toml", "whatever")

	_, err := config.Load(testContext(t), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

// 🧪 TestValidate tests validation failures
func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Inventory:   config.InventoryArgs{Path: "/data/inv.xlsx"},
			Source:      config.SourceArgs{Variant: config.VariantDelegated, Username: "u", Password: "p"},
			Blob:        config.BlobArgs{Bucket: "b", Region: "r", AccessKey: "a", SecretKey: "s"},
			StagingRoot: "/tmp/staging",
		}
	}

	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "missing_inventory_path",
			mutate:        func(c *config.Config) { c.Inventory.Path = "" },
			expectedError: "inventory.path is required",
		},
		{
			name:          "missing_staging_root",
			mutate:        func(c *config.Config) { c.StagingRoot = "" },
			expectedError: "staging_root is required",
		},
		{
			name:          "missing_bucket",
			mutate:        func(c *config.Config) { c.Blob.Bucket = "" },
			expectedError: "blob.bucket is required",
		},
		{
			name:          "unknown_variant",
			mutate:        func(c *config.Config) { c.Source.Variant = "kerberos" },
			expectedError: "unknown credential variant",
		},
		{
			name: "principal_without_cert",
			mutate: func(c *config.Config) {
				c.Source = config.SourceArgs{Variant: config.VariantPrincipal, ClientID: "x"}
			},
			expectedError: "requires client_id and cert_path",
		},
		{
			name: "delegated_without_password",
			mutate: func(c *config.Config) {
				c.Source = config.SourceArgs{Variant: config.VariantDelegated, Username: "u"}
			},
			expectedError: "requires username and password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}

	t.Run("valid_config_passes", func(t *testing.T) {
		cfg := valid()
		require.NoError(t, cfg.Validate(context.Background()))
	})
}
