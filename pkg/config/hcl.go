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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	// Define HCL schema
	type hclConfig struct {
		Inventory struct {
			Path    string `hcl:"path"`
			Sheet   string `hcl:"sheet,optional"`
			Columns *struct {
				Name     string `hcl:"name,optional"`
				Location string `hcl:"location,optional"`
				Size     string `hcl:"size,optional"`
				Site     string `hcl:"site,optional"`
			} `hcl:"columns,block"`
			IgnorePatterns []string `hcl:"ignore_patterns,optional"`
		} `hcl:"inventory,block"`
		Source struct {
			Variant  string `hcl:"variant"`
			TokenURL string `hcl:"token_url,optional"`
			ClientID string `hcl:"client_id,optional"`
			CertPath string `hcl:"cert_path,optional"`
			Username string `hcl:"username,optional"`
			Password string `hcl:"password,optional"`
		} `hcl:"source,block"`
		Blob struct {
			Bucket    string `hcl:"bucket"`
			Region    string `hcl:"region"`
			AccessKey string `hcl:"access_key"`
			SecretKey string `hcl:"secret_key"`
			KeyPrefix string `hcl:"key_prefix,optional"`
		} `hcl:"blob,block"`
		StagingRoot string `hcl:"staging_root"`
		LedgerPath  string `hcl:"ledger_path,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to our config type
	cfg := &Config{
		Inventory: InventoryArgs{
			Path:           hclCfg.Inventory.Path,
			Sheet:          hclCfg.Inventory.Sheet,
			IgnorePatterns: hclCfg.Inventory.IgnorePatterns,
		},
		Source: SourceArgs{
			Variant:  hclCfg.Source.Variant,
			TokenURL: hclCfg.Source.TokenURL,
			ClientID: hclCfg.Source.ClientID,
			CertPath: hclCfg.Source.CertPath,
			Username: hclCfg.Source.Username,
			Password: hclCfg.Source.Password,
		},
		Blob: BlobArgs{
			Bucket:    hclCfg.Blob.Bucket,
			Region:    hclCfg.Blob.Region,
			AccessKey: hclCfg.Blob.AccessKey,
			SecretKey: hclCfg.Blob.SecretKey,
			KeyPrefix: hclCfg.Blob.KeyPrefix,
		},
		StagingRoot: hclCfg.StagingRoot,
		LedgerPath:  hclCfg.LedgerPath,
	}

	if hclCfg.Inventory.Columns != nil {
		cfg.Inventory.Columns = Columns{
			Name:     hclCfg.Inventory.Columns.Name,
			Location: hclCfg.Inventory.Columns.Location,
			Size:     hclCfg.Inventory.Columns.Size,
			Site:     hclCfg.Inventory.Columns.Site,
		}
	}

	return cfg, nil
}
