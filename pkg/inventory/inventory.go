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

package inventory

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/blobmig/pkg/config"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

var (
	// 🚫 ErrNotFound means the inventory spreadsheet does not exist
	ErrNotFound = errors.Base("inventory file not found")

	// 🚫 ErrSchema means a required column is absent from the header row
	ErrSchema = errors.Base("inventory schema invalid")
)

// 📄 FileRecord is one validated row of inventory. Immutable once loaded.
type FileRecord struct {
	Name        string  // Display name
	Location    string  // Remote URI of the file
	SizeMB      float64 // Declared size in megabytes
	SiteAddress string  // Owning endpoint address
}

// 📦 Loader reads and validates the inventory spreadsheet
type Loader struct {
	args config.InventoryArgs
}

// 🏭 NewLoader creates a new inventory loader
func NewLoader(args config.InventoryArgs) *Loader {
	return &Loader{args: args}
}

// 🎯 Load reads the spreadsheet and returns the ordered file records.
// An inventory with zero data rows is not an error; callers treat it as a
// clean no-op.
func (l *Loader) Load(ctx context.Context) ([]FileRecord, error) {
	logger := zerolog.Ctx(ctx)

	if _, err := os.Stat(l.args.Path); err != nil {
		return nil, errors.Errorf("%w: %s", ErrNotFound, l.args.Path)
	}

	f, err := l.openWithRetry(ctx)
	if err != nil {
		return nil, errors.Errorf("opening inventory: %w", err)
	}
	defer f.Close()

	sheet := l.args.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	idx, err := columnIndexes(rows[0], l.args.Columns)
	if err != nil {
		return nil, err
	}

	var records []FileRecord
	for _, row := range rows[1:] {
		rec := FileRecord{
			Name:        cell(row, idx.name),
			Location:    cell(row, idx.location),
			SiteAddress: cell(row, idx.site),
		}
		if rec.Name == "" && rec.Location == "" {
			continue // trailing blank rows are common in hand-edited sheets
		}
		if l.ignored(rec.Name) {
			logger.Debug().Str("file", rec.Name).Msg("record matches ignore pattern, dropping")
			continue
		}
		if size, err := strconv.ParseFloat(strings.TrimSpace(cell(row, idx.size)), 64); err == nil {
			rec.SizeMB = size
		}
		records = append(records, rec)
	}

	logger.Debug().Int("records", len(records)).Str("sheet", sheet).Msg("inventory loaded")
	return records, nil
}

// 🔁 openWithRetry opens the workbook, breaking a stale sharing lock and
// retrying exactly once if the first open fails.
func (l *Loader) openWithRetry(ctx context.Context) (*excelize.File, error) {
	f, err := excelize.OpenFile(l.args.Path)
	if err == nil {
		return f, nil
	}

	zerolog.Ctx(ctx).Warn().Err(err).Str("path", l.args.Path).
		Msg("inventory open failed, breaking sharing lock and retrying once")

	if lockErr := breakSharingLock(l.args.Path); lockErr != nil {
		zerolog.Ctx(ctx).Debug().Err(lockErr).Msg("no sharing lock to break")
	}

	f, retryErr := excelize.OpenFile(l.args.Path)
	if retryErr != nil {
		return nil, errors.Errorf("retry after breaking lock: %w", retryErr)
	}
	return f, nil
}

// breakSharingLock removes the owner-lock sidecar a spreadsheet editor leaves
// next to an open workbook ("~$name.xlsx").
func breakSharingLock(path string) error {
	lock := filepath.Join(filepath.Dir(path), "~$"+filepath.Base(path))
	if err := os.Remove(lock); err != nil {
		return errors.Errorf("removing lock file: %w", err)
	}
	return nil
}

// ignored reports whether the record name matches an ignore pattern
func (l *Loader) ignored(name string) bool {
	for _, pattern := range l.args.IgnorePatterns {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

// columns holds the resolved header indexes of the required columns
type columns struct {
	name, location, size, site int
}

// columnIndexes validates the header row against the required column names.
// Validation happens once, up front; rows are only converted to FileRecords
// after every required column is confirmed present.
func columnIndexes(header []string, cols config.Columns) (columns, error) {
	find := func(want string) int {
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				return i
			}
		}
		return -1
	}

	idx := columns{
		name:     find(cols.Name),
		location: find(cols.Location),
		size:     find(cols.Size),
		site:     find(cols.Site),
	}

	for _, c := range []struct {
		want string
		got  int
	}{
		{cols.Name, idx.name},
		{cols.Location, idx.location},
		{cols.Size, idx.size},
		{cols.Site, idx.site},
	} {
		if c.got < 0 {
			return columns{}, errors.Errorf("%w: missing required column %q", ErrSchema, c.want)
		}
	}

	return idx, nil
}

// cell returns the i-th cell of a row, tolerating short rows
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
