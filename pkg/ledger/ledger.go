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

package ledger

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Status is the terminal outcome recorded for a transfer attempt
type Status string

const (
	StatusUploaded Status = "Uploaded"
	StatusFailed   Status = "Failed"
)

// header is written once, on the first append to a fresh ledger file
var header = []string{"FileName", "FilePath", "Size", "UploadTime", "Status"}

// 🧾 Entry is one immutable audit record. Appended exactly once per transfer
// attempt; never revised.
type Entry struct {
	FileName   string    // Display name of the file
	FilePath   string    // Relative path used as the storage key
	Size       string    // Human-readable size string
	UploadTime time.Time // When the attempt finished
	Status     Status
}

// 📒 Ledger appends audit records to a CSV file, self-initializing on first
// write. Write-only and append-only for the lifetime of a run.
type Ledger struct {
	path string
}

// 🏭 New creates a ledger writing to path. Nothing is created on disk until
// the first append.
func New(path string) *Ledger {
	return &Ledger{path: path}
}

// ✍️ Append durably writes one entry, creating the file and header first if
// the ledger does not exist yet.
func (l *Ledger) Append(ctx context.Context, entry Entry) error {
	fresh := false
	if _, err := os.Stat(l.path); os.IsNotExist(err) {
		fresh = true
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return errors.Errorf("creating ledger directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return errors.Errorf("writing ledger header: %w", err)
		}
	}

	record := []string{
		entry.FileName,
		entry.FilePath,
		entry.Size,
		entry.UploadTime.Format("2006-01-02 15:04:05"),
		string(entry.Status),
	}
	if err := w.Write(record); err != nil {
		return errors.Errorf("writing ledger entry: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Errorf("flushing ledger: %w", err)
	}
	if err := f.Sync(); err != nil {
		return errors.Errorf("syncing ledger: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("file", entry.FileName).Str("status", string(entry.Status)).
		Msg("ledger entry appended")

	return nil
}

// 📖 Read loads all entries from the ledger, oldest first. Used by the
// ledger inspection command, never by the pipeline itself.
func (l *Ledger) Read(ctx context.Context) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, errors.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Errorf("reading ledger: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.Errorf("malformed ledger row: %v", row)
		}
		when, err := time.ParseInLocation("2006-01-02 15:04:05", row[3], time.Local)
		if err != nil {
			return nil, errors.Errorf("parsing ledger timestamp: %w", err)
		}
		entries = append(entries, Entry{
			FileName:   row[0],
			FilePath:   row[1],
			Size:       row[2],
			UploadTime: when,
			Status:     Status(row[4]),
		})
	}

	return entries, nil
}
