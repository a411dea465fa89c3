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

package ledger_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/blobmig/pkg/ledger"
)

func entry(name string, status ledger.Status) ledger.Entry {
	return ledger.Entry{
		FileName:   name,
		FilePath:   "docs/" + name,
		Size:       "12 MB",
		UploadTime: time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local),
		Status:     status,
	}
}

// 🧪 TestAppendInitializesLedger tests that the first append creates the
// file with a header row
func TestAppendInitializesLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l := ledger.New(path)

	// Nothing on disk before the first append
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, l.Append(context.Background(), entry("a.zip", ledger.StatusUploaded)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"FileName", "FilePath", "Size", "UploadTime", "Status"}, rows[0])
	assert.Equal(t, "a.zip", rows[1][0])
	assert.Equal(t, "docs/a.zip", rows[1][1])
	assert.Equal(t, "Uploaded", rows[1][4])
}

// 🧪 TestAppendIsAppendOnly tests that later appends never rewrite the header
// or earlier entries
func TestAppendIsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l := ledger.New(path)
	ctx := context.Background()

	require.NoError(t, l.Append(ctx, entry("a.zip", ledger.StatusUploaded)))
	require.NoError(t, l.Append(ctx, entry("b.zip", ledger.StatusFailed)))
	require.NoError(t, l.Append(ctx, entry("c.zip", ledger.StatusUploaded)))

	entries, err := l.Read(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.zip", entries[0].FileName)
	assert.Equal(t, ledger.StatusFailed, entries[1].Status)
	assert.Equal(t, "c.zip", entries[2].FileName)
}

// 🧪 TestReadRoundTrip tests that Read returns what Append wrote
func TestReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.csv")
	l := ledger.New(path)
	ctx := context.Background()

	want := entry("a.zip", ledger.StatusUploaded)
	require.NoError(t, l.Append(ctx, want))

	entries, err := l.Read(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, want.FileName, entries[0].FileName)
	assert.Equal(t, want.FilePath, entries[0].FilePath)
	assert.Equal(t, want.Size, entries[0].Size)
	assert.True(t, want.UploadTime.Equal(entries[0].UploadTime))
	assert.Equal(t, want.Status, entries[0].Status)
}
