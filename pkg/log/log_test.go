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

package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/walteh/blobmig/pkg/inventory"
	"github.com/walteh/blobmig/pkg/log"
	"github.com/walteh/blobmig/pkg/pipeline"
	"gitlab.com/tozd/go/errors"
)

func newReporter(t *testing.T) (*log.ConsoleReporter, *bytes.Buffer) {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := logger.WithContext(context.Background())
	var buf bytes.Buffer
	return log.NewConsoleReporter(ctx, &buf), &buf
}

// 🧪 TestFileResult tests per-file output lines
func TestFileResult(t *testing.T) {
	reporter, buf := newReporter(t)

	reporter.FileResult(pipeline.TransferResult{
		Record:  inventory.FileRecord{Name: "a.zip"},
		Outcome: pipeline.OutcomeUploaded,
		Key:     "docs/a.zip",
	})
	reporter.FileResult(pipeline.TransferResult{
		Record:  inventory.FileRecord{Name: "b.zip"},
		Outcome: pipeline.OutcomeDownloadFailed,
		Err:     errors.New("fetch refused"),
	})

	out := buf.String()
	assert.Contains(t, out, "a.zip")
	assert.Contains(t, out, "uploaded")
	assert.Contains(t, out, "b.zip")
	assert.Contains(t, out, "download failed")
	assert.Contains(t, out, "fetch refused")
}

// 🧪 TestSummary tests the run summary block
func TestSummary(t *testing.T) {
	reporter, buf := newReporter(t)

	reporter.Summary(pipeline.Summary{
		Records:        5,
		Sites:          2,
		SessionsOpened: 2,
		Attempted:      4,
		Uploaded:       3,
		UploadFailed:   1,
		SkippedRecords: 1,
	})

	out := buf.String()
	assert.Contains(t, out, "Migration summary")
	assert.Contains(t, out, "uploaded")
	assert.Contains(t, out, "sites:")
	assert.Contains(t, out, "3")
}
