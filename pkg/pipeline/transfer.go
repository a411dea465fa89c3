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

package pipeline

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/walteh/blobmig/pkg/blob"
	"github.com/walteh/blobmig/pkg/inventory"
	"github.com/walteh/blobmig/pkg/ledger"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the explicit result of one transfer attempt. The driver
// matches on it to decide whether to continue; no stage signals a per-item
// failure any other way.
type Outcome int

const (
	OutcomeUnknown        Outcome = iota
	OutcomeUploaded               // Downloaded, uploaded, ledgered
	OutcomeUploadFailed           // Downloaded, upload failed, ledgered as Failed
	OutcomeDownloadFailed         // Never staged; warned, no ledger entry
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUploaded:
		return "uploaded"
	case OutcomeUploadFailed:
		return "upload failed"
	case OutcomeDownloadFailed:
		return "download failed"
	default:
		return "unknown"
	}
}

// 📄 TransferResult reports what happened to one file record
type TransferResult struct {
	Record  inventory.FileRecord
	Outcome Outcome
	Key     string // Storage key, empty when the file was never staged
	Err     error  // Cause for the failed outcomes
}

// 🚚 Transferrer performs the download → upload → ledger → cleanup sequence
// for single file records, one at a time.
type Transferrer struct {
	stagingRoot string
	uploader    blob.Uploader
	ledger      *ledger.Ledger
}

// 🏭 NewTransferrer creates a transferrer staging files under stagingRoot
func NewTransferrer(stagingRoot string, uploader blob.Uploader, ldg *ledger.Ledger) *Transferrer {
	return &Transferrer{
		stagingRoot: stagingRoot,
		uploader:    uploader,
		ledger:      ldg,
	}
}

// 🎯 Transfer runs one attempt for rec over an open session. Whatever happens
// after the download succeeds, exactly one ledger entry is appended and the
// staged copy is removed before returning, so local usage never exceeds one
// pending file.
func (t *Transferrer) Transfer(ctx context.Context, sess Fetcher, rec inventory.FileRecord) TransferResult {
	logger := zerolog.Ctx(ctx)

	localDir, localName, err := t.resolve(rec)
	if err != nil {
		logger.Warn().Err(err).Str("file", rec.Name).Msg("cannot resolve remote location, skipping")
		return TransferResult{Record: rec, Outcome: OutcomeDownloadFailed, Err: err}
	}

	if err := sess.Fetch(ctx, rec.Location, localDir, localName); err != nil {
		logger.Warn().Err(err).Str("file", rec.Name).Msg("download failed, skipping")
		return TransferResult{Record: rec, Outcome: OutcomeDownloadFailed, Err: errors.Errorf("downloading %s: %w", rec.Name, err)}
	}

	staged := filepath.Join(localDir, localName)
	return t.uploadStaged(ctx, rec, staged)
}

// 📤 uploadStaged uploads an already-staged file, appends the ledger entry,
// and deletes the staged copy. Cleanup is deferred so it runs on every exit
// path once the file exists locally.
func (t *Transferrer) uploadStaged(ctx context.Context, rec inventory.FileRecord, staged string) (res TransferResult) {
	logger := zerolog.Ctx(ctx)

	res = TransferResult{Record: rec}

	defer func() {
		if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
			logger.Warn().Err(err).Str("path", staged).Msg("removing staged copy failed")
		}
	}()

	key, err := blob.Key(t.stagingRoot, staged)
	if err != nil {
		res.Outcome = OutcomeUploadFailed
		res.Err = err
	} else {
		res.Key = key
		if err := t.uploader.Put(ctx, key, staged); err != nil {
			logger.Warn().Err(err).Str("file", rec.Name).Str("key", key).Msg("upload failed")
			res.Outcome = OutcomeUploadFailed
			res.Err = errors.Errorf("uploading %s: %w", rec.Name, err)
		} else {
			res.Outcome = OutcomeUploaded
		}
	}

	status := ledger.StatusUploaded
	if res.Outcome != OutcomeUploaded {
		status = ledger.StatusFailed
	}

	entry := ledger.Entry{
		FileName:   rec.Name,
		FilePath:   res.Key,
		Size:       t.sizeOf(rec, staged),
		UploadTime: time.Now(),
		Status:     status,
	}
	if err := t.ledger.Append(ctx, entry); err != nil {
		// The attempt already happened; all we can do is shout.
		logger.Error().Err(err).Str("file", rec.Name).Msg("ledger append failed")
		if res.Err == nil {
			res.Err = err
		}
	}

	return res
}

// 🗺️ resolve maps the record's remote location onto the staging root,
// preserving the remote path hierarchy.
func (t *Transferrer) resolve(rec inventory.FileRecord) (localDir, localName string, err error) {
	u, err := url.Parse(rec.Location)
	if err != nil {
		return "", "", errors.Errorf("parsing location %q: %w", rec.Location, err)
	}

	remote := path.Clean("/" + u.Path)
	name := path.Base(remote)
	if name == "/" || name == "." {
		return "", "", errors.Errorf("location %q has no file component", rec.Location)
	}

	dir := path.Dir(remote)
	localDir = filepath.Join(t.stagingRoot, filepath.FromSlash(strings.TrimPrefix(dir, "/")))
	return localDir, name, nil
}

// 📏 sizeOf prefers the actual staged byte count, falling back to the
// declared inventory size when the file is already gone
func (t *Transferrer) sizeOf(rec inventory.FileRecord, staged string) string {
	if info, err := os.Stat(staged); err == nil {
		return humanize.Bytes(uint64(info.Size()))
	}
	return humanize.Bytes(uint64(rec.SizeMB * 1024 * 1024))
}
