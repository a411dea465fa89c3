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

	"github.com/rs/zerolog"
	"github.com/walteh/blobmig/pkg/inventory"
	"github.com/walteh/blobmig/pkg/source"
)

// 📥 Fetcher is the slice of a source session the transferrer needs
type Fetcher interface {
	Fetch(ctx context.Context, remotePath, localDir, localName string) error
}

// 📈 Reporter receives user-facing progress events as the run advances
type Reporter interface {
	// 🌐 StartSite announces that a group's session is open
	StartSite(site string, files int)

	// 📄 FileResult reports one finished transfer attempt
	FileResult(res TransferResult)

	// ⏭️ SiteSkipped reports a whole group skipped because its session
	// could not be opened
	SiteSkipped(site string, files int, err error)

	// 🏁 Summary reports the final run totals
	Summary(sum Summary)
}

// 🔢 Summary holds the run totals. The process exits zero regardless of the
// failure counts; only the fatal tier (inventory absence, schema) aborts.
type Summary struct {
	Records        int // Records entering the pipeline
	Sites          int // Endpoint groups formed (addresses merged by containment)
	SessionsOpened int
	Attempted      int // Transfer attempts (download step reached)
	Uploaded       int
	UploadFailed   int
	DownloadFailed int
	SkippedRecords int // Records never attempted because their group was skipped
}

// 🚂 Driver sequences groups, sessions, and transfers, continuing past every
// non-fatal failure tier.
type Driver struct {
	connector   source.Connector
	transferrer *Transferrer
	reporter    Reporter
}

// 🏭 NewDriver creates a driver
func NewDriver(connector source.Connector, transferrer *Transferrer, reporter Reporter) *Driver {
	return &Driver{
		connector:   connector,
		transferrer: transferrer,
		reporter:    reporter,
	}
}

// 🎯 Run migrates every record, one endpoint group at a time. A session-open
// failure skips that group; a transfer failure skips that record; nothing
// here aborts the run.
func (d *Driver) Run(ctx context.Context, records []inventory.FileRecord) Summary {
	logger := zerolog.Ctx(ctx)

	groups := inventory.GroupBySite(records)

	sum := Summary{
		Records: len(records),
		Sites:   len(groups),
	}

	for _, group := range groups {
		d.runGroup(ctx, group, &sum)
	}

	logger.Info().
		Int("records", sum.Records).
		Int("sites", sum.Sites).
		Int("uploaded", sum.Uploaded).
		Int("failed", sum.UploadFailed).
		Int("download_failed", sum.DownloadFailed).
		Int("skipped", sum.SkippedRecords).
		Msg("migration run finished")

	d.reporter.Summary(sum)
	return sum
}

// 🌐 runGroup processes one endpoint group under one session. The session is
// closed before returning on every path; close failures are swallowed since
// the session is being discarded regardless.
func (d *Driver) runGroup(ctx context.Context, group inventory.EndpointGroup, sum *Summary) {
	logger := zerolog.Ctx(ctx)

	sess, err := d.connector.Connect(ctx, group.Site)
	if err != nil {
		logger.Warn().Err(err).Str("site", group.Site).Int("files", len(group.Records)).
			Msg("session open failed, skipping site")
		sum.SkippedRecords += len(group.Records)
		d.reporter.SiteSkipped(group.Site, len(group.Records), err)
		return
	}
	sum.SessionsOpened++

	defer func() {
		if err := sess.Close(ctx); err != nil {
			logger.Debug().Err(err).Str("site", group.Site).Msg("session close failed, ignoring")
		}
	}()

	d.reporter.StartSite(group.Site, len(group.Records))

	for _, rec := range group.Records {
		sum.Attempted++
		res := d.transferrer.Transfer(ctx, sess, rec)
		switch res.Outcome {
		case OutcomeUploaded:
			sum.Uploaded++
		case OutcomeUploadFailed:
			sum.UploadFailed++
		case OutcomeDownloadFailed:
			sum.DownloadFailed++
		}
		d.reporter.FileResult(res)
	}
}
