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

package log

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/blobmig/pkg/pipeline"
)

// 📢 ConsoleReporter renders per-file and per-site progress for a human
// operator. Structured logging stays on zerolog; this is the pretty layer.
type ConsoleReporter struct {
	out io.Writer
	log zerolog.Logger
}

// 🏭 NewConsoleReporter creates a reporter writing to out
func NewConsoleReporter(ctx context.Context, out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		out: out,
		log: *zerolog.Ctx(ctx),
	}
}

// 🌐 StartSite announces that a group's session is open
func (r *ConsoleReporter) StartSite(site string, files int) {
	pterm.Info.WithPrefix(pterm.Prefix{Text: "🌐"}).WithWriter(r.out).
		Printf("%s (%d files)\n", site, files)
}

// ⏭️ SiteSkipped reports a whole group skipped at session open
func (r *ConsoleReporter) SiteSkipped(site string, files int, err error) {
	pterm.Warning.WithPrefix(pterm.Prefix{Text: "⏭️"}).WithWriter(r.out).
		Printf("%s skipped (%d files): %v\n", site, files, err)
}

// 📄 FileResult reports one finished transfer attempt
func (r *ConsoleReporter) FileResult(res pipeline.TransferResult) {
	var symbol string
	var colorize func(format string, a ...interface{}) string

	switch res.Outcome {
	case pipeline.OutcomeUploaded:
		symbol = "✓"
		colorize = color.GreenString
	case pipeline.OutcomeUploadFailed:
		symbol = "✗"
		colorize = color.RedString
	case pipeline.OutcomeDownloadFailed:
		symbol = "-"
		colorize = color.YellowString
	default:
		symbol = "?"
		colorize = color.WhiteString
	}

	line := fmt.Sprintf("  %s %-45s %s", symbol, res.Record.Name, res.Outcome)
	if res.Err != nil {
		line += fmt.Sprintf(" (%v)", res.Err)
	}
	fmt.Fprintln(r.out, colorize("%s", line))
}

// 🏁 Summary prints the final run totals
func (r *ConsoleReporter) Summary(sum pipeline.Summary) {
	fmt.Fprintln(r.out)
	pterm.DefaultSection.WithWriter(r.out).Println("Migration summary")
	fmt.Fprintf(r.out, "  sites:            %d\n", sum.Sites)
	fmt.Fprintf(r.out, "  sessions opened:  %d\n", sum.SessionsOpened)
	fmt.Fprintf(r.out, "  records:          %d\n", sum.Records)
	fmt.Fprintf(r.out, "  uploaded:         %s\n", color.GreenString("%d", sum.Uploaded))
	fmt.Fprintf(r.out, "  upload failed:    %s\n", color.RedString("%d", sum.UploadFailed))
	fmt.Fprintf(r.out, "  download failed:  %s\n", color.YellowString("%d", sum.DownloadFailed))
	fmt.Fprintf(r.out, "  skipped (sites):  %d\n", sum.SkippedRecords)
}

// 🤫 NopReporter discards all progress events
type NopReporter struct{}

func (NopReporter) StartSite(string, int)              {}
func (NopReporter) SiteSkipped(string, int, error)     {}
func (NopReporter) FileResult(pipeline.TransferResult) {}
func (NopReporter) Summary(pipeline.Summary)           {}
