package ui

import (
	"fmt"
	"strings"

	"github.com/vaeleborne/rcpy/internal/stats"
)

// MaxSummaryErrors caps the error listing in the completion summary.
const MaxSummaryErrors = 20

// CompletionSummary renders the end-of-run report:
//
//	✓ copy complete
//	  files     48,917 copied
//	  dirs      1,204 created
//	  excluded  12
//	  size      2.1 GiB
//	  errors    0
//	  time      3m 17s (641 MiB/s)
//
// followed by the recorded errors, if any.
func CompletionSummary(snap stats.Snapshot, errs []stats.TaskError, dryRun bool) string {
	title, copied, created := "copy complete", "copied", "created"
	if dryRun {
		title, copied, created = "dry run complete", "would be copied", "would be created"
	}
	icon := "✓"
	if snap.Errors() > 0 {
		icon = "✗"
	}

	var b strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&b, "  %-9s %s\n", label, value)
	}

	fmt.Fprintf(&b, "%s %s\n", icon, title)
	row("files", FormatCount(snap.FilesCopied)+" "+copied)
	row("dirs", FormatCount(snap.DirsCreated)+" "+created)
	row("excluded", FormatCount(snap.FilesExcluded))
	row("size", FormatBytes(snap.BytesCopied))
	if snap.FilesVerified > 0 || snap.VerifyFailed > 0 {
		row("verified", fmt.Sprintf("%s (%d mismatched)", FormatCount(snap.FilesVerified), snap.VerifyFailed))
	}
	row("errors", FormatCount(snap.Errors()))

	elapsed := FormatDuration(snap.Elapsed)
	if !dryRun && snap.Elapsed > 0 && snap.BytesCopied > 0 {
		elapsed += " (" + FormatRate(float64(snap.BytesCopied)/snap.Elapsed.Seconds()) + ")"
	}
	row("time", elapsed)

	if len(errs) > 0 {
		b.WriteString("errors:\n")
		for i, e := range errs {
			if i == MaxSummaryErrors {
				fmt.Fprintf(&b, "  ... and %d more\n", len(errs)-MaxSummaryErrors)
				break
			}
			fmt.Fprintf(&b, "  %s\n", e.Error())
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Banner is printed before the run starts.
func Banner(recursive, dryRun bool, workers int) string {
	mode := "recursive"
	if !recursive {
		mode = "non-recursive"
	}
	threads := "single-threaded"
	if workers > 1 {
		threads = fmt.Sprintf("%d workers", workers)
	}
	s := fmt.Sprintf("rcpy: %s, %s", mode, threads)
	if dryRun {
		s += ", dry run (nothing will be written)"
	}
	return s
}
