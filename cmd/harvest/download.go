package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/export"
)

// Sized for large dataset snapshots; the rate bounds how often the
// deduper drops a unique record.
const (
	dedupeCapacity          = 1_000_000
	dedupeFalsePositiveRate = 0.001
)

// Run executes the download command.
func (c *DownloadCmd) Run(deps *Dependencies) error {
	h := deps.Client.Resume(c.JobID)

	if _, err := waitJob(deps, h); err != nil {
		return err
	}
	payload, err := h.Fetch(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	writer := export.NewWriter(c.Out)
	if c.Dedupe {
		writer.Dedupe = export.NewDeduper(dedupeCapacity, dedupeFalsePositiveRate)
	}
	path, count, err := writer.WritePayload(c.JobID, payload, c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Exported %d records to %s\n", count, path)
	return nil
}
