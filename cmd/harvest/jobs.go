package main

import (
	"fmt"

	"github.com/fwojciec/harvest"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Run executes the jobs command.
func (c *JobsCmd) Run(deps *Dependencies) error {
	filter := harvest.JobRecordFilter{Limit: c.Limit}
	if c.State != "" {
		state := harvest.JobState(c.State)
		filter.State = &state
	}

	records, err := deps.Journal.FindJobRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No jobs recorded. Use 'harvest trigger' or 'harvest crawl' to start one.")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(deps.Stdout)
	t.AppendHeader(table.Row{"Job ID", "Kind", "Source", "Target", "State", "Created"})
	for _, rec := range records {
		source := rec.Platform
		if rec.Method != "" {
			source = rec.Platform + "/" + rec.Method
		}
		t.AppendRow(table.Row{
			rec.JobID,
			rec.Kind,
			source,
			truncate(rec.Target, 48),
			rec.State,
			rec.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
