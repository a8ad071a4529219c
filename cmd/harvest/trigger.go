package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/scrape"
)

// Run executes the trigger command.
func (c *TriggerCmd) Run(deps *Dependencies) error {
	inputs, err := c.inputs()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	h, err := deps.Client.Trigger(deps.Ctx, c.Platform, c.Method, inputs)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", harvest.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Triggered %s/%s job %s\n", c.Platform, c.Method, h.ID())

	if !c.Wait {
		fmt.Fprintf(deps.Stdout, "Run 'harvest download %s' to export the results\n", h.ID())
		return nil
	}

	if _, err := waitJob(deps, h); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Job %s ready\n", h.ID())
	fmt.Fprintf(deps.Stdout, "Run 'harvest download %s' to export the results\n", h.ID())
	return nil
}

// inputs builds the dataset input records from the file or URL arguments.
func (c *TriggerCmd) inputs() ([]harvest.Input, error) {
	if c.Input != "" {
		data, err := os.ReadFile(c.Input)
		if err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "cannot read input file: %v", err)
		}
		var inputs []harvest.Input
		if err := json.Unmarshal(data, &inputs); err != nil {
			return nil, harvest.Errorf(harvest.EINVALID, "input file must be a JSON array of objects: %v", err)
		}
		return inputs, nil
	}

	if len(c.URLs) == 0 {
		return nil, harvest.Errorf(harvest.EINVALID, "provide input URLs or an --input file")
	}

	inputs := make([]harvest.Input, len(c.URLs))
	for i, u := range c.URLs {
		inputs[i] = harvest.Input{"url": u}
	}
	return inputs, nil
}

// waitJob blocks until the job reaches a terminal state and keeps the
// journal entry, when one exists, in sync with the outcome.
func waitJob(deps *Dependencies, h *scrape.Handle) (harvest.PollResult, error) {
	fmt.Fprintf(deps.Stdout, "Waiting for job %s...\n", h.ID())
	res := h.Wait(deps.Ctx)

	if deps.Journal != nil && h.State().Terminal() {
		// A resumed job may predate the journal; missing entries are fine.
		_ = deps.Journal.UpdateJobState(deps.Ctx, h.ID(), h.State())
	}

	if res.Ready() {
		return res, nil
	}

	err := res.Err
	if err == nil {
		err = harvest.Errorf(harvest.EUNAVAILABLE, "job %s is %s", h.ID(), res.Status)
	}
	fmt.Fprintf(deps.Stderr, "error: job %s %s: %s\n", h.ID(), res.Status, harvest.ErrorMessage(err))
	return res, err
}
