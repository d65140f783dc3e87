package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"3tcapital/atolonline/internal/application/submission"
	"3tcapital/atolonline/internal/core/audit"
	"3tcapital/atolonline/internal/docfile"
)

// submit registers every file given and prints one line per file in the
// order given: "index<TAB>file<TAB>uuid" or "index<TAB>file<TAB>error: ...".
func (a *app) submit(ctx context.Context, files []string, stdout io.Writer) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: submit needs at least one file", errUsage)
	}

	results := make([]submission.Result, len(files))
	jobs := make([]submission.Job, 0, len(files))
	for i, file := range files {
		results[i] = submission.Result{Index: i, Name: file}

		doc, err := docfile.Load(file)
		if err != nil {
			if docfile.IsModelError(err) {
				a.log.Warn("Document description rejected", "file", file, "error", err)
			} else {
				a.log.Error("Document file unreadable", "file", file, "error", err)
			}
			results[i].Err = err
			continue
		}
		jobs = append(jobs, submission.Job{Index: i, Name: file, Document: doc})
	}

	if len(jobs) > 0 {
		client, err := a.client(ctx)
		if err != nil {
			return err
		}

		breaker := submission.NewCircuitBreaker(a.cfg.Batch.BreakerThreshold, a.cfg.Batch.BreakerCooldown)
		pool := submission.NewWorkerPool(client, a.cfg.Batch.Workers, breaker, a.log)
		for _, r := range pool.Run(ctx, jobs) {
			results[r.Index] = r
		}
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
			fmt.Fprintf(stdout, "%d\t%s\terror: %v\n", r.Index, r.Name, r.Err)
			continue
		}
		fmt.Fprintf(stdout, "%d\t%s\t%s\n", r.Index, r.Name, r.UUID)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// report prints the processing report of one document as JSON.
func (a *app) report(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: report needs exactly one uuid", errUsage)
	}

	client, err := a.client(ctx)
	if err != nil {
		return err
	}

	report, err := client.GetReport(ctx, args[0])
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprintln(stdout, string(data))

	if rerr := report.Error(); rerr != nil {
		return fmt.Errorf("document %s: %w", report.UUID, rerr)
	}
	return nil
}

// token acquires a token to check the configured credentials.
func (a *app) token(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: token takes no arguments", errUsage)
	}

	client, err := a.client(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Token(ctx); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "credentials accepted for group %s\n", client.GroupCode())
	return nil
}

// history prints the audited exchanges of one correlation id, newest first.
func (a *app) history(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	limit := fs.Uint64("limit", 50, "maximum number of exchanges")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: history needs exactly one correlation id", errUsage)
	}

	if a.auditRepo == nil {
		return errors.New("audit trail is disabled, set AUDIT_ENABLED=true")
	}

	exchanges, err := a.auditRepo.Find(ctx, audit.Filter{
		CorrelationID: fs.Arg(0),
		Limit:         *limit,
	})
	if err != nil {
		return fmt.Errorf("find exchanges: %w", err)
	}

	return writeHistory(stdout, exchanges)
}

func writeHistory(w io.Writer, exchanges []audit.Exchange) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOPERATION\tMETHOD\tSTATUS\tDURATION\tURL\tERROR")
	for _, e := range exchanges {
		status := "-"
		if e.ResponseStatus != nil {
			status = strconv.Itoa(*e.ResponseStatus)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.CreatedAt.Format(time.RFC3339),
			e.Operation,
			e.RequestMethod,
			status,
			time.Duration(e.DurationMs)*time.Millisecond,
			e.RequestURL,
			e.ErrorMessage,
		)
	}
	return tw.Flush()
}
