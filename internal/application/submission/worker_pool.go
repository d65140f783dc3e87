// Package submission registers batches of fiscal documents concurrently.
package submission

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"3tcapital/atolonline/pkg/fiscal"
)

// Submitter registers one document. *atol.Client satisfies it.
type Submitter interface {
	Submit(ctx context.Context, doc *fiscal.Document) (string, error)
}

// Job is one document to register. Name identifies it in logs, usually the
// file it was read from.
type Job struct {
	Index    int
	Name     string
	Document *fiscal.Document
}

// Result is the outcome of a Job.
type Result struct {
	Index    int
	Name     string
	UUID     string
	Err      error
	Duration time.Duration
}

// Failed reports whether the document was not registered.
func (r Result) Failed() bool {
	return r.Err != nil
}

// WorkerPool submits jobs with a fixed number of workers.
type WorkerPool struct {
	workerCount int
	submitter   Submitter
	breaker     *CircuitBreaker
	log         *slog.Logger
}

// NewWorkerPool creates a pool. A nil breaker disables fail-fast, a nil
// logger disables logging.
func NewWorkerPool(submitter Submitter, workerCount int, breaker *CircuitBreaker, log *slog.Logger) *WorkerPool {
	if workerCount <= 0 {
		workerCount = 1
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &WorkerPool{
		workerCount: workerCount,
		submitter:   submitter,
		breaker:     breaker,
		log:         log,
	}
}

// Run submits every job and returns one result per job in input order.
// After ctx is cancelled, jobs not yet started fail with the context error.
func (p *WorkerPool) Run(ctx context.Context, jobs []Job) []Result {
	startTime := time.Now()

	results := make([]Result, len(jobs))
	for i, job := range jobs {
		results[i] = Result{Index: job.Index, Name: job.Name}
	}

	queue := make(chan int, p.workerCount*2)
	var wg sync.WaitGroup
	for w := 0; w < min(p.workerCount, len(jobs)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				p.process(ctx, jobs[i], &results[i])
			}
		}()
	}

feed:
	for i := range jobs {
		select {
		case queue <- i:
		case <-ctx.Done():
			for j := i; j < len(jobs); j++ {
				results[j].Err = ctx.Err()
			}
			break feed
		}
	}
	close(queue)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	p.log.Info("Submission batch finished",
		"documents", len(jobs),
		"failed", failed,
		"workers", p.workerCount,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
	return results
}

func (p *WorkerPool) process(ctx context.Context, job Job, result *Result) {
	if err := ctx.Err(); err != nil {
		result.Err = err
		return
	}

	start := time.Now()
	submit := func() error {
		uuid, err := p.submitter.Submit(ctx, job.Document)
		result.UUID = uuid
		return err
	}

	var err error
	if p.breaker != nil {
		err = p.breaker.Execute(submit)
	} else {
		err = submit()
	}
	result.Err = err
	result.Duration = time.Since(start)

	switch {
	case err == nil:
		p.log.Debug("Document submitted", "index", job.Index, "name", job.Name, "uuid", result.UUID)
	case errors.Is(err, ErrCircuitOpen):
		p.log.Warn("Document skipped, circuit breaker open", "index", job.Index, "name", job.Name)
	default:
		p.log.Warn("Document submission failed", "index", job.Index, "name", job.Name, "error", err)
	}
}
