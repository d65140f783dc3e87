package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"3tcapital/atolonline/pkg/atol"
	"3tcapital/atolonline/pkg/fiscal"
)

type submitFunc func(ctx context.Context, doc *fiscal.Document) (string, error)

func (f submitFunc) Submit(ctx context.Context, doc *fiscal.Document) (string, error) {
	return f(ctx, doc)
}

func newJobs(t *testing.T, n int) []Job {
	t.Helper()

	jobs := make([]Job, n)
	for i := range jobs {
		doc := fiscal.NewSell()
		if err := doc.SetExternalID(fmt.Sprintf("ext-%d", i)); err != nil {
			t.Fatalf("set external id: %v", err)
		}
		jobs[i] = Job{Index: i, Name: fmt.Sprintf("doc-%d.yaml", i), Document: doc}
	}
	return jobs
}

func TestWorkerPoolPreservesInputOrder(t *testing.T) {
	submitter := submitFunc(func(_ context.Context, doc *fiscal.Document) (string, error) {
		var n int
		fmt.Sscanf(doc.ExternalID(), "ext-%d", &n)
		time.Sleep(time.Duration(10-n%10) * time.Millisecond)
		return "uuid-" + doc.ExternalID(), nil
	})

	pool := NewWorkerPool(submitter, 4, nil, nil)
	results := pool.Run(context.Background(), newJobs(t, 25))

	if len(results) != 25 {
		t.Fatalf("expected 25 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d: expected index %d, got %d", i, i, r.Index)
		}
		if r.Failed() {
			t.Errorf("result %d: unexpected error %v", i, r.Err)
		}
		if expected := fmt.Sprintf("uuid-ext-%d", i); r.UUID != expected {
			t.Errorf("result %d: expected uuid %q, got %q", i, expected, r.UUID)
		}
		if expected := fmt.Sprintf("doc-%d.yaml", i); r.Name != expected {
			t.Errorf("result %d: expected name %q, got %q", i, expected, r.Name)
		}
	}
}

func TestWorkerPoolLimitsConcurrency(t *testing.T) {
	var active, peak atomic.Int32
	submitter := submitFunc(func(context.Context, *fiscal.Document) (string, error) {
		n := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return "uuid", nil
	})

	NewWorkerPool(submitter, 3, nil, nil).Run(context.Background(), newJobs(t, 20))

	if got := peak.Load(); got > 3 {
		t.Errorf("expected at most 3 concurrent submissions, got %d", got)
	}
}

func TestWorkerPoolKeepsErrorsPerDocument(t *testing.T) {
	rejected := &atol.RemoteError{Operation: "sell", ErrorID: "33", Text: "duplicate"}
	submitter := submitFunc(func(_ context.Context, doc *fiscal.Document) (string, error) {
		if doc.ExternalID() == "ext-1" {
			return "", rejected
		}
		return "ok", nil
	})

	results := NewWorkerPool(submitter, 2, NewCircuitBreaker(1, time.Minute), nil).Run(context.Background(), newJobs(t, 3))

	if !errors.Is(results[1].Err, atol.ErrRemoteRejection) {
		t.Errorf("expected remote rejection for document 1, got %v", results[1].Err)
	}
	if results[0].Failed() || results[2].Failed() {
		t.Errorf("expected other documents to succeed, got %v and %v", results[0].Err, results[2].Err)
	}
}

func TestWorkerPoolStopsOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var started sync.Once
	release := make(chan struct{})
	submitter := submitFunc(func(ctx context.Context, _ *fiscal.Document) (string, error) {
		started.Do(func() { close(release) })
		<-ctx.Done()
		return "", &atol.TransportError{Operation: "sell", Err: ctx.Err()}
	})

	go func() {
		<-release
		cancel()
	}()

	done := make(chan []Result)
	go func() {
		done <- NewWorkerPool(submitter, 1, nil, nil).Run(ctx, newJobs(t, 10))
	}()

	select {
	case results := <-done:
		if len(results) != 10 {
			t.Fatalf("expected 10 results, got %d", len(results))
		}
		for i, r := range results {
			if !errors.Is(r.Err, context.Canceled) {
				t.Errorf("result %d: expected context.Canceled, got %v", i, r.Err)
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("worker pool did not stop after cancellation")
	}
}

func TestWorkerPoolBreakerFailsFast(t *testing.T) {
	var calls atomic.Int32
	submitter := submitFunc(func(context.Context, *fiscal.Document) (string, error) {
		calls.Add(1)
		return "", &atol.TransportError{Operation: "sell", Err: errors.New("connection refused")}
	})

	breaker := NewCircuitBreaker(3, time.Hour)
	results := NewWorkerPool(submitter, 1, breaker, nil).Run(context.Background(), newJobs(t, 8))

	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls before the breaker opened, got %d", got)
	}
	for i, r := range results {
		want := atol.ErrTransportFailure
		if i >= 3 {
			want = ErrCircuitOpen
		}
		if !errors.Is(r.Err, want) {
			t.Errorf("result %d: expected %v, got %v", i, want, r.Err)
		}
	}
	if breaker.State() != BreakerOpen {
		t.Errorf("expected breaker open, got %s", breaker.State())
	}
}

func TestWorkerPoolEmptyBatch(t *testing.T) {
	results := NewWorkerPool(submitFunc(nil), 4, nil, nil).Run(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
