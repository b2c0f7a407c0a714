// Package service runs receipt extraction off the caller's goroutine and
// gives every scan an ID, a duration, and a structured log line. Parsing
// itself never fails; the only errors seen here are cancelled contexts.
package service

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/parser"
)

// ScanResult is one receipt's extraction outcome.
type ScanResult struct {
	ScanID      uuid.UUID       `json:"scanId"`
	Items       []parser.Item   `json:"items"`
	Total       decimal.Decimal `json:"total"`
	TableLayout bool            `json:"tableLayout"`
	Lines       int             `json:"lines"`
	Duration    time.Duration   `json:"duration"`
	Trace       []parser.Event  `json:"trace,omitempty"`
}

// ScanOutcome pairs a result with the error slot for asynchronous delivery.
type ScanOutcome struct {
	Result *ScanResult
	Err    error
}

// Service owns one parsing engine and fans work out over it. The engine is
// safe for concurrent use, so one Service serves any number of callers.
type Service struct {
	engine  *parser.Engine
	logger  *slog.Logger
	workers int
}

// New creates a scan service around an engine built from opts.
func New(opts parser.Options, logger *slog.Logger) *Service {
	return &Service{
		engine:  parser.New(opts),
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithWorkers overrides the batch worker count.
func (s *Service) WithWorkers(n int) *Service {
	if n > 0 {
		s.workers = n
	}
	return s
}

// Scan parses one receipt synchronously. The error is non-nil only when ctx
// is already done; an unreadable receipt comes back as zero items.
func (s *Service) Scan(ctx context.Context, lines []string) (*ScanResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := s.run(lines)
	s.logger.Info("receipt scanned",
		"scanID", out.ScanID,
		"lines", out.Lines,
		"items", len(out.Items),
		"total", out.Total.String(),
		"tableLayout", out.TableLayout,
		"duration", out.Duration,
	)
	if len(out.Items) == 0 && out.Lines > 0 {
		s.logger.Warn("no items extracted", "scanID", out.ScanID, "lines", out.Lines)
	}
	return out, nil
}

// ScanAsync dispatches one scan to a background goroutine and returns
// immediately. The channel is buffered, so the result never blocks on a
// reader that walked away.
func (s *Service) ScanAsync(ctx context.Context, lines []string) <-chan ScanOutcome {
	ch := make(chan ScanOutcome, 1)
	go func() {
		res, err := s.Scan(ctx, lines)
		ch <- ScanOutcome{Result: res, Err: err}
		close(ch)
	}()
	return ch
}

// ScanBatch parses many receipts over a worker pool, preserving input order
// in the result slice. Cancellation is honored between receipts, never
// mid-parse: a single parse is bounded and fast, so entries dispatched
// before cancellation still complete. Slots not dispatched stay nil and the
// context error is returned alongside the partial results.
func (s *Service) ScanBatch(ctx context.Context, receipts [][]string) ([]*ScanResult, error) {
	results := make([]*ScanResult, len(receipts))
	if len(receipts) == 0 {
		return results, ctx.Err()
	}

	workers := s.workers
	if workers > len(receipts) {
		workers = len(receipts)
	}

	start := time.Now()
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.run(receipts[i])
			}
		}()
	}

	var err error
dispatch:
	for i := range receipts {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	scanned, items := 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		scanned++
		items += len(r.Items)
	}
	s.logger.Info("receipt batch scanned",
		"receipts", len(receipts),
		"scanned", scanned,
		"items", items,
		"workers", workers,
		"duration", time.Since(start),
	)
	return results, err
}

// run executes one parse and wraps it in a ScanResult.
func (s *Service) run(lines []string) *ScanResult {
	start := time.Now()
	res := s.engine.Parse(lines)
	return &ScanResult{
		ScanID:      uuid.New(),
		Items:       res.Items,
		Total:       res.Total,
		TableLayout: res.TableLayout,
		Lines:       res.Lines,
		Duration:    time.Since(start),
		Trace:       res.Trace,
	}
}
