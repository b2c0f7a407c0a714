package eval

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/parser"
	"github.com/quoc48/expense-tracker-sub005/pkg/money"
)

// Mismatch records one position where extraction and annotation disagree.
// Either side can be empty when one list is shorter than the other.
type Mismatch struct {
	Index    int    `json:"index"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
}

// ReceiptReport scores one sample.
type ReceiptReport struct {
	Name       string     `json:"name"`
	Expected   int        `json:"expected"`
	Actual     int        `json:"actual"`
	Matched    int        `json:"matched"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Perfect reports whether every expected item was extracted, in order, with
// nothing extra.
func (r ReceiptReport) Perfect() bool {
	return r.Expected == r.Actual && r.Matched == r.Expected
}

// Report aggregates corpus accuracy.
type Report struct {
	Receipts        []ReceiptReport `json:"receipts"`
	TotalExpected   int             `json:"totalExpected"`
	TotalMatched    int             `json:"totalMatched"`
	PerfectReceipts int             `json:"perfectReceipts"`
}

// ItemAccuracy is the fraction of annotated items the engine reproduced.
func (r *Report) ItemAccuracy() float64 {
	if r.TotalExpected == 0 {
		return 1
	}
	return float64(r.TotalMatched) / float64(r.TotalExpected)
}

// ReceiptAccuracy is the fraction of receipts extracted perfectly.
func (r *Report) ReceiptAccuracy() float64 {
	if len(r.Receipts) == 0 {
		return 1
	}
	return float64(r.PerfectReceipts) / float64(len(r.Receipts))
}

// String renders the per-receipt breakdown and the aggregate scores.
func (r *Report) String() string {
	var b strings.Builder
	for _, rr := range r.Receipts {
		fmt.Fprintf(&b, "%-28s %d/%d items\n", rr.Name, rr.Matched, rr.Expected)
		for _, m := range rr.Mismatches {
			switch {
			case m.Actual == "":
				fmt.Fprintf(&b, "  item %d: missing, expected %s\n", m.Index, m.Expected)
			case m.Expected == "":
				fmt.Fprintf(&b, "  item %d: unexpected %s\n", m.Index, m.Actual)
			default:
				fmt.Fprintf(&b, "  item %d: expected %s, got %s\n", m.Index, m.Expected, m.Actual)
			}
		}
	}
	fmt.Fprintf(&b, "item accuracy:    %.1f%% (%d/%d)\n",
		r.ItemAccuracy()*100, r.TotalMatched, r.TotalExpected)
	fmt.Fprintf(&b, "receipt accuracy: %.1f%% (%d/%d)\n",
		r.ReceiptAccuracy()*100, r.PerfectReceipts, len(r.Receipts))
	return b.String()
}

// Runner replays annotated receipts through one extraction engine.
type Runner struct {
	engine *parser.Engine
	logger *slog.Logger
}

// NewRunner creates a runner around an engine built from opts.
func NewRunner(opts parser.Options, logger *slog.Logger) *Runner {
	return &Runner{
		engine: parser.New(opts),
		logger: logger,
	}
}

// EvaluateDir loads the corpus under dir and scores it.
func (r *Runner) EvaluateDir(dir string) (*Report, error) {
	samples, err := LoadCorpus(dir)
	if err != nil {
		return nil, err
	}
	return r.Evaluate(samples), nil
}

// Evaluate scores each sample and aggregates the result.
func (r *Runner) Evaluate(samples []Sample) *Report {
	report := &Report{Receipts: make([]ReceiptReport, 0, len(samples))}

	for _, s := range samples {
		res := r.engine.Parse(s.Lines)
		rr := score(s, res.Items)

		report.Receipts = append(report.Receipts, rr)
		report.TotalExpected += rr.Expected
		report.TotalMatched += rr.Matched
		if rr.Perfect() {
			report.PerfectReceipts++
		}

		r.logger.Debug("receipt evaluated",
			"name", s.Name,
			"expected", rr.Expected,
			"actual", rr.Actual,
			"matched", rr.Matched,
		)
	}

	r.logger.Info("corpus evaluated",
		"receipts", len(samples),
		"itemAccuracy", report.ItemAccuracy(),
		"receiptAccuracy", report.ReceiptAccuracy(),
	)
	return report
}

// score compares extracted items against the annotation positionally. Order
// matters: the review screen shows items in receipt order, so a swap is two
// mismatches, not a pass.
func score(s Sample, items []parser.Item) ReceiptReport {
	rr := ReceiptReport{
		Name:     s.Name,
		Expected: len(s.Expected),
		Actual:   len(items),
	}

	n := len(s.Expected)
	if len(items) > n {
		n = len(items)
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(items):
			rr.Mismatches = append(rr.Mismatches, Mismatch{
				Index:    i,
				Expected: renderExpected(s.Expected[i]),
			})
		case i >= len(s.Expected):
			rr.Mismatches = append(rr.Mismatches, Mismatch{
				Index:  i,
				Actual: renderItem(items[i]),
			})
		case matches(s.Expected[i], items[i]):
			rr.Matched++
		default:
			rr.Mismatches = append(rr.Mismatches, Mismatch{
				Index:    i,
				Expected: renderExpected(s.Expected[i]),
				Actual:   renderItem(items[i]),
			})
		}
	}
	return rr
}

func matches(want ExpectedItem, got parser.Item) bool {
	return want.Description == got.Description &&
		want.Amount.Equal(got.Amount) &&
		want.Readonly == got.Readonly
}

func renderExpected(it ExpectedItem) string {
	return render(it.Description, money.NewFromDecimal(it.Amount).FormatVND(), it.Readonly)
}

func renderItem(it parser.Item) string {
	return render(it.Description, money.NewFromDecimal(it.Amount).FormatVND(), it.Readonly)
}

func render(desc, amount string, readonly bool) string {
	if readonly {
		return fmt.Sprintf("%s %s (readonly)", desc, amount)
	}
	return fmt.Sprintf("%s %s", desc, amount)
}
