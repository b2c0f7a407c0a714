// Package parser turns the ordered text lines an OCR pass produces from a
// receipt photo into structured purchased line items with corrected amounts.
// It handles three layout families: self-contained lines ("Bánh mì 20.000đ"),
// spaced tabular rows where an item-code line is followed several lines later
// by its price, and a specific tabular dialect with a trailing price-summary
// section that needs multi-pass reconciliation.
//
// Extraction never fails: garbled input degrades to fewer items and a trace
// of which rule rejected what. One Engine is safe for concurrent use; every
// Parse call owns all of its state.
package parser

import (
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/classify"
)

// Item is one purchased line item extracted from a receipt.
type Item struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	RawLine     string          `json:"rawLine"`
	LineIndex   int             `json:"lineIndex"`
	// Readonly marks tax/fee entries: they count toward the total but the
	// review screen must not let the user edit or delete them.
	Readonly bool `json:"readonly"`
}

// Result is the outcome of parsing one receipt.
type Result struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
	// TableLayout reports whether the dedicated tabular-dialect parser
	// handled the receipt.
	TableLayout bool    `json:"tableLayout"`
	Lines       int     `json:"lines"`
	Trace       []Event `json:"trace,omitempty"`
}

// SortedByAmount returns a copy of the items ordered largest amount first.
// Items itself stays in receipt encounter order.
func (r *Result) SortedByAmount() []Item {
	out := make([]Item, len(r.Items))
	copy(out, r.Items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// Options tunes the engine's scan windows and thresholds. Start from
// DefaultOptions; the zero value has no usable windows.
type Options struct {
	PriceWindow             int   // lines scanned past an item-code line for its price
	DiscountWindow          int   // lines scanned past a chosen price for a trailing discount
	FirstItemPriceWindow    int   // tabular: price probe after the first item row
	FirstItemDiscountWindow int   // tabular: discount probe after that price
	SummaryLookahead        int   // tabular summary: paired-discount lookahead
	SummaryMinAmount        int64 // below this a summary number is not an item price
	GrandTotalCeiling       int64 // above this a summary number is the grand total
	BarcodeDigits           int   // a digit run at least this long is a barcode
	MinDescriptionRunes     int   // shorter descriptions are rejected
	Vocabulary              classify.Vocabulary
}

// DefaultOptions returns the tuning that matches the receipt corpora the
// engine was calibrated on.
func DefaultOptions() Options {
	return Options{
		PriceWindow:             20,
		DiscountWindow:          5,
		FirstItemPriceWindow:    10,
		FirstItemDiscountWindow: 10,
		SummaryLookahead:        2,
		SummaryMinAmount:        1000,
		GrandTotalCeiling:       500000,
		BarcodeDigits:           9,
		MinDescriptionRunes:     3,
		Vocabulary:              classify.Default(),
	}
}

// Engine extracts line items from OCR text. Build once, share freely.
type Engine struct {
	opts       Options
	classifier *classify.Classifier
}

// New creates an engine with the given options.
func New(opts Options) *Engine {
	return &Engine{
		opts:       opts,
		classifier: classify.New(opts.Vocabulary),
	}
}

// Parse converts one receipt's OCR lines into items. If the tabular-dialect
// signature is present, the dedicated multi-pass parser owns the whole
// sequence; otherwise every line is tried against the spaced tabular shape
// first and the single-line shape as fallback.
func (e *Engine) Parse(lines []string) *Result {
	trace := &Trace{}
	asm := newAssembler()

	if headerIdx, ok := e.detectTableLayout(lines); ok {
		trace.add(headerIdx, StageDetect, RuleTableDetected, lines[headerIdx])
		e.parseTableLayout(lines, asm, trace)
		return asm.finish(len(lines), true, trace)
	}

	consumed := make(map[int]bool)
	for i := range lines {
		if consumed[i] {
			continue
		}
		if item, ok := e.matchMultiLine(lines, i, consumed, trace); ok {
			asm.add(item, trace)
			continue
		}
		if item, ok := e.parseSingleLine(lines[i], i, trace); ok {
			asm.add(item, trace)
		}
	}
	return asm.finish(len(lines), false, trace)
}

// validDescription rejects fragments too short or too empty to be a product
// name.
func validDescription(s string, minRunes int) bool {
	return utf8.RuneCountInString(s) >= minRunes && hasLetter(s)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
