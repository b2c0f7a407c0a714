package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/amount"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/classify"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/normalize"
)

// itemCode matches a tabular item row: exactly three digits, a separator,
// then the product name. "226,500" does not match; a comma is not a
// separator here, which keeps price lines from looking like item rows.
var itemCode = regexp.MustCompile(`^(\d{3})[\s.:-]+(.+)$`)

// matchItemCode tests a line for the item-code shape. The name must be long
// enough, contain a letter, and pass the classifier, so "123.456" or
// "001 08/12/2025" never start an item.
func (e *Engine) matchItemCode(line string) (code, name string, ok bool) {
	m := itemCode.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	code, name = m[1], strings.TrimSpace(m[2])
	if code == "000" {
		// Codes run 001–999.
		return "", "", false
	}
	if utf8.RuneCountInString(name) < e.opts.MinDescriptionRunes || !hasLetter(name) {
		return "", "", false
	}
	if e.classifier.Classify(name) != classify.Content {
		return "", "", false
	}
	return code, name, true
}

// matchMultiLine tries the spaced tabular shape at lines[start]: an item-code
// line whose price arrives on a later line, with barcodes, weights, and
// quantity rows in between. On success every line from the item row through
// the chosen price row is marked consumed so the outer scan skips it.
func (e *Engine) matchMultiLine(lines []string, start int, consumed map[int]bool, trace *Trace) (Item, bool) {
	_, name, ok := e.matchItemCode(lines[start])
	if !ok {
		return Item{}, false
	}

	candidates := e.collectPriceCandidates(lines, start, consumed, trace)
	price, ok := pickPrice(candidates)
	if !ok {
		trace.add(start, StageMultiLine, RuleNoPrice, lines[start])
		return Item{}, false
	}

	final := price.Value
	discountLine := -1
	window := price.LineIndex + e.opts.DiscountWindow
	for i := price.LineIndex + 1; i < len(lines) && i <= window; i++ {
		if consumed[i] {
			continue
		}
		if _, _, next := e.matchItemCode(lines[i]); next {
			break
		}
		cand, found := amount.Find(lines[i], i)
		if !found || !cand.Negative() {
			continue
		}
		discount := cand.Value.Abs()
		if discount.GreaterThan(price.Value) {
			// A discount bigger than the price belongs to something else.
			trace.add(i, StageMultiLine, RuleDiscountTooLarge, cand.Raw)
			continue
		}
		final = price.Value.Sub(discount)
		discountLine = i
		break
	}

	for i := start; i <= price.LineIndex; i++ {
		consumed[i] = true
	}
	if discountLine >= 0 {
		consumed[discountLine] = true
	}

	return Item{
		Description: normalize.Description(name),
		Amount:      final,
		RawLine:     lines[start],
		LineIndex:   start,
	}, true
}

// collectPriceCandidates scans the window after an item-code line, applying
// the exclusion rules in order: the scan stops cold at a section-boundary
// keyword or the next item row; negatives, barcode runs, and weight shapes
// never become price candidates.
func (e *Engine) collectPriceCandidates(lines []string, start int, consumed map[int]bool, trace *Trace) []amount.Candidate {
	var candidates []amount.Candidate
	window := start + e.opts.PriceWindow
	for i := start + 1; i < len(lines) && i <= window; i++ {
		if consumed[i] {
			continue
		}
		line := lines[i]
		if _, _, next := e.matchItemCode(line); next {
			break
		}
		if e.classifier.IsSectionBoundary(line) {
			trace.add(i, StageMultiLine, RuleBoundaryReached, line)
			break
		}

		cand, found := amount.Find(line, i)
		if !found {
			continue
		}
		if cand.Negative() {
			// Discounts are handled after a price is chosen.
			continue
		}
		if cand.DigitCount() >= e.opts.BarcodeDigits {
			trace.add(i, StageMultiLine, RuleBarcodeSkipped, cand.Raw)
			continue
		}
		if cand.WeightLike() {
			trace.add(i, StageMultiLine, RuleWeightSkipped, cand.Raw)
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

// pickPrice chooses the winning candidate: thousands-formatted amounts beat
// bare digit runs, and within a tier the one nearest the item line wins.
// Nearest, not largest, so a distant grand total is never grabbed.
func pickPrice(candidates []amount.Candidate) (amount.Candidate, bool) {
	var best amount.Candidate
	found := false
	for _, c := range candidates {
		if !found {
			best, found = c, true
			continue
		}
		if c.Thousands() != best.Thousands() {
			if c.Thousands() {
				best = c
			}
			continue
		}
		if c.LineIndex < best.LineIndex {
			best = c
		}
	}
	return best, found
}
