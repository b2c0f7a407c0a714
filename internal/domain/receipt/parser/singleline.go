package parser

import (
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/amount"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/classify"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/normalize"
)

// parseSingleLine extracts an item from one self-contained line: description
// and amount side by side, "Bánh mì 20.000đ". The classifier gates the line
// first; the description is whatever remains once the amount substring is
// stripped and normalized.
func (e *Engine) parseSingleLine(line string, index int, trace *Trace) (Item, bool) {
	switch e.classifier.Classify(line) {
	case classify.Noise:
		trace.add(index, StageSingleLine, RuleNoiseSkipped, line)
		return Item{}, false
	case classify.Total:
		trace.add(index, StageSingleLine, RuleTotalSkipped, line)
		return Item{}, false
	}

	cand, ok := amount.Find(line, index)
	if !ok {
		return Item{}, false
	}
	if cand.DigitCount() >= e.opts.BarcodeDigits {
		trace.add(index, StageSingleLine, RuleBarcodeSkipped, cand.Raw)
		return Item{}, false
	}
	if cand.Negative() {
		// A lone discount line is never an item of its own.
		trace.add(index, StageSingleLine, RuleNegativeSkipped, cand.Raw)
		return Item{}, false
	}

	desc := normalize.Description(line[:cand.Start] + line[cand.End:])
	if !validDescription(desc, e.opts.MinDescriptionRunes) {
		trace.add(index, StageSingleLine, RuleShortDescription, desc)
		return Item{}, false
	}

	return Item{
		Description: desc,
		Amount:      cand.Value,
		RawLine:     line,
		LineIndex:   index,
	}, true
}
