package parser

import "github.com/shopspring/decimal"

// assembler accumulates items in encounter order and enforces the raw-line
// dedupe rule. One assembler per Parse call.
type assembler struct {
	items []Item
	seen  map[string]bool
}

func newAssembler() *assembler {
	return &assembler{seen: make(map[string]bool)}
}

// add keeps the first item derived from a given raw line and drops the rest.
func (a *assembler) add(item Item, trace *Trace) {
	if a.seen[item.RawLine] {
		trace.add(item.LineIndex, StageAssemble, RuleDuplicateRawLine, item.RawLine)
		return
	}
	a.seen[item.RawLine] = true
	a.items = append(a.items, item)
}

// finish seals the result. The total covers every item, read-only tax
// entries included.
func (a *assembler) finish(lines int, tableLayout bool, trace *Trace) *Result {
	total := decimal.Zero
	for _, item := range a.items {
		total = total.Add(item.Amount)
	}
	return &Result{
		Items:       a.items,
		Total:       total,
		TableLayout: tableLayout,
		Lines:       lines,
		Trace:       trace.Events(),
	}
}
