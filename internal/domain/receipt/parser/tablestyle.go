package parser

import (
	"github.com/shopspring/decimal"

	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/amount"
	"github.com/quoc48/expense-tracker-sub005/internal/domain/receipt/normalize"
)

// The tabular dialect: item-code rows up top, then a trailing summary section
// listing final prices and one or two VAT rows. Prices are reconciled to
// items positionally (the layout prints the last item's price first), so
// parsing runs in four passes over explicit intermediate records instead of
// a single scan.

// tableItem is the Pass 1 record handed to Pass 3. Never mutated after
// creation.
type tableItem struct {
	lineIndex int
	code      string
	name      string
	// sectionPrice is set only on the first discovered item, when a
	// price+discount pair sits right after its row.
	sectionPrice *decimal.Decimal
}

// summaryPrice is one net price discovered in the summary section.
type summaryPrice struct {
	value     decimal.Decimal
	lineIndex int
}

// detectTableLayout reports the first line carrying the dialect's
// column-header signature.
func (e *Engine) detectTableLayout(lines []string) (int, bool) {
	for i, line := range lines {
		if e.classifier.IsColumnHeader(line) {
			return i, true
		}
	}
	return -1, false
}

// parseTableLayout owns the whole line sequence once the signature is found.
// The consumed set is threaded through the passes; it is local to this call.
func (e *Engine) parseTableLayout(lines []string, asm *assembler, trace *Trace) {
	consumed := make(map[int]bool)
	items := e.discoverTableItems(lines, consumed, trace)
	prices, taxes := e.collectSummary(lines, consumed, trace)
	e.assignSummaryPrices(items, prices, lines, asm, trace)
	e.appendTaxItems(taxes, lines, asm, trace)
}

// discoverTableItems is Pass 1: every item-code row becomes a record. Only
// the first item is probed for an inline price+discount pair right after its
// row; all other items are priced from the summary section in Pass 3.
func (e *Engine) discoverTableItems(lines []string, consumed map[int]bool, trace *Trace) []tableItem {
	var items []tableItem
	for i := range lines {
		code, name, ok := e.matchItemCode(lines[i])
		if !ok {
			continue
		}
		item := tableItem{lineIndex: i, code: code, name: name}
		if len(items) == 0 {
			if price, ok := e.firstItemInlinePrice(lines, i, consumed, trace); ok {
				item.sectionPrice = &price
			}
		}
		items = append(items, item)
	}
	return items
}

// firstItemInlinePrice probes the rows after the first item for a price
// followed by a discount. Both halves must appear for the pair to count; a
// price alone is left for the summary section to resolve. On success the
// spanned rows are consumed so Pass 2 does not re-read them.
func (e *Engine) firstItemInlinePrice(lines []string, itemLine int, consumed map[int]bool, trace *Trace) (decimal.Decimal, bool) {
	priceWindow := itemLine + e.opts.FirstItemPriceWindow
	for i := itemLine + 1; i < len(lines) && i <= priceWindow; i++ {
		if _, _, next := e.matchItemCode(lines[i]); next {
			return decimal.Decimal{}, false
		}
		cand, found := amount.Find(lines[i], i)
		if !found || cand.Negative() {
			continue
		}
		if cand.DigitCount() >= e.opts.BarcodeDigits {
			trace.add(i, StageTableItems, RuleBarcodeSkipped, cand.Raw)
			continue
		}
		if cand.WeightLike() {
			trace.add(i, StageTableItems, RuleWeightSkipped, cand.Raw)
			continue
		}

		discountWindow := i + e.opts.FirstItemDiscountWindow
		for j := i + 1; j < len(lines) && j <= discountWindow; j++ {
			if _, _, next := e.matchItemCode(lines[j]); next {
				break
			}
			disc, dfound := amount.Find(lines[j], j)
			if !dfound || !disc.Negative() {
				continue
			}
			discount := disc.Value.Abs()
			if discount.GreaterThan(cand.Value) {
				trace.add(j, StageTableItems, RuleDiscountTooLarge, disc.Raw)
				continue
			}
			for k := itemLine; k <= i; k++ {
				consumed[k] = true
			}
			consumed[j] = true
			return cand.Value.Sub(discount), true
		}
		// A price with no trailing discount is not an inline pair.
		return decimal.Decimal{}, false
	}
	return decimal.Decimal{}, false
}

// collectSummary is Pass 2: locate the summary section (opened by a
// discount-summary header, closed by the first unpaired negative after it)
// and read out the prices it lists. Identical rounded values are recorded
// once, anything above the grand-total ceiling is discarded, and the
// smallest one or two amounts at the tail come back as the dialect's VAT
// rows.
func (e *Engine) collectSummary(lines []string, consumed map[int]bool, trace *Trace) (prices, taxes []summaryPrice) {
	headerIdx := -1
	for i, line := range lines {
		if e.classifier.IsSummaryHeader(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	minAmount := decimal.NewFromInt(e.opts.SummaryMinAmount)
	ceiling := decimal.NewFromInt(e.opts.GrandTotalCeiling)

	for i := headerIdx + 1; i < len(lines); i++ {
		if consumed[i] {
			continue
		}
		cand, found := amount.Find(lines[i], i)
		if !found {
			continue
		}
		if cand.Negative() {
			trace.add(i, StageTableSummary, RuleSummaryClosed, cand.Raw)
			break
		}
		if cand.DigitCount() >= e.opts.BarcodeDigits {
			trace.add(i, StageTableSummary, RuleBarcodeSkipped, cand.Raw)
			continue
		}
		if cand.Value.LessThan(minAmount) {
			continue
		}

		value := cand.Value
		lookahead := i + e.opts.SummaryLookahead
		for j := i + 1; j < len(lines) && j <= lookahead; j++ {
			if consumed[j] {
				continue
			}
			disc, dfound := amount.Find(lines[j], j)
			if !dfound {
				continue
			}
			if !disc.Negative() {
				if disc.Value.GreaterThanOrEqual(minAmount) {
					// The next price starts here; a discount beyond it
					// belongs to that price, not this one.
					break
				}
				continue
			}
			discount := disc.Value.Abs()
			if discount.GreaterThan(value) {
				trace.add(j, StageTableSummary, RuleDiscountTooLarge, disc.Raw)
				break
			}
			value = value.Sub(discount)
			consumed[j] = true
			break
		}
		consumed[i] = true

		if value.GreaterThan(ceiling) {
			trace.add(i, StageTableSummary, RuleGrandTotal, value.String())
			continue
		}
		key := value.Round(0).String()
		if seen[key] {
			trace.add(i, StageTableSummary, RuleDuplicateAmount, key)
			continue
		}
		seen[key] = true
		prices = append(prices, summaryPrice{value: value, lineIndex: i})
	}

	return splitTailTaxes(prices)
}

// splitTailTaxes reclassifies the trailing VAT rows: an entry in the last two
// positions is tax when it is smaller than every earlier price. With two or
// fewer entries there is nothing to compare against and nothing moves.
func splitTailTaxes(prices []summaryPrice) ([]summaryPrice, []summaryPrice) {
	if len(prices) <= 2 {
		return prices, nil
	}
	tailStart := len(prices) - 2

	minHead := prices[0].value
	for _, p := range prices[1:tailStart] {
		if p.value.LessThan(minHead) {
			minHead = p.value
		}
	}

	cut := len(prices)
	for i := len(prices) - 1; i >= tailStart; i-- {
		if !prices[i].value.LessThan(minHead) {
			break
		}
		cut = i
	}
	return prices[:cut], prices[cut:]
}

// assignSummaryPrices is Pass 3: positional reconciliation. The dialect
// prints the last item's price first in the summary; remaining items consume
// the remaining prices in discovered order, shifted by one to skip the slot
// the last item took. An item with no price left is dropped with a trace,
// never an error.
func (e *Engine) assignSummaryPrices(items []tableItem, prices []summaryPrice, lines []string, asm *assembler, trace *Trace) {
	if len(items) == 0 {
		for _, p := range prices {
			trace.add(p.lineIndex, StageTableAssign, RuleUnclaimedPrice, p.value.String())
		}
		return
	}

	next := 0
	take := func() (summaryPrice, bool) {
		if next >= len(prices) {
			return summaryPrice{}, false
		}
		p := prices[next]
		next++
		return p, true
	}

	emit := func(it tableItem, value decimal.Decimal) {
		asm.add(Item{
			Description: normalize.Description(it.name),
			Amount:      value,
			RawLine:     lines[it.lineIndex],
			LineIndex:   it.lineIndex,
		}, trace)
	}

	last := len(items) - 1
	var lastPrice summaryPrice
	lastPriced := false
	if items[last].sectionPrice == nil {
		lastPrice, lastPriced = take()
	}

	for _, it := range items[:last] {
		if it.sectionPrice != nil {
			emit(it, *it.sectionPrice)
			continue
		}
		p, ok := take()
		if !ok {
			trace.add(it.lineIndex, StageTableAssign, RuleUnmatchedItem, it.name)
			continue
		}
		emit(it, p.value)
	}

	switch {
	case items[last].sectionPrice != nil:
		emit(items[last], *items[last].sectionPrice)
	case lastPriced:
		emit(items[last], lastPrice.value)
	default:
		trace.add(items[last].lineIndex, StageTableAssign, RuleUnmatchedItem, items[last].name)
	}

	for ; next < len(prices); next++ {
		trace.add(prices[next].lineIndex, StageTableAssign, RuleUnclaimedPrice, prices[next].value.String())
	}
}

// appendTaxItems is Pass 4: every tax amount becomes a read-only item. The
// description is the source line minus the amount; when that leaves nothing
// readable, a generic label is chosen by keyword.
func (e *Engine) appendTaxItems(taxes []summaryPrice, lines []string, asm *assembler, trace *Trace) {
	for _, t := range taxes {
		line := lines[t.lineIndex]

		desc := ""
		if cand, ok := amount.Find(line, t.lineIndex); ok {
			desc = normalize.Description(line[:cand.Start] + line[cand.End:])
		}
		if desc == "" || !hasLetter(desc) {
			if e.classifier.HasFeeKeyword(line) && !e.classifier.HasTaxKeyword(line) {
				desc = "Fee"
			} else {
				desc = "VAT"
			}
		}

		asm.add(Item{
			Description: desc,
			Amount:      t.value,
			RawLine:     line,
			LineIndex:   t.lineIndex,
			Readonly:    true,
		}, trace)
		trace.add(t.lineIndex, StageTableTax, RuleTaxAppended, desc)
	}
}
