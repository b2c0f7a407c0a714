package parser

// Event is one structured trace record: which rule fired on which line and
// what it saw. The trace exists for offline debugging of extraction misses;
// it is never surfaced to the end user and a parse never escalates an event
// into an error.
type Event struct {
	LineIndex int    `json:"lineIndex"`
	Stage     string `json:"stage"`
	Rule      string `json:"rule"`
	Detail    string `json:"detail,omitempty"`
}

// Stage names group events by the component that recorded them.
const (
	StageDetect       = "detect"
	StageSingleLine   = "single-line"
	StageMultiLine    = "multi-line"
	StageTableItems   = "table-items"
	StageTableSummary = "table-summary"
	StageTableAssign  = "table-assign"
	StageTableTax     = "table-tax"
	StageAssemble     = "assemble"
)

// Rule names, phrased for a human reading a trace dump.
const (
	RuleTableDetected    = "column header matched"
	RuleNoiseSkipped     = "noise line skipped"
	RuleTotalSkipped     = "total line skipped"
	RuleBarcodeSkipped   = "barcode-sized number skipped"
	RuleWeightSkipped    = "weight pattern skipped"
	RuleNegativeSkipped  = "negative amount skipped"
	RuleBoundaryReached  = "section boundary reached"
	RuleNoPrice          = "no price candidate in window"
	RuleShortDescription = "description too short"
	RuleDiscountTooLarge = "discount exceeds price"
	RuleSummaryClosed    = "summary section closed"
	RuleGrandTotal       = "grand total discarded"
	RuleDuplicateAmount  = "duplicate amount skipped"
	RuleUnmatchedItem    = "item dropped: no price matched"
	RuleUnclaimedPrice   = "summary price unclaimed"
	RuleTaxAppended      = "tax entry appended"
	RuleDuplicateRawLine = "duplicate raw line dropped"
)

// Trace accumulates events during one parse invocation. It is owned by that
// invocation and never shared.
type Trace struct {
	events []Event
}

func (t *Trace) add(lineIndex int, stage, rule, detail string) {
	t.events = append(t.events, Event{
		LineIndex: lineIndex,
		Stage:     stage,
		Rule:      rule,
		Detail:    detail,
	})
}

// Events returns the recorded events in order.
func (t *Trace) Events() []Event {
	return t.events
}
