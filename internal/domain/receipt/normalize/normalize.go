// Package normalize cleans raw OCR fragments into presentable item
// descriptions. After a parser strips the amount substring from a line, what
// remains still carries quantity prefixes ("2 x", "01"), orphaned currency
// tokens, reference numbers, and ragged whitespace. Case is preserved:
// Vietnamese receipts print product names in capitals and those names must
// survive verbatim.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// Leading quantity/count prefixes: "2 x ", "2X ", "x2 ", "01 ".
	quantityTimes = regexp.MustCompile(`^\d{1,3}\s*[xX*]\s+`)
	timesQuantity = regexp.MustCompile(`^[xX]\s?\d{1,3}\s+`)
	bareCount     = regexp.MustCompile(`^\d{1,3}\s+`)

	// Currency tokens orphaned by amount removal, with any separator junk
	// around them: "đ", "₫", "VND", a standalone OCR "d".
	trailingCurrency = regexp.MustCompile(`(?i)[\s.:,=-]*(?:vnd|vnđ|[đ₫]|\bd)[\s.:,=-]*$`)

	// Terminal/reference numbers: four or more trailing digits are a
	// register artifact, not part of a product name.
	trailingRef = regexp.MustCompile(`\s+\d{4,}$`)

	leadingJunk  = regexp.MustCompile(`^[\s.:,=-]+`)
	trailingJunk = regexp.MustCompile(`[\s.:,=-]+$`)
)

// Description cleans a raw fragment into an item description. It never
// invents text: output is always a substring selection of the input with
// collapsed whitespace.
func Description(raw string) string {
	s := collapse(raw)

	// Quantity prefixes can stack ("2 x 01 BANH MI"); peel until stable.
	for {
		next := quantityTimes.ReplaceAllString(s, "")
		next = timesQuantity.ReplaceAllString(next, "")
		next = bareCount.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}

	s = trailingCurrency.ReplaceAllString(s, "")
	s = trailingRef.ReplaceAllString(s, "")
	s = leadingJunk.ReplaceAllString(s, "")
	s = trailingJunk.ReplaceAllString(s, "")

	return collapse(s)
}

// collapse squeezes runs of whitespace into single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
