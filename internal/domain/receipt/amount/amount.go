// Package amount recognizes Vietnamese đồng amounts inside OCR receipt lines.
// OCR output is messy: thousands separators flip between '.' and ',', the "đ"
// marker degrades to a plain "d", and stray spaces land inside digit groups
// ("226, 500"). Matching runs through a fixed cascade of patterns from most
// explicit (separator plus currency marker) to least (a bare digit run).
package amount

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Format identifies which cascade pattern produced a candidate.
// The declaration order is the matching priority.
type Format int

const (
	DotDong      Format = iota // "20.000đ"
	CommaDong                  // "226,500đ"
	BareDong                   // "5000đ"
	DotVND                     // "20.000 VND"
	CommaVND                   // "226,500 vnd"
	BareVND                    // "5000 VND"
	CommaGrouped               // "226,500", also "226, 500"
	DotGrouped                 // "226.500", also "226. 500"
	DigitRun                   // "35000", ≥5 digits, last resort
)

// Thousands reports whether the format writes the amount with grouped
// thousands separators.
func (f Format) Thousands() bool {
	switch f {
	case BareDong, BareVND, DigitRun:
		return false
	}
	return true
}

// Candidate is one amount extracted from a line. Transient: it exists only
// while a parser disambiguates between candidates.
type Candidate struct {
	Value     decimal.Decimal // Signed; never zero
	LineIndex int             // Position of the source line in the scanned block
	Format    Format
	Raw       string // Exact matched substring, marker included
	Start     int    // Byte offsets of the match within the line
	End       int
}

// Thousands reports whether the candidate was written with thousands separators.
func (c Candidate) Thousands() bool {
	return c.Format.Thousands()
}

// Negative reports whether a sign applied to the candidate.
func (c Candidate) Negative() bool {
	return c.Value.IsNegative()
}

// DigitCount returns how many digits the raw match contains. Runs of nine or
// more read as EAN/UPC barcodes, never prices.
func (c Candidate) DigitCount() int {
	n := 0
	for _, r := range c.Raw {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// weightShape matches one to two digits, a single separator group of exactly
// three digits, and nothing else: the shape a scale prints for kilograms.
var weightShape = regexp.MustCompile(`^\d{1,2}[.,]\s?\d{3}$`)

var weightCeiling = decimal.NewFromInt(10000)

// WeightLike reports whether the match is shaped like a scale weight
// ("1.282" kg) rather than a price: a single separator group under 10,000
// with no currency marker. A marker ("1.282đ") or a second group
// ("1.282.000") reads as a price.
func (c Candidate) WeightLike() bool {
	if c.Format != DotGrouped && c.Format != CommaGrouped {
		return false
	}
	if !weightShape.MatchString(c.Raw) {
		return false
	}
	return c.Value.Abs().LessThan(weightCeiling)
}

// The cascade. Each pattern wraps the amount (digits plus marker) in group 1;
// the leading guard keeps a match from starting mid-run ("1234.567" must not
// yield "234.567"). Markers: đ/₫ with OCR fallback to a standalone "d", and
// the VND/VNĐ suffix family.
var cascade = []struct {
	format Format
	re     *regexp.Regexp
}{
	{DotDong, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:\.\s?\d{3})+\s*(?:[đĐ₫]|[dD]\b))`)},
	{CommaDong, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:,\s?\d{3})+\s*(?:[đĐ₫]|[dD]\b))`)},
	{BareDong, regexp.MustCompile(`(?:^|[^0-9])(\d+\s*(?:[đĐ₫]|[dD]\b))`)},
	{DotVND, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:\.\s?\d{3})+\s*(?i:vn[dđ]))`)},
	{CommaVND, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:,\s?\d{3})+\s*(?i:vn[dđ]))`)},
	{BareVND, regexp.MustCompile(`(?:^|[^0-9])(\d+\s*(?i:vn[dđ]))`)},
	{CommaGrouped, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:,\s?\d{3})+)(?:[^0-9]|$)`)},
	{DotGrouped, regexp.MustCompile(`(?:^|[^0-9])(\d{1,3}(?:\.\s?\d{3})+)(?:[^0-9]|$)`)},
	{DigitRun, regexp.MustCompile(`(?:^|[^0-9])(\d{5,})`)},
}

// Find returns the best amount in a line: the first cascade pattern that
// yields a non-zero value wins. lineIndex is carried into the candidate for
// proximity ranking by callers. Pure function; returns false when no pattern
// matches.
func Find(line string, lineIndex int) (Candidate, bool) {
	for _, p := range cascade {
		loc := p.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		start, end := loc[2], loc[3]
		value, err := decimal.NewFromString(digitsOnly(line[start:end]))
		if err != nil || value.IsZero() {
			continue
		}
		if signBefore(line, start) {
			value = value.Neg()
		}
		return Candidate{
			Value:     value,
			LineIndex: lineIndex,
			Format:    p.format,
			Raw:       line[start:end],
			Start:     start,
			End:       end,
		}, true
	}
	return Candidate{}, false
}

// digitsOnly strips separators, whitespace, and markers before numeric parsing.
func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// signBefore reports whether a '-' earlier in the line reads as a sign on the
// match. A hyphen flanked by letters ("COCA-COLA") is part of a word, not a
// sign; anything else ("-57,000", "Giảm giá - 57,000") negates.
func signBefore(line string, start int) bool {
	prev := rune(0)
	for i, r := range line {
		if i >= start {
			break
		}
		if r == '-' {
			next, _ := utf8.DecodeRuneInString(line[i+1:])
			if !unicode.IsLetter(prev) || !unicode.IsLetter(next) {
				return true
			}
		}
		prev = r
	}
	return false
}
