// Package classify sorts OCR receipt lines into content, noise, and
// total/subtotal classes before any amount extraction is attempted, and owns
// the keyword vocabularies shared by the line parsers (section boundaries,
// tabular column headers, tax/fee labels).
//
// Keyword lookup runs an Aho-Corasick pass over a diacritic-folded rendering
// of the line, then verifies word boundaries so "cash" never fires inside
// "cashew". High-value keywords additionally tolerate a single OCR
// substitution ("tong c0ng") via Levenshtein distance.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Class is the verdict for one line.
type Class int

const (
	// Content lines are candidates for item extraction.
	Content Class = iota
	// Noise lines are store metadata, codes, headers, footers.
	Noise
	// Total lines are subtotal/total/payment lines.
	Total
)

func (c Class) String() string {
	switch c {
	case Noise:
		return "noise"
	case Total:
		return "total"
	default:
		return "content"
	}
}

// markRemover drops combining diacritical marks after NFD decomposition.
var markRemover = runes.Remove(runes.In(unicode.Mn))

// đ/Đ carry a stroke, not a combining mark, so NFD leaves them alone.
var dongFold = strings.NewReplacer("đ", "d", "Đ", "D")

// Fold lowercases s and strips Vietnamese diacritics so keyword matching is
// accent-insensitive: "Tổng Cộng" → "tong cong". The transform chain is
// built per call; a chain holds internal buffers and must not be shared
// across goroutines.
func Fold(s string) string {
	out, _, err := transform.String(transform.Chain(norm.NFD, markRemover, norm.NFC), s)
	if err != nil {
		out = s
	}
	return strings.ToLower(dongFold.Replace(out))
}

// Date/time stamps are metadata regardless of vocabulary.
var (
	dateShape = regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`)
	timeShape = regexp.MustCompile(`\b\d{1,2}:\d{2}(?::\d{2})?\b`)
)

// Classifier is built once from a Vocabulary and is immutable and safe for
// concurrent use afterwards.
type Classifier struct {
	noise    *keywordSet
	total    *keywordSet
	summary  *keywordSet
	tax      *keywordSet
	fee      *keywordSet
	codeHdr  *keywordSet
	priceHdr *keywordSet
	boundary *keywordSet

	// Folded keywords long enough for distance-1 fuzzy matching.
	fuzzyTotal   []string
	fuzzySummary []string
}

// New builds a classifier from the given vocabulary.
func New(vocab Vocabulary) *Classifier {
	// Section boundaries: anything that ends an item block (totals, tax
	// lines, or the summary-section header).
	boundary := make([]string, 0, len(vocab.Total)+len(vocab.Tax)+len(vocab.SummaryHeaders))
	boundary = append(boundary, vocab.Total...)
	boundary = append(boundary, vocab.Tax...)
	boundary = append(boundary, vocab.SummaryHeaders...)

	c := &Classifier{
		noise:    newKeywordSet(vocab.Noise),
		total:    newKeywordSet(vocab.Total),
		summary:  newKeywordSet(vocab.SummaryHeaders),
		tax:      newKeywordSet(vocab.Tax),
		fee:      newKeywordSet(vocab.Fee),
		codeHdr:  newKeywordSet(vocab.CodeHeaders),
		priceHdr: newKeywordSet(vocab.PriceHeaders),
		boundary: newKeywordSet(boundary),
	}
	c.fuzzyTotal = fuzzyEligible(c.total.keywords)
	c.fuzzySummary = fuzzyEligible(c.summary.keywords)
	return c
}

// Classify sorts one raw line. Heuristics run before vocabulary: very short
// lines and lines without a single letter (bare numbers, barcodes,
// punctuation runs) are noise no matter what they contain.
func (c *Classifier) Classify(line string) Class {
	trimmed := strings.TrimSpace(line)
	if utf8.RuneCountInString(trimmed) < 3 {
		return Noise
	}
	if !hasLetter(trimmed) {
		return Noise
	}

	folded := Fold(trimmed)
	if _, ok := c.total.match(folded); ok {
		return Total
	}
	if fuzzyContainsAny(folded, c.fuzzyTotal) {
		return Total
	}
	if _, ok := c.noise.match(folded); ok {
		return Noise
	}
	if dateShape.MatchString(trimmed) || timeShape.MatchString(trimmed) {
		return Noise
	}
	return Content
}

// IsSectionBoundary reports whether the line carries a keyword that ends an
// item block: total/subtotal, tax, or the summary-section header.
func (c *Classifier) IsSectionBoundary(line string) bool {
	_, ok := c.boundary.match(Fold(line))
	return ok
}

// IsSummaryHeader reports whether the line opens the trailing price-summary
// section of the tabular layout.
func (c *Classifier) IsSummaryHeader(line string) bool {
	folded := Fold(line)
	if _, ok := c.summary.match(folded); ok {
		return true
	}
	return fuzzyContainsAny(folded, c.fuzzySummary)
}

// IsColumnHeader reports whether the line looks like the tabular layout's
// column-header row: a product-code header together with a price or quantity
// header.
func (c *Classifier) IsColumnHeader(line string) bool {
	folded := Fold(line)
	if _, ok := c.codeHdr.match(folded); !ok {
		return false
	}
	_, ok := c.priceHdr.match(folded)
	return ok
}

// HasTaxKeyword reports whether the line mentions tax/VAT.
func (c *Classifier) HasTaxKeyword(line string) bool {
	_, ok := c.tax.match(Fold(line))
	return ok
}

// HasFeeKeyword reports whether the line mentions a fee or surcharge.
func (c *Classifier) HasFeeKeyword(line string) bool {
	_, ok := c.fee.match(Fold(line))
	return ok
}

// keywordSet is a folded keyword list behind an Aho-Corasick matcher. The
// matcher reports which patterns occur anywhere in the text; match re-checks
// each hit at word boundaries.
type keywordSet struct {
	matcher  *ahocorasick.Matcher
	keywords []string // folded, same order as the matcher's patterns
}

func newKeywordSet(words []string) *keywordSet {
	folded := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		f := Fold(strings.TrimSpace(w))
		if f == "" {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		folded = append(folded, f)
	}

	set := &keywordSet{keywords: folded}
	if len(folded) > 0 {
		bytePatterns := make([][]byte, len(folded))
		for i, p := range folded {
			bytePatterns[i] = []byte(p)
		}
		set.matcher = ahocorasick.NewMatcher(bytePatterns)
	}
	return set
}

// match returns the first keyword present in folded as a whole word.
func (s *keywordSet) match(folded string) (string, bool) {
	if s.matcher == nil || len(s.keywords) == 0 {
		return "", false
	}
	for _, idx := range s.matcher.Match([]byte(folded)) {
		if idx < 0 || idx >= len(s.keywords) {
			continue
		}
		if containsWord(folded, s.keywords[idx]) {
			return s.keywords[idx], true
		}
	}
	return "", false
}

// containsWord reports whether kw occurs in s bounded by non-alphanumerics.
// Boundary checks apply only on sides where the keyword edge is alphanumeric,
// so ".com" still matches inside "shop.com".
func containsWord(s, kw string) bool {
	first, _ := utf8.DecodeRuneInString(kw)
	last, _ := utf8.DecodeLastRuneInString(kw)
	for from := 0; from <= len(s)-len(kw); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(kw)
		okBefore := !isWordRune(first) || boundaryBefore(s, start)
		okAfter := !isWordRune(last) || boundaryAfter(s, end)
		if okBefore && okAfter {
			return true
		}
		from = start + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// fuzzyEligible keeps keywords long enough that a single-substitution match
// is still distinctive.
func fuzzyEligible(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if utf8.RuneCountInString(k) >= 8 {
			out = append(out, k)
		}
	}
	return out
}

// fuzzyContainsAny reports whether any keyword occurs in folded within
// Levenshtein distance 1, anchored on the keyword's first rune. The anchor
// keeps "long tien" from matching "tong tien": OCR mangles mid-word glyphs
// far more often than leading ones.
func fuzzyContainsAny(folded string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	rs := []rune(folded)
	for _, kw := range keywords {
		kr := []rune(kw)
		for start := 0; start <= len(rs)-len(kr)+1; start++ {
			if start >= len(rs) || rs[start] != kr[0] {
				continue
			}
			for _, w := range [3]int{len(kr) - 1, len(kr), len(kr) + 1} {
				if w < 1 || start+w > len(rs) {
					continue
				}
				if fuzzy.LevenshteinDistance(string(rs[start:start+w]), kw) <= 1 {
					return true
				}
			}
		}
	}
	return false
}
