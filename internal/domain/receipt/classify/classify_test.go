package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Tổng Cộng", "tong cong"},
		{"GIẢM GIÁ", "giam gia"},
		{"Đơn Giá", "don gia"},
		{"ĐVT", "dvt"},
		{"Tiền thừa", "tien thua"},
		{"already plain", "already plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in))
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := New(Default())

	tests := []struct {
		name string
		line string
		want Class
	}{
		{"product with price", "Bánh mì 20.000đ", Content},
		{"plain product name", "XV COMFORT DIEU KY TUI 3.1L", Content},
		{"keyword inside a longer word", "Hat cashew rang muoi 45,000", Content},
		{"near-miss of a total keyword", "long tien", Content},

		{"too short", "AB", Noise},
		{"no letters", "226,500", Noise},
		{"barcode", "8934868166894", Noise},
		{"phone line", "Tel: 0909123456", Noise},
		{"address line", "Dia chi: 123 Le Loi, Q.1", Noise},
		{"tax code line", "MST: 0312345678", Noise},
		{"date stamp", "Ngay 08/12/2025", Noise},
		{"time stamp", "In luc 14:35:22", Noise},
		{"cashier line", "Thu ngan: NGUYEN THI A", Noise},
		{"thank-you footer", "Cam on quy khach!", Noise},
		{"column header", "Ten hang", Noise},

		{"total with diacritics", "Tổng cộng: 693,200đ", Total},
		{"total without diacritics", "TONG CONG 169,500", Total},
		{"subtotal", "Tam tinh: 500,000", Total},
		{"change line", "Tien thua: 6,800", Total},
		{"payment method", "The VISA ****1234", Total},
		{"english total", "TOTAL 95,000", Total},
		{"whole-word cash", "Cash 200,000", Total},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.line), "line %q", tt.line)
		})
	}
}

// OCR swaps single glyphs ("o" → "0"); high-value keywords must still hit.
func TestClassifier_FuzzyKeywords(t *testing.T) {
	c := New(Default())

	assert.Equal(t, Total, c.Classify("Tong c0ng: 693,200"))
	assert.Equal(t, Total, c.Classify("THANH T0AN 250,000"))
	assert.True(t, c.IsSummaryHeader("KHUYEN MA1"))

	// One substitution is the limit.
	assert.Equal(t, Content, c.Classify("t0ng c00ng 693,200"))
}

func TestClassifier_IsSectionBoundary(t *testing.T) {
	c := New(Default())

	assert.True(t, c.IsSectionBoundary("Tong cong: 169,500"))
	assert.True(t, c.IsSectionBoundary("Thue GTGT 8%"))
	assert.True(t, c.IsSectionBoundary("KHUYEN MAI / GIAM GIA"))
	assert.False(t, c.IsSectionBoundary("001 GAO ST25 TUI 5KG"))
	assert.False(t, c.IsSectionBoundary("226,500"))
}

func TestClassifier_IsColumnHeader(t *testing.T) {
	c := New(Default())

	assert.True(t, c.IsColumnHeader("Ma hang Ten hang SL T.Tien"))
	assert.True(t, c.IsColumnHeader("MA HANG | DON GIA | THANH TIEN"))
	// One half of the signature is not enough.
	assert.False(t, c.IsColumnHeader("Ten hang SL Thanh tien"))
	assert.False(t, c.IsColumnHeader("Ma hang"))
	assert.False(t, c.IsColumnHeader("Bánh mì 20.000đ"))
}

func TestClassifier_TaxAndFeeKeywords(t *testing.T) {
	c := New(Default())

	assert.True(t, c.HasTaxKeyword("Thue GTGT 5%: 5,591"))
	assert.True(t, c.HasTaxKeyword("VAT 8%"))
	assert.False(t, c.HasTaxKeyword("BANH MI SANDWICH"))

	assert.True(t, c.HasFeeKeyword("Phu thu le tet: 10,000"))
	assert.True(t, c.HasFeeKeyword("Service charge 5%"))
	assert.False(t, c.HasFeeKeyword("NUOC SUOI LAVIE"))
}

func TestVocabulary_Merge(t *testing.T) {
	base := Default()
	merged := base.Merge(Vocabulary{Noise: []string{"custom metadata"}})

	assert.Equal(t, []string{"custom metadata"}, merged.Noise)
	assert.Equal(t, base.Total, merged.Total)
	assert.Equal(t, base.SummaryHeaders, merged.SummaryHeaders)

	// An empty overlay changes nothing.
	same := base.Merge(Vocabulary{})
	assert.Equal(t, base, same)
}

// A vocabulary with an empty set must not panic on lookup.
func TestClassifier_EmptyVocabulary(t *testing.T) {
	c := New(Vocabulary{})

	assert.Equal(t, Content, c.Classify("Bánh mì 20.000đ"))
	assert.False(t, c.IsSummaryHeader("GIAM GIA"))
	assert.False(t, c.IsColumnHeader("Ma hang SL"))
}

func BenchmarkClassify(b *testing.B) {
	c := New(Default())
	lines := []string{
		"Bánh mì 20.000đ",
		"Tổng cộng: 693,200đ",
		"001 XV COMFORT DIEU KY TUI 3.1L",
		"Tel: 028.3832.5239",
		"KHUYEN MAI / GIAM GIA",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, line := range lines {
			c.Classify(line)
		}
	}
}
