package eval

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/quoc48/expense-tracker-sub005/pkg/money"
)

// Generator produces synthetic OCR receipts with known annotations, in the
// three layouts the engine handles. With a fixed seed the output is fully
// deterministic, so generated samples double as regression fixtures and
// benchmark corpora. Amounts stay at or above 10.000 đồng so a marker-less
// price can never collide with the scale-weight shape.
type Generator struct {
	faker *gofakeit.Faker
	seq   int
}

// NewGenerator creates a generator with a specific seed for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

var products = []string{
	"GAO ST25 TUI 5KG", "DUONG BIEN HOA 1KG", "NUOC MAM NAM NGU 750ML",
	"MI HAO HAO THUNG 30", "DAU AN NEPTUNE 1L", "TRUNG GA HOP 10",
	"SUA TUOI VINAMILK 1L", "BANH MI SANDWICH", "CA PHE G7 HOP 18",
	"NUOC SUOI LAVIE 6X500ML", "GIAY VE SINH 10 CUON", "NUOC RUA CHEN SUNLIGHT",
	"KEM DANH RANG PS 230G", "COCA COLA LON 330ML", "SNACK OISHI TOM CAY",
	"XUC XICH DUC VIET", "BO CUON LA LOT", "CHA CA THANG LONG",
	"RAU MUONG BO", "THIT BA CHI 500G", "TOM SU 300G", "BANH TRANG TRON",
	"TRA XANH KHONG DO", "SUA CHUA VINAMILK LOC 4", "NUOC NGOT PEPSI 1.5L",
}

var storeNames = []string{
	"SIEU THI MINI XANH", "CUA HANG TIEN LOI 24H",
	"BACH HOA TONG HOP", "SIEU THI VINMART+",
}

var addresses = []string{
	"189C Cong Quynh Q1 TPHCM", "72B Nguyen Trai P3 Q5",
	"210D Hai Ba Trung Q3", "35A Xo Viet Nghe Tinh Binh Thanh",
}

// Receipt generates one receipt in a random layout.
func (g *Generator) Receipt() Sample {
	n := g.faker.Number(3, 10)
	switch g.faker.Number(0, 2) {
	case 0:
		return g.SingleLineReceipt(n)
	case 1:
		return g.SpacedTabularReceipt(n)
	default:
		return g.TableDialectReceipt(n)
	}
}

// Corpus generates count receipts across all layouts.
func (g *Generator) Corpus(count int) []Sample {
	samples := make([]Sample, 0, count)
	for i := 0; i < count; i++ {
		samples = append(samples, g.Receipt())
	}
	return samples
}

// SingleLineReceipt builds a receipt whose items each occupy one line, name
// first, amount last, in a mix of separator and marker styles.
func (g *Generator) SingleLineReceipt(n int) Sample {
	lines := g.storeHeader()
	names := g.pickProducts(n)
	expected := make([]ExpectedItem, 0, len(names))

	var total int64
	for _, name := range names {
		value := g.price()
		line := fmt.Sprintf("%s %s", name, g.formatPrice(value))
		if g.faker.Number(0, 3) == 0 {
			// Quantity prefix; the line still carries the line total.
			line = fmt.Sprintf("%d x %s", g.faker.Number(1, 3), line)
		}
		lines = append(lines, line)
		expected = append(expected, ExpectedItem{
			Description: name,
			Amount:      decimal.NewFromInt(value),
		})
		total += value
	}

	lines = append(lines,
		"Tong cong: "+money.New(total).FormatVND(),
		"Cam on quy khach",
	)
	return Sample{Name: g.name("single"), Lines: lines, Expected: expected}
}

// SpacedTabularReceipt builds a receipt of numbered item rows whose prices
// land on their own lines below, occasionally separated by a barcode line or
// followed by a negative discount line.
func (g *Generator) SpacedTabularReceipt(n int) Sample {
	lines := g.storeHeader()
	names := g.pickProducts(n)
	expected := make([]ExpectedItem, 0, len(names))

	var total int64
	for i, name := range names {
		lines = append(lines, fmt.Sprintf("%03d %s", i+1, name))
		if g.faker.Number(0, 4) == 0 {
			lines = append(lines, g.barcode())
		}

		value := g.price()
		lines = append(lines, g.formatStandalonePrice(value))

		net := value
		if g.faker.Number(0, 3) == 0 {
			discount := int64(g.faker.Number(2, 18)) * 500
			lines = append(lines, "-"+groupThousands(discount, '.'))
			net -= discount
		}

		expected = append(expected, ExpectedItem{
			Description: name,
			Amount:      decimal.NewFromInt(net),
		})
		total += net
	}

	lines = append(lines,
		"Tong cong: "+money.New(total).FormatVND(),
		"Cam on quy khach",
	)
	return Sample{Name: g.name("tabular"), Lines: lines, Expected: expected}
}

// TableDialectReceipt builds the tabular dialect: a column-header line, item
// rows without amounts, and a trailing summary where the last item's price
// is printed first and two VAT rows close the block.
func (g *Generator) TableDialectReceipt(n int) Sample {
	if n > len(products) {
		n = len(products)
	}
	if n < 1 {
		n = 1
	}

	lines := g.storeHeader()
	lines = append(lines, "Ma hang   Ten hang   SL   T.Tien")

	names := g.pickProducts(n)
	for i, name := range names {
		lines = append(lines, fmt.Sprintf("%03d %s", i+1, name))
		if g.faker.Number(0, 4) == 0 {
			lines = append(lines, g.barcode())
		}
	}

	// Distinct summary values; the dialect parser drops repeated amounts as
	// reprints, which would shift every assignment after them.
	gross := make([]int64, n)
	net := make([]int64, n)
	used := make(map[int64]bool, n)
	for j := range gross {
		v := g.price()
		for used[v] {
			v = g.price()
		}
		used[v] = true
		gross[j] = v
		net[j] = v
	}

	discSlot := -1
	var discount int64
	if n >= 2 && g.faker.Bool() {
		slot := g.faker.Number(0, n-1)
		d := int64(g.faker.Number(2, 10)) * 500
		if candidate := gross[slot] - d; candidate >= 10000 && !used[candidate] {
			discSlot = slot
			discount = d
			net[slot] = candidate
			used[candidate] = true
		}
	}

	lines = append(lines, "KHUYEN MAI / GIAM GIA")
	for j, v := range gross {
		lines = append(lines, g.formatStandalonePrice(v))
		if j == discSlot {
			lines = append(lines, "-"+groupThousands(discount, '.'))
		}
	}

	// Two VAT rows, strictly below every item price. Ending in 91 keeps them
	// off the 500-đồng grid the prices live on.
	tax1 := int64(g.faker.Number(2, 7))*500 + 91
	tax2 := tax1 + int64(g.faker.Number(1, 4))*500
	lines = append(lines,
		"Thue GTGT 5%: "+groupThousands(tax1, '.'),
		"Thue GTGT 8%: "+groupThousands(tax2, '.'),
	)

	var total int64
	for _, v := range net {
		total += v
	}
	total += tax1 + tax2
	if total > 500000 {
		lines = append(lines, "Tong cong: "+money.New(total).FormatVND())
	}
	lines = append(lines,
		"TIEN KHACH DUA: 1.000.000 ₫",
		"Cam on quy khach",
	)

	// The summary prints the last item's price first; everyone else shifts
	// down one slot.
	expected := make([]ExpectedItem, 0, n+2)
	for i, name := range names {
		slot := i + 1
		if i == n-1 {
			slot = 0
		}
		expected = append(expected, ExpectedItem{
			Description: name,
			Amount:      decimal.NewFromInt(net[slot]),
		})
	}
	expected = append(expected,
		ExpectedItem{Description: "Thue GTGT 5%", Amount: decimal.NewFromInt(tax1), Readonly: true},
		ExpectedItem{Description: "Thue GTGT 8%", Amount: decimal.NewFromInt(tax2), Readonly: true},
	)

	return Sample{Name: g.name("table"), Lines: lines, Expected: expected}
}

func (g *Generator) storeHeader() []string {
	return []string{
		g.pickOne(storeNames),
		"Dia chi: " + g.pickOne(addresses),
		fmt.Sprintf("Hotline: 1900 %04d", g.faker.Number(1000, 9999)),
	}
}

// price returns a realistic shelf price on the 500-đồng grid, high enough
// that no marker-less rendering is weight-shaped.
func (g *Generator) price() int64 {
	return int64(g.faker.Number(20, 999)) * 500
}

func (g *Generator) barcode() string {
	return fmt.Sprintf("89345%08d", g.faker.Number(0, 99999999))
}

// formatPrice renders a price embedded in a name-led line, in any of the
// styles receipts print.
func (g *Generator) formatPrice(value int64) string {
	switch g.faker.Number(0, 3) {
	case 0:
		return groupThousands(value, '.')
	case 1:
		return groupThousands(value, ',')
	case 2:
		return groupThousands(value, '.') + "đ"
	default:
		return groupThousands(value, ',') + " ₫"
	}
}

// formatStandalonePrice renders a price that sits alone on its line. The
// dot-plus-đ shape is avoided here: "125.000đ" reads as item code 125 with
// a name of "000đ", so standalone lines stick to shapes that cannot collide
// with item rows.
func (g *Generator) formatStandalonePrice(value int64) string {
	switch g.faker.Number(0, 3) {
	case 0:
		return groupThousands(value, '.')
	case 1:
		return groupThousands(value, ',')
	case 2:
		return groupThousands(value, ',') + "đ"
	default:
		return groupThousands(value, ',') + " ₫"
	}
}

func (g *Generator) pickProducts(n int) []string {
	pool := make([]string, len(products))
	copy(pool, products)
	for i := len(pool) - 1; i > 0; i-- {
		j := g.faker.Number(0, i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	if n > len(pool) {
		n = len(pool)
	}
	if n < 1 {
		n = 1
	}
	return pool[:n]
}

func (g *Generator) pickOne(list []string) string {
	return list[g.faker.Number(0, len(list)-1)]
}

func (g *Generator) name(layout string) string {
	g.seq++
	return fmt.Sprintf("synthetic-%s-%04d", layout, g.seq)
}

func groupThousands(n int64, sep byte) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}
	var out []byte
	lead := len(digits) % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
	}
	for i := lead; i < len(digits); i += 3 {
		if len(out) > 0 {
			out = append(out, sep)
		}
		out = append(out, digits[i:i+3]...)
	}
	return string(out)
}
