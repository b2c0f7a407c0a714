package classify

// Vocabulary holds the keyword sets the classifier matches against. Entries
// are compared diacritic-folded and lowercased, so "Tổng Cộng", "tong cong"
// and "TỔNG CỘNG" are the same keyword. Sets can be replaced wholesale from
// configuration for store formats the defaults do not cover.
type Vocabulary struct {
	// Noise marks store metadata: contact lines, invoice numbers, cashier
	// and branch info, column headers, thank-you footers.
	Noise []string `yaml:"noise"`
	// Total marks subtotal/total/payment lines that must never become items.
	Total []string `yaml:"total"`
	// SummaryHeaders open the trailing price-summary section of the tabular
	// receipt layout.
	SummaryHeaders []string `yaml:"summary_headers"`
	// Tax and Fee pick the fallback label for read-only entries.
	Tax []string `yaml:"tax"`
	Fee []string `yaml:"fee"`
	// CodeHeaders and PriceHeaders together form the tabular layout
	// signature: a product-code column header on the same line as a
	// price or quantity header.
	CodeHeaders  []string `yaml:"code_headers"`
	PriceHeaders []string `yaml:"price_headers"`
}

// Default returns the built-in vocabulary for Vietnamese point-of-sale
// receipts with English fallbacks.
func Default() Vocabulary {
	return Vocabulary{
		Noise: []string{
			// Store metadata and contact info
			"địa chỉ", "điện thoại", "hotline", "mã số thuế", "mst", "chi nhánh",
			"siêu thị", "cửa hàng", "công ty", "tel", "fax", "email",
			"website", "www", "http", ".com", ".vn",
			// Transaction metadata
			"hóa đơn", "số hđ", "số gd", "thu ngân", "nhân viên", "in lúc",
			"ngày in", "quầy thu", "stt", "cashier", "invoice", "receipt no",
			"order no", "pos", "terminal",
			// Footers
			"cảm ơn", "hẹn gặp lại", "quý khách", "tích điểm", "điểm thưởng",
			"thank you", "wifi",
			// Column headers are metadata too
			"mặt hàng", "tên hàng", "mã hàng", "đơn giá", "số lượng", "đvt",
		},
		Total: []string{
			"tổng cộng", "tổng tiền", "tổng thanh toán", "tổng số tiền",
			"thành tiền", "tạm tính", "thanh toán", "tiền khách đưa",
			"tiền khách trả", "tiền thừa", "tiền thối", "tiền mặt",
			"total", "subtotal", "sub total", "grand total", "amount due",
			"balance due", "amount paid", "change", "cash",
			// Payment-method lines belong to the total block
			"credit card", "visa", "mastercard", "momo", "zalopay", "vnpay",
		},
		SummaryHeaders: []string{
			"giảm giá", "chiết khấu", "khuyến mãi", "giảm trừ",
			"discount", "promotion",
		},
		Tax: []string{
			"thuế", "vat", "gtgt", "tax",
		},
		Fee: []string{
			"phí", "phụ thu", "fee", "service charge",
		},
		CodeHeaders: []string{
			"mã hàng", "mã sp", "mã sản phẩm", "mã vạch",
			"item code", "product code", "sku", "barcode",
		},
		PriceHeaders: []string{
			"đơn giá", "thành tiền", "t.tiền", "số lượng", "sl", "đvt",
			"qty", "quantity", "price", "unit price", "amount",
		},
	}
}

// Merge overlays o onto v: any non-empty set in o replaces the corresponding
// set in v. Used by configuration to swap individual keyword sets without
// restating the whole vocabulary.
func (v Vocabulary) Merge(o Vocabulary) Vocabulary {
	if len(o.Noise) > 0 {
		v.Noise = o.Noise
	}
	if len(o.Total) > 0 {
		v.Total = o.Total
	}
	if len(o.SummaryHeaders) > 0 {
		v.SummaryHeaders = o.SummaryHeaders
	}
	if len(o.Tax) > 0 {
		v.Tax = o.Tax
	}
	if len(o.Fee) > 0 {
		v.Fee = o.Fee
	}
	if len(o.CodeHeaders) > 0 {
		v.CodeHeaders = o.CodeHeaders
	}
	if len(o.PriceHeaders) > 0 {
		v.PriceHeaders = o.PriceHeaders
	}
	return v
}
