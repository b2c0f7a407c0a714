package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_ParseSingleLine(t *testing.T) {
	e := New(DefaultOptions())

	tests := []struct {
		name       string
		line       string
		wantDesc   string
		wantAmount string
	}{
		{"description then amount", "Bánh mì 20.000đ", "Bánh mì", "20000"},
		{"bare comma amount", "Trà sữa trân châu 45,000", "Trà sữa trân châu", "45000"},
		{"quantity prefix stripped", "2 x Ca phe sua da 58.000d", "Ca phe sua da", "58000"},
		{"amount before description", "35.000 XUC XICH NUONG", "XUC XICH NUONG", "35000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := &Trace{}
			item, ok := e.parseSingleLine(tt.line, 3, trace)
			require.True(t, ok)
			assert.Equal(t, tt.wantDesc, item.Description)
			assert.Equal(t, tt.wantAmount, item.Amount.String())
			assert.Equal(t, tt.line, item.RawLine)
			assert.Equal(t, 3, item.LineIndex)
			assert.False(t, item.Readonly)
		})
	}
}

func TestEngine_ParseSingleLine_Rejections(t *testing.T) {
	e := New(DefaultOptions())

	tests := []struct {
		name     string
		line     string
		wantRule string
	}{
		{"noise line", "Tel: 0909123456", RuleNoiseSkipped},
		{"total line", "Tổng cộng: 693,200đ", RuleTotalSkipped},
		{"barcode next to a label", "SKU 8934868166894", RuleBarcodeSkipped},
		{"lone discount", "Giam gia -30.000đ", RuleNegativeSkipped},
		{"description too short", "AB 12,000", RuleShortDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trace := &Trace{}
			_, ok := e.parseSingleLine(tt.line, 0, trace)
			assert.False(t, ok)
			require.Len(t, trace.Events(), 1)
			assert.Equal(t, tt.wantRule, trace.Events()[0].Rule)
			assert.Equal(t, StageSingleLine, trace.Events()[0].Stage)
		})
	}

	t.Run("no amount, no trace", func(t *testing.T) {
		trace := &Trace{}
		_, ok := e.parseSingleLine("BANH BAO NONG HOI", 0, trace)
		assert.False(t, ok)
		assert.Empty(t, trace.Events())
	})
}
