package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlaceholders(t *testing.T) {
	out := RenderPlaceholders("Dear {{tenant_name}}, pay {{currency}} {{rent_amount}} {{bogus}}by {{due_date}}.", map[string]string{
		"tenant_name": "Ahmed",
		"currency":    "MVR",
		"rent_amount": "15000.00",
		"due_date":    "2025-01-08",
	})
	assert.Equal(t, "Dear Ahmed, pay MVR 15000.00 by 2025-01-08.", out)

	assert.Equal(t, "{{ spaced }}", RenderPlaceholders("{{ spaced }}", nil), "only word characters are placeholders")
}

func TestRenderHTMLPlaceholders(t *testing.T) {
	vars := map[string]string{
		"tenant_name": `<img src="http://169.254.169.254/latest/meta-data/">`,
		"unit_number": `3A & 3B`,
	}

	out := RenderHTMLPlaceholders("<p>{{tenant_name}}, unit {{unit_number}}</p>", vars)

	assert.Equal(t, `<p>&lt;img src=&#34;http://169.254.169.254/latest/meta-data/&#34;&gt;, unit 3A &amp; 3B</p>`, out)
	assert.NotContains(t, out, "<img")
	assert.Equal(t, `<img src="http://169.254.169.254/latest/meta-data/">`, RenderPlaceholders("{{tenant_name}}", vars),
		"plain text keeps the raw value")
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(15000), "15,000.00"},
		{decimal.RequireFromString("1234567.891"), "1,234,567.89"},
		{decimal.RequireFromString("999.5"), "999.50"},
		{decimal.Zero, "0.00"},
		{decimal.RequireFromString("-2500.75"), "-2,500.75"},
		{decimal.RequireFromString("-0.25"), "-0.25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), tt.in.String())
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Placeholders("{{a}} {{b}} {{a}}"))
	assert.Empty(t, Placeholders("no variables"))
}

func TestInvoiceContext_Vars(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	due := time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC)
	vars := InvoiceContext{
		TenantName: "Ahmed Ibrahim",
		RentAmount: decimal.NewFromInt(15000),
		DueDate:    &due,
	}.Vars(now)

	assert.Equal(t, "15,000.00", vars["rent_amount"])
	assert.Equal(t, "MVR", vars["currency"])
	assert.Equal(t, "2025-01-08", vars["due_date"])
	assert.Equal(t, "", vars["invoice_date"])
	assert.Equal(t, "2025-01-15", vars["current_date"])
	assert.Equal(t, "January 2025", vars["current_month"])

	for _, v := range AvailableVariables() {
		_, ok := vars[v.Name]
		assert.True(t, ok, v.Name)
	}
}

func TestInvoiceTemplate(t *testing.T) {
	tpl, err := NewInvoiceTemplate(uuid.New(), "Classic", TemplateTypeRent, "<p>{{tenant_name}}</p>")
	require.NoError(t, err)
	assert.True(t, tpl.IsActive)
	assert.True(t, TemplateTypeBoth.Covers(TemplateTypeRent))
	assert.False(t, TemplateTypeRent.Covers(TemplateTypeMaintenance))

	tpl.MarkDefault()
	assert.Error(t, tpl.SetActive(false))

	assert.Equal(t, "<p>x</p>", tpl.Document("<p>x</p>"))
	tpl.Styles = "p{color:red}"
	doc := tpl.Document("<p>x</p>")
	assert.Contains(t, doc, "<style>p{color:red}</style>")
	assert.Contains(t, doc, "<body><p>x</p></body>")

	_, err = NewInvoiceTemplate(uuid.New(), "X", "receipt", "<p/>")
	assert.ErrorIs(t, err, ErrInvalidTemplateType)
}
