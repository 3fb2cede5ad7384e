package billing

import (
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// placeholderPattern matches {{name}} placeholders
var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Variable describes a placeholder available to invoice templates
type Variable struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var availableVariables = []Variable{
	{"tenant_name", "Full name of the tenant"},
	{"tenant_first_name", "First name of the tenant"},
	{"tenant_last_name", "Last name of the tenant"},
	{"tenant_phone", "Tenant phone number"},
	{"tenant_email", "Tenant email address"},
	{"property_name", "Name of the property"},
	{"property_address", "Full address of the property"},
	{"property_street", "Street of the property"},
	{"property_island", "Island of the property"},
	{"unit_number", "Unit number"},
	{"rent_amount", "Monthly rent with thousands separators and two decimals"},
	{"currency", "Rent currency"},
	{"due_date", "Invoice due date"},
	{"invoice_number", "Invoice number"},
	{"invoice_date", "Invoice date"},
	{"current_date", "Today's date (YYYY-MM-DD)"},
	{"current_month", "Current month and year"},
}

// AvailableVariables lists the placeholders templates may use
func AvailableVariables() []Variable {
	out := make([]Variable, len(availableVariables))
	copy(out, availableVariables)
	return out
}

// RenderPlaceholders substitutes {{name}} with vars[name] as plain text.
// Unknown names render as the empty string.
func RenderPlaceholders(content string, vars map[string]string) string {
	return renderPlaceholders(content, vars, func(v string) string { return v })
}

// RenderHTMLPlaceholders is RenderPlaceholders for HTML content. Values are
// HTML-escaped, so a tenant name cannot add markup to the rendered document.
func RenderHTMLPlaceholders(content string, vars map[string]string) string {
	return renderPlaceholders(content, vars, html.EscapeString)
}

func renderPlaceholders(content string, vars map[string]string, escape func(string) string) string {
	return placeholderPattern.ReplaceAllStringFunc(content, func(m string) string {
		name := placeholderPattern.FindStringSubmatch(m)[1]
		return escape(vars[name])
	})
}

// Placeholders returns the distinct placeholder names used in content
func Placeholders(content string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(content, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// InvoiceContext is the data a rent invoice is rendered from
type InvoiceContext struct {
	TenantName      string
	TenantFirstName string
	TenantLastName  string
	TenantPhone     string
	TenantEmail     string
	PropertyName    string
	PropertyAddress string
	PropertyStreet  string
	PropertyIsland  string
	UnitNumber      string
	RentAmount      decimal.Decimal
	Currency        string
	DueDate         *time.Time
	InvoiceNumber   string
	InvoiceDate     *time.Time
}

// Vars flattens the context into template variables as of now
func (c InvoiceContext) Vars(now time.Time) map[string]string {
	currency := c.Currency
	if currency == "" {
		currency = "MVR"
	}
	return map[string]string{
		"tenant_name":       c.TenantName,
		"tenant_first_name": c.TenantFirstName,
		"tenant_last_name":  c.TenantLastName,
		"tenant_phone":      c.TenantPhone,
		"tenant_email":      c.TenantEmail,
		"property_name":     c.PropertyName,
		"property_address":  c.PropertyAddress,
		"property_street":   c.PropertyStreet,
		"property_island":   c.PropertyIsland,
		"unit_number":       c.UnitNumber,
		"rent_amount":       FormatAmount(c.RentAmount),
		"currency":          currency,
		"due_date":          formatDate(c.DueDate),
		"invoice_number":    c.InvoiceNumber,
		"invoice_date":      formatDate(c.InvoiceDate),
		"current_date":      now.Format("2006-01-02"),
		"current_month":     now.Format("January 2006"),
	}
}

// SampleInvoiceContext is used to preview templates without real data
func SampleInvoiceContext(now time.Time) InvoiceContext {
	due := now.AddDate(0, 0, 7)
	return InvoiceContext{
		TenantName:      "Ahmed Ibrahim",
		TenantFirstName: "Ahmed",
		TenantLastName:  "Ibrahim",
		TenantPhone:     "+960 777 1234",
		TenantEmail:     "ahmed@example.com",
		PropertyName:    "Sunset Apartments",
		PropertyAddress: "H. Sunset View, Majeedhee Magu, Male'",
		PropertyStreet:  "Majeedhee Magu",
		PropertyIsland:  "Male'",
		UnitNumber:      "3A",
		RentAmount:      decimal.NewFromInt(15000),
		Currency:        "MVR",
		DueDate:         &due,
		InvoiceNumber:   "RINV-" + now.Format("200601") + "-001",
		InvoiceDate:     &now,
	}
}

// FormatAmount renders a money amount with thousands separators and two
// decimals: 15000 gives "15,000.00"
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")
	sign := ""
	if strings.HasPrefix(whole, "-") {
		sign, whole = "-", whole[1:]
	}
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return fixed
	}
	return sign + humanize.Comma(n) + "." + frac
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
