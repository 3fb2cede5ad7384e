package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// TemplateType says which invoices a template can lay out
type TemplateType string

const (
	TemplateTypeRent        TemplateType = "rent"
	TemplateTypeMaintenance TemplateType = "maintenance"
	TemplateTypeBoth        TemplateType = "both"
)

// IsValid reports whether t is a known template type
func (t TemplateType) IsValid() bool {
	return t == TemplateTypeRent || t == TemplateTypeMaintenance || t == TemplateTypeBoth
}

// Covers reports whether a template of type t can be used for want
func (t TemplateType) Covers(want TemplateType) bool {
	return t == want || t == TemplateTypeBoth
}

// InvoiceTemplate is an HTML layout with {{variable}} placeholders
type InvoiceTemplate struct {
	shared.AccountAggregateRoot
	Name         string       `gorm:"type:varchar(200);not null"`
	Type         TemplateType `gorm:"column:template_type;type:varchar(20);not null;index"`
	TemplateData string       `gorm:"type:text"`
	HTMLContent  string       `gorm:"type:text;not null"`
	Styles       string       `gorm:"type:text"`
	LogoPath     string       `gorm:"type:varchar(500)"`
	IsActive     bool         `gorm:"not null;default:true"`
	IsDefault    bool         `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (InvoiceTemplate) TableName() string {
	return "invoice_templates"
}

// NewInvoiceTemplate creates an active, non-default template
func NewInvoiceTemplate(accountID uuid.UUID, name string, templateType TemplateType, html string) (*InvoiceTemplate, error) {
	t := &InvoiceTemplate{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		IsActive:             true,
	}
	if err := t.Update(name, templateType, html, "", ""); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the layout of the template
func (t *InvoiceTemplate) Update(name string, templateType TemplateType, html, styles, data string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Template name cannot be empty")
	}
	if !templateType.IsValid() {
		return ErrInvalidTemplateType
	}
	if strings.TrimSpace(html) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Template HTML cannot be empty")
	}
	t.Name = name
	t.Type = templateType
	t.HTMLContent = html
	t.Styles = styles
	t.TemplateData = data
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetLogoPath records the object key of the uploaded logo
func (t *InvoiceTemplate) SetLogoPath(key string) {
	t.LogoPath = key
	t.UpdatedAt = time.Now()
}

// SetActive toggles the template; a default template stays active
func (t *InvoiceTemplate) SetActive(active bool) error {
	if !active && t.IsDefault {
		return shared.NewDomainError("DEFAULT_TEMPLATE_INACTIVE", "The default template cannot be deactivated")
	}
	t.IsActive = active
	t.UpdatedAt = time.Now()
	return nil
}

// MarkDefault flags the template as default for its type. The repository
// clears other defaults of the same type.
func (t *InvoiceTemplate) MarkDefault() {
	t.IsDefault = true
	t.IsActive = true
	t.UpdatedAt = time.Now()
}

// Document returns the full HTML document with styles inlined in the head
func (t *InvoiceTemplate) Document(body string) string {
	if t.Styles == "" || strings.Contains(body, "<html") {
		return body
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><style>")
	b.WriteString(t.Styles)
	b.WriteString("</style></head><body>")
	b.WriteString(body)
	b.WriteString("</body></html>")
	return b.String()
}
