package quotation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/shared"
)

// TermsCategory groups terms and conditions templates
type TermsCategory string

const (
	TermsCategoryGeneral  TermsCategory = "general"
	TermsCategoryHardware TermsCategory = "hardware"
	TermsCategoryService  TermsCategory = "service"
	TermsCategoryAMC      TermsCategory = "amc"
)

// IsValid reports whether c is a known terms category
func (c TermsCategory) IsValid() bool {
	switch c {
	case TermsCategoryGeneral, TermsCategoryHardware, TermsCategoryService, TermsCategoryAMC:
		return true
	}
	return false
}

// TermsTemplate is reusable terms and conditions text attached to quotations
type TermsTemplate struct {
	shared.AccountAggregateRoot
	Title        string        `gorm:"type:varchar(200);not null"`
	Content      string        `gorm:"type:text;not null"`
	Category     TermsCategory `gorm:"column:category_type;type:varchar(20);not null;index"`
	IsDefault    bool          `gorm:"not null;default:false"`
	IsActive     bool          `gorm:"not null;default:true"`
	DisplayOrder int           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (TermsTemplate) TableName() string {
	return "terms_conditions_templates"
}

// NewTermsTemplate creates an active, non-default template
func NewTermsTemplate(accountID uuid.UUID, title, content string, category TermsCategory) (*TermsTemplate, error) {
	t := &TermsTemplate{
		AccountAggregateRoot: shared.NewAccountAggregateRoot(accountID),
		IsActive:             true,
	}
	if err := t.Update(title, content, category, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// Update replaces the template content
func (t *TermsTemplate) Update(title, content string, category TermsCategory, displayOrder int) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Template title cannot be empty")
	}
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Template content cannot be empty")
	}
	if !category.IsValid() {
		return ErrInvalidTermsType
	}
	if t.IsDefault && category != t.Category {
		return shared.NewDomainError("DEFAULT_TEMPLATE_CATEGORY", "The default template cannot change category")
	}
	t.Title = title
	t.Content = content
	t.Category = category
	t.DisplayOrder = displayOrder
	t.UpdatedAt = time.Now()
	return nil
}

// SetActive toggles whether the template is offered for new quotations.
// A default template cannot be deactivated.
func (t *TermsTemplate) SetActive(active bool) error {
	if !active && t.IsDefault {
		return shared.NewDomainError("DEFAULT_TEMPLATE_INACTIVE", "The default template cannot be deactivated")
	}
	t.IsActive = active
	t.UpdatedAt = time.Now()
	return nil
}

// MarkDefault flags the template as its category's default. The repository
// clears the previous default in the same transaction.
func (t *TermsTemplate) MarkDefault() {
	t.IsDefault = true
	t.IsActive = true
	t.UpdatedAt = time.Now()
}

// CanDelete reports whether the template may be deleted
func (t *TermsTemplate) CanDelete() error {
	if t.IsDefault {
		return ErrDefaultTemplate
	}
	return nil
}
