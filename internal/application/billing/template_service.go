package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/rentquote/backend/internal/domain/shared"
)

var (
	errDefaultTemplate    = shared.NewDomainError("DEFAULT_TEMPLATE", "The default template cannot be deleted")
	errStorageUnavailable = shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
)

// TemplateService manages invoice templates and renders them
type TemplateService struct {
	templateRepo billing.InvoiceTemplateRepository
	parties      PropertyRepositories
	storage      ObjectStorage
	urlTTL       time.Duration
	now          func() time.Time
}

// NewTemplateService creates a new TemplateService. storage may be nil when
// object storage is disabled.
func NewTemplateService(templateRepo billing.InvoiceTemplateRepository, parties PropertyRepositories, storage ObjectStorage, urlTTL time.Duration) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		parties:      parties,
		storage:      storage,
		urlTTL:       urlTTL,
		now:          time.Now,
	}
}

// Create creates a template, optionally as the default of its type
func (s *TemplateService) Create(ctx context.Context, accountID uuid.UUID, req CreateTemplateRequest) (*TemplateResponse, error) {
	t, err := billing.NewInvoiceTemplate(accountID, req.Name, billing.TemplateType(req.TemplateType), req.HTMLContent)
	if err != nil {
		return nil, err
	}
	if err := t.Update(t.Name, t.Type, t.HTMLContent, req.Styles, req.TemplateData); err != nil {
		return nil, err
	}
	if req.CreatedBy != nil {
		t.SetCreatedBy(*req.CreatedBy)
	}

	if req.IsDefault {
		t.MarkDefault()
		err = s.templateRepo.SaveAsDefault(ctx, t)
	} else {
		err = s.templateRepo.Save(ctx, t)
	}
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// GetByID retrieves a template by its ID
func (s *TemplateService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// List retrieves a page of templates, defaults first
func (s *TemplateService) List(ctx context.Context, accountID uuid.UUID, filter TemplateListFilter) ([]TemplateResponse, int64, error) {
	domainFilter := filter.ToDomain()
	templates, err := s.templateRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.templateRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]TemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTemplateResponse(&templates[i])
	}
	return responses, total, nil
}

// Update applies the provided fields to a template
func (s *TemplateService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateTemplateRequest) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	previousType := t.Type
	templateType := t.Type
	if req.TemplateType != nil {
		templateType = billing.TemplateType(*req.TemplateType)
	}
	err = t.Update(
		stringOr(req.Name, t.Name),
		templateType,
		stringOr(req.HTMLContent, t.HTMLContent),
		stringOr(req.Styles, t.Styles),
		stringOr(req.TemplateData, t.TemplateData),
	)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if err := t.SetActive(*req.IsActive); err != nil {
			return nil, err
		}
	}

	if t.IsDefault && previousType != t.Type {
		err = s.templateRepo.SaveAsDefault(ctx, t)
	} else {
		err = s.templateRepo.Save(ctx, t)
	}
	if err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// SetDefault makes the template the default of its type
func (s *TemplateService) SetDefault(ctx context.Context, accountID, id uuid.UUID) (*TemplateResponse, error) {
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	t.MarkDefault()
	if err := s.templateRepo.SaveAsDefault(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTemplateResponse(t)
	return &resp, nil
}

// Delete deletes a template that is not a default
func (s *TemplateService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	if t.IsDefault {
		return errDefaultTemplate
	}
	return s.templateRepo.DeleteForAccount(ctx, accountID, id)
}

// Variables lists the placeholders templates may use
func (s *TemplateService) Variables() []billing.Variable {
	return billing.AvailableVariables()
}

// Preview renders a template with sample data, or with a real lease when
// one is given. Unsaved HTML may be passed to preview edits.
func (s *TemplateService) Preview(ctx context.Context, accountID, id uuid.UUID, req PreviewRequest) (*PreviewResponse, error) {
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	data := billing.SampleInvoiceContext(now)
	if req.LeaseID != nil {
		parties, err := s.parties.load(ctx, accountID, *req.LeaseID)
		if err != nil {
			return nil, err
		}
		data = parties.invoiceContext(nil)
		due := now.AddDate(0, 0, billing.DefaultDueDateOffsetDays)
		data.InvoiceDate = &now
		data.DueDate = &due
	}
	if req.InvoiceNumber != "" {
		data.InvoiceNumber = req.InvoiceNumber
	}

	html := t.HTMLContent
	if req.HTMLContent != nil {
		html = *req.HTMLContent
	}
	vars := data.Vars(now)
	return &PreviewResponse{
		HTML:      t.Document(billing.RenderHTMLPlaceholders(html, vars)),
		Variables: vars,
	}, nil
}

// LogoUploadURL returns a presigned URL the client uploads the template
// logo to, and records the object key on the template
func (s *TemplateService) LogoUploadURL(ctx context.Context, accountID, id uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, errStorageUnavailable
	}
	t, err := s.templateRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	key := LogoKey(t.ID)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("presign logo upload: %w", err)
	}
	t.SetLogoPath(key)
	if err := s.templateRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	return &UploadURLResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// LogoKey is the object key of a template logo
func LogoKey(templateID uuid.UUID) string {
	return "templates/" + templateID.String() + "/logo"
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
