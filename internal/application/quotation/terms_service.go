package quotation

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/quotation"
)

// TermsService handles terms and conditions templates
type TermsService struct {
	termsRepo quotation.TermsTemplateRepository
}

// NewTermsService creates a new TermsService
func NewTermsService(termsRepo quotation.TermsTemplateRepository) *TermsService {
	return &TermsService{termsRepo: termsRepo}
}

// Create creates a template, optionally as the default of its category
func (s *TermsService) Create(ctx context.Context, accountID uuid.UUID, req CreateTermsTemplateRequest) (*TermsTemplateResponse, error) {
	t, err := quotation.NewTermsTemplate(accountID, req.Title, req.Content, quotation.TermsCategory(req.CategoryType))
	if err != nil {
		return nil, err
	}
	t.DisplayOrder = req.DisplayOrder
	if req.CreatedBy != nil {
		t.SetCreatedBy(*req.CreatedBy)
	}

	if req.IsDefault {
		t.MarkDefault()
		err = s.termsRepo.SaveAsDefault(ctx, t)
	} else {
		err = s.termsRepo.Save(ctx, t)
	}
	if err != nil {
		return nil, err
	}
	resp := ToTermsTemplateResponse(t)
	return &resp, nil
}

// GetByID retrieves a template by ID
func (s *TermsService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*TermsTemplateResponse, error) {
	t, err := s.termsRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTermsTemplateResponse(t)
	return &resp, nil
}

// List retrieves a page of templates
func (s *TermsService) List(ctx context.Context, accountID uuid.UUID, filter TermsTemplateListFilter) ([]TermsTemplateResponse, int64, error) {
	domainFilter := filter.ToDomain()

	templates, err := s.termsRepo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.termsRepo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return toTermsResponses(templates), total, nil
}

// GetByCategory returns the active templates of a category, default first
func (s *TermsService) GetByCategory(ctx context.Context, accountID uuid.UUID, category string) ([]TermsTemplateResponse, error) {
	c := quotation.TermsCategory(category)
	if !c.IsValid() {
		return nil, quotation.ErrInvalidTermsType
	}
	templates, err := s.termsRepo.FindActiveByCategory(ctx, accountID, c)
	if err != nil {
		return nil, err
	}
	return toTermsResponses(templates), nil
}

// Update applies the provided fields to a template
func (s *TermsService) Update(ctx context.Context, accountID, id uuid.UUID, req UpdateTermsTemplateRequest) (*TermsTemplateResponse, error) {
	t, err := s.termsRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}

	category := t.Category
	if req.CategoryType != nil {
		category = quotation.TermsCategory(*req.CategoryType)
	}
	displayOrder := t.DisplayOrder
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}
	if err := t.Update(stringOr(req.Title, t.Title), stringOr(req.Content, t.Content), category, displayOrder); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if err := t.SetActive(*req.IsActive); err != nil {
			return nil, err
		}
	}

	if err := s.termsRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTermsTemplateResponse(t)
	return &resp, nil
}

// SetDefault makes a template the default of its category, clearing the
// previous default in the same transaction
func (s *TermsService) SetDefault(ctx context.Context, accountID, id uuid.UUID) (*TermsTemplateResponse, error) {
	t, err := s.termsRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	t.MarkDefault()
	if err := s.termsRepo.SaveAsDefault(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTermsTemplateResponse(t)
	return &resp, nil
}

// Delete deletes a non-default template
func (s *TermsService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	t, err := s.termsRepo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return err
	}
	if err := t.CanDelete(); err != nil {
		return err
	}
	return s.termsRepo.DeleteForAccount(ctx, accountID, id)
}

func toTermsResponses(templates []quotation.TermsTemplate) []TermsTemplateResponse {
	responses := make([]TermsTemplateResponse, len(templates))
	for i := range templates {
		responses[i] = ToTermsTemplateResponse(&templates[i])
	}
	return responses
}
