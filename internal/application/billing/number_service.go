package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
)

// NumberService issues billing document numbers
type NumberService struct {
	generator *billing.NumberGenerator
}

// NewNumberService creates a new NumberService
func NewNumberService(generator *billing.NumberGenerator) *NumberService {
	return &NumberService{generator: generator}
}

// Next issues the next number of the document type
func (s *NumberService) Next(ctx context.Context, accountID uuid.UUID, docType string) (*NumberResponse, error) {
	number, err := s.generator.Next(ctx, accountID, billing.DocumentType(docType))
	if err != nil {
		return nil, err
	}
	return &NumberResponse{Type: docType, Number: number}, nil
}

// Preview returns the number Next would issue without reserving it
func (s *NumberService) Preview(ctx context.Context, accountID uuid.UUID, docType string) (*NumberResponse, error) {
	number, err := s.generator.Preview(ctx, accountID, billing.DocumentType(docType))
	if err != nil {
		return nil, err
	}
	return &NumberResponse{Type: docType, Number: number}, nil
}

// PolicyFromConfig builds a numbering policy from configured prefixes keyed
// by document type name. Unknown keys are ignored.
func PolicyFromConfig(prefixes map[string]string, resetMonthly bool) billing.NumberingPolicy {
	policy := billing.NumberingPolicy{
		Prefixes:     make(map[billing.DocumentType]string, len(prefixes)),
		ResetMonthly: resetMonthly,
	}
	for key, prefix := range prefixes {
		docType := billing.DocumentType(key)
		if docType.IsValid() {
			policy.Prefixes[docType] = prefix
		}
	}
	return policy
}
