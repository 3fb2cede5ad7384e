package billing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTemplateService_Create(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("default template clears others", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		svc := NewTemplateService(repo, PropertyRepositories{}, nil, time.Hour)
		repo.On("SaveAsDefault", ctx, mock.MatchedBy(func(tmpl *billing.InvoiceTemplate) bool {
			return tmpl.IsDefault && tmpl.IsActive
		})).Return(nil)

		resp, err := svc.Create(ctx, accountID, CreateTemplateRequest{
			Name: "Monthly rent", TemplateType: "rent", IsDefault: true,
			HTMLContent: "<p>{{tenant_name}} owes {{rent_amount}}</p>",
		})
		require.NoError(t, err)
		assert.True(t, resp.IsDefault)
		assert.Equal(t, []string{"tenant_name", "rent_amount"}, resp.Placeholders)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("regular template", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		svc := NewTemplateService(repo, PropertyRepositories{}, nil, time.Hour)
		repo.On("Save", ctx, mock.AnythingOfType("*billing.InvoiceTemplate")).Return(nil)

		resp, err := svc.Create(ctx, accountID, CreateTemplateRequest{
			Name: "Plain", TemplateType: "both", HTMLContent: "<p>hi</p>", Styles: "p{}",
		})
		require.NoError(t, err)
		assert.False(t, resp.IsDefault)
		assert.Equal(t, "p{}", resp.Styles)
	})
}

func TestTemplateService_DeleteDefault(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo, PropertyRepositories{}, nil, time.Hour)

	tmpl, err := billing.NewInvoiceTemplate(accountID, "Default", billing.TemplateTypeRent, "<p></p>")
	require.NoError(t, err)
	tmpl.MarkDefault()
	repo.On("FindByIDForAccount", ctx, accountID, tmpl.ID).Return(tmpl, nil)

	err = svc.Delete(ctx, accountID, tmpl.ID)
	assert.ErrorIs(t, err, errDefaultTemplate)
	repo.AssertNotCalled(t, "DeleteForAccount", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_Preview(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockTemplateRepository)
	svc := NewTemplateService(repo, PropertyRepositories{}, nil, time.Hour)
	svc.now = func() time.Time { return time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC) }

	tmpl, err := billing.NewInvoiceTemplate(accountID, "Rent", billing.TemplateTypeRent,
		"<p>{{invoice_number}} for {{tenant_first_name}} in {{current_month}}{{unknown}}</p>")
	require.NoError(t, err)
	require.NoError(t, tmpl.Update(tmpl.Name, tmpl.Type, tmpl.HTMLContent, "p{color:red}", ""))
	repo.On("FindByIDForAccount", ctx, accountID, tmpl.ID).Return(tmpl, nil)

	resp, err := svc.Preview(ctx, accountID, tmpl.ID, PreviewRequest{InvoiceNumber: "RINV-TEST-001"})
	require.NoError(t, err)
	assert.Contains(t, resp.HTML, "<p>RINV-TEST-001 for Ahmed in March 2025</p>")
	assert.Contains(t, resp.HTML, "<style>p{color:red}</style>")
	assert.Equal(t, "2025-03-09", resp.Variables["current_date"])

	override := "<b>{{unit_number}}</b>"
	resp, err = svc.Preview(ctx, accountID, tmpl.ID, PreviewRequest{HTMLContent: &override})
	require.NoError(t, err)
	assert.True(t, strings.Contains(resp.HTML, "<b>3A</b>"))
}

func TestTemplateService_LogoUploadURL(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("storage disabled", func(t *testing.T) {
		svc := NewTemplateService(new(MockTemplateRepository), PropertyRepositories{}, nil, time.Hour)
		_, err := svc.LogoUploadURL(ctx, accountID, uuid.New(), UploadURLRequest{ContentType: "image/png"})
		assert.ErrorIs(t, err, errStorageUnavailable)
	})

	t.Run("presigns and records key", func(t *testing.T) {
		repo := new(MockTemplateRepository)
		storage := new(MockObjectStorage)
		svc := NewTemplateService(repo, PropertyRepositories{}, storage, 15*time.Minute)

		tmpl, err := billing.NewInvoiceTemplate(accountID, "Rent", billing.TemplateTypeRent, "<p></p>")
		require.NoError(t, err)
		key := "templates/" + tmpl.ID.String() + "/logo"
		expires := time.Now().Add(15 * time.Minute)

		repo.On("FindByIDForAccount", ctx, accountID, tmpl.ID).Return(tmpl, nil)
		repo.On("Save", ctx, tmpl).Return(nil)
		storage.On("GenerateUploadURL", ctx, key, "image/png", 15*time.Minute).Return("https://upload.example", expires, nil)

		resp, err := svc.LogoUploadURL(ctx, accountID, tmpl.ID, UploadURLRequest{ContentType: "image/png"})
		require.NoError(t, err)
		assert.Equal(t, key, resp.StorageKey)
		assert.Equal(t, "https://upload.example", resp.UploadURL)
		assert.Equal(t, key, tmpl.LogoPath)
	})
}
