package quotation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermsTemplate_Lifecycle(t *testing.T) {
	tpl, err := NewTermsTemplate(uuid.New(), "Standard", "Payment within 30 days", TermsCategoryGeneral)
	require.NoError(t, err)
	assert.True(t, tpl.IsActive)
	assert.False(t, tpl.IsDefault)
	assert.NoError(t, tpl.CanDelete())

	tpl.MarkDefault()
	assert.ErrorIs(t, tpl.CanDelete(), ErrDefaultTemplate)
	assert.Error(t, tpl.SetActive(false))
	assert.Error(t, tpl.Update("Standard", "x", TermsCategoryAMC, 0), "default cannot change category")
	assert.NoError(t, tpl.Update("Standard v2", "x", TermsCategoryGeneral, 3))
	assert.Equal(t, 3, tpl.DisplayOrder)
}

func TestNewTermsTemplate_Invalid(t *testing.T) {
	_, err := NewTermsTemplate(uuid.New(), "Title", "Body", "legal")
	assert.ErrorIs(t, err, ErrInvalidTermsType)
	_, err = NewTermsTemplate(uuid.New(), "", "Body", TermsCategoryGeneral)
	assert.Error(t, err)
}
