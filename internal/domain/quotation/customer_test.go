package quotation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseResortCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"three words", "Sun Island Resort", "SIR"},
		{"more than three words", "Four Seasons Resort Maldives", "FSR"},
		{"single word padded", "Kurumba", "KXX"},
		{"two words padded", "Paradise island", "PIX"},
		{"lower case", "taj exotica", "TEX"},
		{"blank", "   ", UnknownResortCode},
		{"accented initial", "Élan Island Resort", "EIR"},
		{"accents inside words", "Ōzen Résidence", "ORX"},
		{"non-latin initial", "Ωmega Ísland", "ΩIX"},
		{"punctuation-only word skipped", "Sun & Sand Resort", "SSR"},
		{"only punctuation", "- & -", UnknownResortCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseResortCode(tt.in))
		})
	}
}

func TestResortCodeCandidate(t *testing.T) {
	assert.Equal(t, "SIR", ResortCodeCandidate("SIR", 0))
	assert.Equal(t, "SI1", ResortCodeCandidate("SIR", 1))
	assert.Equal(t, "SI9", ResortCodeCandidate("SIR", 9))
	assert.Equal(t, "SI10", ResortCodeCandidate("SIR", 10))
	assert.Equal(t, "ΩI3", ResortCodeCandidate("ΩIX", 3))
}

func TestNewCustomer(t *testing.T) {
	accountID := uuid.New()

	c, err := NewCustomer(accountID, "  Sun Island Resort ")
	require.NoError(t, err)
	assert.Equal(t, "Sun Island Resort", c.ResortName)
	assert.Equal(t, accountID, c.AccountID)

	_, err = NewCustomer(accountID, "")
	assert.Error(t, err)
}

func TestCustomer_UpdateDetails(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "Kurumba")
	require.NoError(t, err)
	c.SetResortCode("kxx")
	assert.Equal(t, "KXX", c.ResortCode)

	err = c.UpdateDetails("Kurumba Maldives", "Universal", "North Male Atoll", "Maldives", "TIN-1", "30 days", "ap@kurumba.mv", "+9606642324")
	require.NoError(t, err)
	assert.Equal(t, "Kurumba Maldives", c.ResortName)
	assert.Equal(t, 2, c.Version)
	assert.Equal(t, "KXX", c.ResortCode, "resort code is stable across renames")

	assert.Error(t, c.UpdateDetails(" ", "", "", "", "", "", "", ""))
}
