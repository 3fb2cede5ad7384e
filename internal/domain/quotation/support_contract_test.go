package quotation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newContract(t *testing.T, expiry time.Time) *SupportContract {
	t.Helper()
	c, err := NewSupportContract(uuid.New(), uuid.New(), "AMC", "SC-001", day(2024, 1, 1), expiry)
	require.NoError(t, err)
	return c
}

func TestNewSupportContract_Dates(t *testing.T) {
	_, err := NewSupportContract(uuid.New(), uuid.New(), "AMC", "SC-1", day(2025, 1, 1), day(2025, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidContractDate)
}

func TestSupportContract_DerivedFields(t *testing.T) {
	now := day(2025, 6, 1)

	healthy := newContract(t, day(2025, 12, 31))
	assert.Equal(t, 213, healthy.DaysUntilExpiry(now))
	assert.False(t, healthy.IsExpiringSoon(now))
	assert.Equal(t, ColorGreen, healthy.StatusColor(now))

	soon := newContract(t, day(2025, 7, 1))
	assert.Equal(t, 30, soon.DaysUntilExpiry(now))
	assert.True(t, soon.IsExpiringSoon(now))
	assert.Equal(t, ColorAmber, soon.StatusColor(now))

	lapsed := newContract(t, day(2025, 5, 30))
	assert.Equal(t, -2, lapsed.DaysUntilExpiry(now))
	assert.Equal(t, ColorRed, lapsed.StatusColor(now))

	require.NoError(t, healthy.Deactivate())
	assert.Equal(t, ColorGrey, healthy.StatusColor(now))
	assert.False(t, healthy.IsExpiringSoon(now))
}

func TestSupportContract_ExpireIfDue(t *testing.T) {
	now := day(2025, 6, 1)

	c := newContract(t, day(2025, 5, 31))
	assert.True(t, c.ExpireIfDue(now))
	assert.Equal(t, ContractStatusExpired, c.Status)
	require.Len(t, c.GetDomainEvents(), 1)
	assert.False(t, c.ExpireIfDue(now), "already expired")

	today := newContract(t, now)
	assert.False(t, today.ExpireIfDue(now), "expires at end of the expiry day")
}

func TestSupportContract_DeactivateReactivate(t *testing.T) {
	now := day(2025, 6, 1)
	c := newContract(t, day(2025, 5, 1))

	require.NoError(t, c.Deactivate())
	assert.ErrorIs(t, c.Deactivate(), ErrContractState)

	require.NoError(t, c.Reactivate(now))
	assert.Equal(t, ContractStatusExpired, c.Status, "lapsed contracts come back expired")
	assert.ErrorIs(t, c.Reactivate(now), ErrContractState)
}
