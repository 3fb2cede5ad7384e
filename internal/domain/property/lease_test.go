package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func newLease(t *testing.T, end *time.Time) *Lease {
	t.Helper()
	l, err := NewLease(uuid.New(), uuid.New(), uuid.New(), LeaseTerms{
		LeaseStart:        date(2025, 1, 1),
		LeaseEnd:          end,
		MonthlyRent:       decimal.NewFromInt(12000),
		AdvanceRentMonths: 2,
		NoticePeriodDays:  30,
	})
	require.NoError(t, err)
	return l
}

func TestNewLease(t *testing.T) {
	l := newLease(t, ptr(date(2025, 12, 31)))
	assert.Equal(t, LeaseStatusActive, l.Status)
	assert.Equal(t, "MVR", l.Currency)
	assert.True(t, l.AdvanceRentAmount.Equal(decimal.NewFromInt(24000)))
	require.Len(t, l.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeLeaseStarted, l.GetDomainEvents()[0].EventType())
}

func TestNewLease_Invalid(t *testing.T) {
	_, err := NewLease(uuid.New(), uuid.New(), uuid.New(), LeaseTerms{
		LeaseStart:  date(2025, 5, 1),
		LeaseEnd:    ptr(date(2025, 4, 1)),
		MonthlyRent: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, ErrInvalidLeasePeriod)

	_, err = NewLease(uuid.New(), uuid.New(), uuid.New(), LeaseTerms{
		LeaseStart:  date(2025, 5, 1),
		MonthlyRent: decimal.Zero,
	})
	assert.Error(t, err)

	_, err = NewLease(uuid.New(), uuid.Nil, uuid.New(), LeaseTerms{})
	assert.Error(t, err)
}

func TestLease_End(t *testing.T) {
	t.Run("early move out shortens the lease", func(t *testing.T) {
		l := newLease(t, ptr(date(2025, 12, 31)))
		l.ClearDomainEvents()

		require.NoError(t, l.End(date(2025, 6, 15), "relocating"))
		assert.Equal(t, LeaseStatusEnded, l.Status)
		assert.Equal(t, date(2025, 6, 15), *l.LeaseEnd)
		assert.Equal(t, date(2025, 6, 15), *l.MoveOutDate)
		assert.Contains(t, l.Notes, "relocating")

		require.Len(t, l.GetDomainEvents(), 1)
		ev, ok := l.GetDomainEvents()[0].(*LeaseEndedEvent)
		require.True(t, ok)
		assert.Equal(t, "relocating", ev.Reason)
	})

	t.Run("late move out keeps the agreed end", func(t *testing.T) {
		l := newLease(t, ptr(date(2025, 6, 30)))
		require.NoError(t, l.End(date(2025, 7, 5), ""))
		assert.Equal(t, date(2025, 6, 30), *l.LeaseEnd)
	})

	t.Run("open ended lease takes the move out date", func(t *testing.T) {
		l := newLease(t, nil)
		require.NoError(t, l.End(date(2025, 3, 1), ""))
		require.NotNil(t, l.LeaseEnd)
		assert.Equal(t, date(2025, 3, 1), *l.LeaseEnd)
	})

	t.Run("cannot end twice or before start", func(t *testing.T) {
		l := newLease(t, nil)
		assert.ErrorIs(t, l.End(date(2024, 12, 1), ""), ErrInvalidLeasePeriod)
		require.NoError(t, l.End(date(2025, 2, 1), ""))
		assert.ErrorIs(t, l.End(date(2025, 2, 1), ""), ErrLeaseNotActive)
	})
}

func TestLease_CoversMonth(t *testing.T) {
	l := newLease(t, ptr(date(2025, 3, 10)))
	assert.False(t, l.CoversMonth(date(2024, 12, 1)))
	assert.True(t, l.CoversMonth(date(2025, 1, 15)))
	assert.True(t, l.CoversMonth(date(2025, 3, 1)))
	assert.False(t, l.CoversMonth(date(2025, 4, 1)))

	open := newLease(t, nil)
	assert.True(t, open.CoversMonth(date(2030, 1, 1)))
}

func TestOccupancyHistory(t *testing.T) {
	l := newLease(t, nil)
	in := NewMoveIn(l)
	assert.Equal(t, OccupancyMoveIn, in.Action)
	assert.Equal(t, l.LeaseStart, in.Date)

	require.NoError(t, l.End(date(2025, 4, 30), ""))
	out := NewMoveOut(l, "keys returned")
	assert.Equal(t, OccupancyMoveOut, out.Action)
	assert.Equal(t, date(2025, 4, 30), out.Date)
	assert.Equal(t, l.ID, out.LeaseID)
}
