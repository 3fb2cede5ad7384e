package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/audit"
	"github.com/rentquote/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Log) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRepository) FindAllForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]audit.Log, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).([]audit.Log), args.Error(1)
}

func (m *MockAuditRepository) CountForAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type unitRenamed struct {
	shared.BaseDomainEvent
	UnitNumber string `json:"unit_number"`
}

func TestRecorder_Handle(t *testing.T) {
	ctx := context.Background()
	accountID, unitID := uuid.New(), uuid.New()
	evt := &unitRenamed{
		BaseDomainEvent: shared.NewBaseDomainEvent("UnitRenamed", "Unit", unitID, accountID),
		UnitNumber:      "4B",
	}

	t.Run("appends snapshot", func(t *testing.T) {
		repo := new(MockAuditRepository)
		repo.On("Append", ctx, mock.MatchedBy(func(l *audit.Log) bool {
			return l.AccountID == accountID && l.AggregateID == unitID && l.EventType == "UnitRenamed"
		})).Return(nil)

		rec := NewRecorder(repo, nil)
		assert.Empty(t, rec.EventTypes())
		require.NoError(t, rec.Handle(ctx, evt))
		repo.AssertExpectations(t)
	})

	t.Run("append failure is swallowed", func(t *testing.T) {
		repo := new(MockAuditRepository)
		repo.On("Append", ctx, mock.Anything).Return(errors.New("relation does not exist"))
		assert.NoError(t, NewRecorder(repo, nil).Handle(ctx, evt))
	})
}

func TestAuditService_List(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()
	repo := new(MockAuditRepository)
	svc := NewAuditService(repo)

	filter := LogListFilter{EventType: "LeaseEnded", PageSize: 5}
	domainFilter := filter.ToDomain()
	assert.Equal(t, "LeaseEnded", domainFilter.Filters["event_type"])
	assert.NotContains(t, domainFilter.Filters, "aggregate_type")

	entry := audit.Log{BaseEntity: shared.NewBaseEntity(), AccountID: accountID, EventType: "LeaseEnded"}
	repo.On("FindAllForAccount", ctx, accountID, domainFilter).Return([]audit.Log{entry}, nil)
	repo.On("CountForAccount", ctx, accountID, domainFilter).Return(int64(11), nil)

	logs, total, err := svc.List(ctx, accountID, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, logs, 1)
	assert.Equal(t, entry.ID, logs[0].ID)
}

func TestLogListFilter_PageSizeAlias(t *testing.T) {
	tests := []struct {
		name   string
		filter LogListFilter
		want   int
	}{
		{name: "page_size", filter: LogListFilter{PageSize: 15}, want: 15},
		{name: "per_page alias", filter: LogListFilter{PerPage: 25}, want: 25},
		{name: "page_size wins", filter: LogListFilter{PageSize: 10, PerPage: 50}, want: 10},
		{name: "default", filter: LogListFilter{}, want: shared.DefaultPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.ToDomain().PageSize)
		})
	}
}
