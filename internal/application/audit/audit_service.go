package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/audit"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogListFilter represents filter options for the audit log list
type LogListFilter struct {
	EventType     string `form:"event_type"`
	AggregateType string `form:"aggregate_type"`
	AggregateID   string `form:"aggregate_id" binding:"omitempty,uuid"`
	DateFrom      string `form:"date_from"`
	DateTo        string `form:"date_to"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	PerPage       int    `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// ToDomain converts the list filter to a shared.Filter
func (f LogListFilter) ToDomain() shared.Filter {
	size := f.PageSize
	if size == 0 {
		size = f.PerPage
	}
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: size,
		OrderBy:  "occurred_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	set := func(key, value string) {
		if value != "" {
			filter.Filters[key] = value
		}
	}
	set("event_type", f.EventType)
	set("aggregate_type", f.AggregateType)
	set("aggregate_id", f.AggregateID)
	set("date_from", f.DateFrom)
	set("date_to", f.DateTo)
	return filter.Normalize()
}

// LogResponse represents an audit log entry in API responses
type LogResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        *uuid.UUID `json:"user_id,omitempty"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateType string     `json:"aggregate_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	Payload       string     `json:"payload"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

// ToLogResponse converts a domain log entry to a response
func ToLogResponse(l *audit.Log) LogResponse {
	return LogResponse{
		ID:            l.ID,
		UserID:        l.UserID,
		EventID:       l.EventID,
		EventType:     l.EventType,
		AggregateType: l.AggregateType,
		AggregateID:   l.AggregateID,
		Payload:       l.Payload,
		OccurredAt:    l.OccurredAt,
	}
}

// AuditService reads the audit trail
type AuditService struct {
	repo audit.Repository
}

// NewAuditService creates a new AuditService
func NewAuditService(repo audit.Repository) *AuditService {
	return &AuditService{repo: repo}
}

// List retrieves a page of audit log entries, newest first
func (s *AuditService) List(ctx context.Context, accountID uuid.UUID, filter LogListFilter) ([]LogResponse, int64, error) {
	domainFilter := filter.ToDomain()
	logs, err := s.repo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]LogResponse, len(logs))
	for i := range logs {
		responses[i] = ToLogResponse(&logs[i])
	}
	return responses, total, nil
}

// Actor is implemented by events that know which user caused them
type Actor interface {
	ActorID() *uuid.UUID
}

// Recorder is a wildcard event handler appending every event to the audit
// trail. Append failures are logged and swallowed so a broken audit table
// never fails the operation that raised the event.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// EventTypes returns nil: the recorder subscribes to all events
func (r *Recorder) EventTypes() []string {
	return nil
}

// Handle appends the event to the audit log
func (r *Recorder) Handle(ctx context.Context, event shared.DomainEvent) error {
	var userID *uuid.UUID
	if a, ok := event.(Actor); ok {
		userID = a.ActorID()
	}
	entry, err := audit.FromEvent(event, userID)
	if err == nil {
		err = r.repo.Append(ctx, entry)
	}
	if err != nil {
		r.logger.Error("failed to append audit log",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err))
	}
	return nil
}
