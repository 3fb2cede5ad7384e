package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentquote/backend/internal/domain/notification"
	"github.com/rentquote/backend/internal/domain/property"
	"github.com/rentquote/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// NotificationService stores notifications and hands them to the channel
// dispatcher
type NotificationService struct {
	repo       notification.Repository
	dispatcher notification.Dispatcher
	tenantRepo property.TenantRepository
	leaseRepo  property.LeaseRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewNotificationService creates a new NotificationService. dispatcher may
// be nil, in which case notifications are only stored.
func NewNotificationService(
	repo notification.Repository,
	dispatcher notification.Dispatcher,
	tenantRepo property.TenantRepository,
	leaseRepo property.LeaseRepository,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		repo:       repo,
		dispatcher: dispatcher,
		tenantRepo: tenantRepo,
		leaseRepo:  leaseRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a notification and delivers it over its channels.
// Delivery failures are logged and never fail the request.
func (s *NotificationService) Create(ctx context.Context, accountID uuid.UUID, req CreateNotificationRequest) (*NotificationResponse, error) {
	n, err := notification.NewNotification(accountID, notification.Type(req.Type), req.Title, req.Message,
		notification.Priority(req.Priority), notification.Channel(req.SentVia))
	if err != nil {
		return nil, err
	}
	n.ActionURL = req.ActionURL
	n.ExpiresAt = req.ExpiresAt
	n.WithMetadata(req.Metadata)

	if err := s.Notify(ctx, n); err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// Notify saves and dispatches a notification built by another component
func (s *NotificationService) Notify(ctx context.Context, n *notification.Notification) error {
	if err := s.repo.Save(ctx, n); err != nil {
		return err
	}
	s.deliver(ctx, n)
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, n *notification.Notification) {
	if s.dispatcher == nil || len(n.SentVia.Targets()) == 0 {
		return
	}
	msg := s.resolveRecipient(ctx, n)
	for _, r := range s.dispatcher.Dispatch(ctx, n, msg) {
		switch {
		case r.Skipped:
			s.logger.Debug("notification channel skipped",
				zap.String("notification_id", n.ID.String()),
				zap.String("channel", string(r.Channel)))
		case r.Err != nil:
			s.logger.Warn("notification delivery failed",
				zap.String("notification_id", n.ID.String()),
				zap.String("channel", string(r.Channel)),
				zap.Error(r.Err))
		default:
			s.logger.Info("notification delivered",
				zap.String("notification_id", n.ID.String()),
				zap.String("channel", string(r.Channel)))
		}
	}
}

// resolveRecipient builds the outgoing message. Addresses in the metadata
// win; missing ones are taken from the tenant, or the tenant of the lease.
func (s *NotificationService) resolveRecipient(ctx context.Context, n *notification.Notification) notification.Message {
	msg := notification.Message{
		Title:     n.Title,
		Body:      n.Message,
		ActionURL: n.ActionURL,
		Email:     n.Metadata.String(notification.MetaEmail),
		Phone:     n.Metadata.String(notification.MetaPhone),
		ChatID:    n.Metadata.String(notification.MetaTelegramChatID),
	}
	if msg.Email != "" && msg.Phone != "" {
		return msg
	}

	tenant := s.lookupTenant(ctx, n)
	if tenant == nil {
		return msg
	}
	if msg.Email == "" {
		msg.Email = tenant.Email
	}
	if msg.Phone == "" {
		msg.Phone = tenant.Phone
	}
	return msg
}

func (s *NotificationService) lookupTenant(ctx context.Context, n *notification.Notification) *property.Tenant {
	if s.tenantRepo == nil {
		return nil
	}
	tenantID, ok := n.Metadata.UUID(notification.MetaTenantID)
	if !ok && s.leaseRepo != nil {
		if leaseID, hasLease := n.Metadata.UUID(notification.MetaLeaseID); hasLease {
			lease, err := s.leaseRepo.FindByIDForAccount(ctx, n.AccountID, leaseID)
			if err == nil {
				tenantID, ok = lease.TenantID, true
			} else if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("recipient lease lookup failed", zap.String("lease_id", leaseID.String()), zap.Error(err))
			}
		}
	}
	if !ok {
		return nil
	}
	tenant, err := s.tenantRepo.FindByIDForAccount(ctx, n.AccountID, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("recipient tenant lookup failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
		return nil
	}
	return tenant
}

// GetByID retrieves a notification by its ID
func (s *NotificationService) GetByID(ctx context.Context, accountID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// List retrieves a page of notifications, newest first
func (s *NotificationService) List(ctx context.Context, accountID uuid.UUID, filter NotificationListFilter) ([]NotificationResponse, int64, error) {
	domainFilter := filter.ToDomain()
	items, err := s.repo.FindAllForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses, total, nil
}

// MarkRead flags one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, accountID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForAccount(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead(s.now())
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead flags every unread notification of the account as read
func (s *NotificationService) MarkAllRead(ctx context.Context, accountID uuid.UUID) (*MarkAllReadResponse, error) {
	updated, err := s.repo.MarkAllRead(ctx, accountID, s.now())
	if err != nil {
		return nil, err
	}
	return &MarkAllReadResponse{Updated: updated}, nil
}

// UnreadCount counts unread, unexpired notifications
func (s *NotificationService) UnreadCount(ctx context.Context, accountID uuid.UUID) (*UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, accountID, s.now())
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// Delete deletes a notification
func (s *NotificationService) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	if _, err := s.repo.FindByIDForAccount(ctx, accountID, id); err != nil {
		return err
	}
	return s.repo.DeleteForAccount(ctx, accountID, id)
}
