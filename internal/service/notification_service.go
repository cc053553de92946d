package service

import (
	"context"
	"fmt"

	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

// NotificationService exposes the inbox: admin-wide listing, per-user
// unread listing, and the one-shot viewed flip.
type NotificationService struct {
	notifications NotificationStore
	users         UserStore
}

func NewNotificationService(notifications NotificationStore, users UserStore) *NotificationService {
	return &NotificationService{notifications: notifications, users: users}
}

func (s *NotificationService) ListAll(ctx context.Context, caller domain.CallerContext) ([]domain.Notification, error) {
	if !caller.IsAdmin {
		return nil, fmt.Errorf("%w: only admin may access all notifications", domain.ErrForbidden)
	}
	return s.notifications.ListAll(ctx)
}

func (s *NotificationService) ListUnread(ctx context.Context, caller domain.CallerContext) ([]domain.Notification, error) {
	user, err := s.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}
	return s.notifications.ListUnreadByUser(ctx, user.ID)
}

// MarkViewed flips the viewed flag once, for the owning user only. A
// notification owned by someone else reads as missing.
func (s *NotificationService) MarkViewed(ctx context.Context, caller domain.CallerContext, id uint) (*domain.Notification, error) {
	user, err := s.users.GetByEmail(ctx, caller.Email)
	if err != nil {
		return nil, err
	}

	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notification.UserID != user.ID {
		return nil, domain.ErrNotFound
	}
	if notification.Viewed {
		return nil, domain.ErrAlreadyViewed
	}

	return s.notifications.MarkViewed(ctx, id)
}
