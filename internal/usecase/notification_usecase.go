package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"golfmarket/internal/domain/entity"
	"golfmarket/internal/domain/repository"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

// Push persists a notification for the user. Delivery beyond persistence
// (push, email) is handled elsewhere.
func (uc *NotificationUseCase) Push(ctx context.Context, userID, title, message, link string) error {
	notification := &entity.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Link:      link,
		Read:      false,
		CreatedAt: time.Now(),
	}

	return uc.notificationRepo.Create(ctx, notification)
}

func (uc *NotificationUseCase) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.notificationRepo.MarkRead(ctx, id)
}
