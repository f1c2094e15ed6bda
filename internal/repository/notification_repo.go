package repository

import (
	"context"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID        int64             `gorm:"column:id;primaryKey"`
	UserID    int64             `gorm:"column:user_id;index;not null"`
	Type      string            `gorm:"column:type;not null"`
	Title     string            `gorm:"column:title;not null"`
	Message   string            `gorm:"column:message;not null"`
	Data      datatypes.JSONMap `gorm:"column:data"`
	IsRead    bool              `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time         `gorm:"column:created_at;index"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) *domain.Notification {
	return &domain.Notification{
		ID:        m.ID,
		UserID:    m.UserID,
		Type:      domain.NotificationType(m.Type),
		Title:     m.Title,
		Message:   m.Message,
		Data:      map[string]any(m.Data),
		Read:      m.IsRead,
		CreatedAt: m.CreatedAt,
	}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	m := notificationModel{
		UserID:  n.UserID,
		Type:    string(n.Type),
		Title:   n.Title,
		Message: n.Message,
		Data:    datatypes.JSONMap(n.Data),
		IsRead:  n.Read,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*n = *toDomainNotification(m)
	return nil
}

func (r *NotificationRepository) ListNotifications(ctx context.Context, userID int64, limit int) ([]domain.Notification, error) {
	var rows []notificationModel
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) error {
	var m notificationModel
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if err != nil {
		return translate(err)
	}
	if m.IsRead {
		return nil
	}
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *NotificationRepository) DeleteReadBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&notificationModel{})
	return res.RowsAffected, res.Error
}

var _ store.NotificationStore = (*NotificationRepository)(nil)
