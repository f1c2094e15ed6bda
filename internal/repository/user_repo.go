package repository

import (
	"context"
	"strings"
	"time"

	"campuscollab/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	DisplayName  string    `gorm:"column:display_name;not null"`
	PhotoURL     *string   `gorm:"column:photo_url"`
	Bio          *string   `gorm:"column:bio"`
	Role         string    `gorm:"column:role;not null;default:student"`
	Rating       float64   `gorm:"column:rating;not null;default:0"`
	ReviewCount  int       `gorm:"column:review_count;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type favoriteModel struct {
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_user_favorites_pair;not null"`
	SkillID   int64     `gorm:"column:skill_id;uniqueIndex:idx_user_favorites_pair;index;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (favoriteModel) TableName() string { return "user_favorites" }

func toDomainUser(m userModel) *domain.User {
	var photo, bio string
	if m.PhotoURL != nil {
		photo = *m.PhotoURL
	}
	if m.Bio != nil {
		bio = *m.Bio
	}

	return &domain.User{
		ID:           m.ID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		PhotoURL:     photo,
		Bio:          bio,
		Role:         domain.UserRole(m.Role),
		Rating:       m.Rating,
		ReviewCount:  m.ReviewCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	return userModel{
		ID:           u.ID,
		Email:        normalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		DisplayName:  u.DisplayName,
		PhotoURL:     optional(u.PhotoURL),
		Bio:          optional(u.Bio),
		Role:         string(u.Role),
		Rating:       u.Rating,
		ReviewCount:  u.ReviewCount,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *UserRepository) CreateUser(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*u = *toDomainUser(m)
	return nil
}

func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []int64) (map[int64]*domain.User, error) {
	out := make(map[int64]*domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []userModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainUser(m)
	}
	return out, nil
}

// UpdateUser writes the editable profile fields. Rating columns belong to
// the aggregator and are left alone.
func (r *UserRepository) UpdateUser(ctx context.Context, u *domain.User) error {
	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", u.ID).Updates(map[string]any{
		"display_name": u.DisplayName,
		"photo_url":    optional(u.PhotoURL),
		"bio":          optional(u.Bio),
		"updated_at":   time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *UserRepository) FavoriteSkillIDs(ctx context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&favoriteModel{}).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Pluck("skill_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *UserRepository) ToggleFavorite(ctx context.Context, userID, skillID int64) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND skill_id = ?", userID, skillID).Delete(&favoriteModel{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		added = true
		return tx.Create(&favoriteModel{UserID: userID, SkillID: skillID}).Error
	})
	return added, translate(err)
}
