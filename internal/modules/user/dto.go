package user

import (
	"time"

	"campuscollab/internal/domain"
)

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
	Role        string `json:"role" binding:"omitempty,oneof=student tutor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,min=1,max=100"`
	PhotoURL    *string `json:"photoURL" binding:"omitempty,url"`
	Bio         *string `json:"bio" binding:"omitempty,max=1000"`
}

type AuthResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

type Profile struct {
	*domain.User
	Skills    []domain.Skill `json:"skills"`
	Favorites []domain.Skill `json:"favorites"`
}

// PublicProfile is what anyone can see about a user.
type PublicProfile struct {
	ID          int64           `json:"id"`
	DisplayName string          `json:"displayName"`
	PhotoURL    string          `json:"photoURL,omitempty"`
	Bio         string          `json:"bio,omitempty"`
	Role        domain.UserRole `json:"role"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toPublic(u *domain.User) *PublicProfile {
	return &PublicProfile{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		Bio:         u.Bio,
		Role:        u.Role,
		Rating:      u.Rating,
		ReviewCount: u.ReviewCount,
		CreatedAt:   u.CreatedAt,
	}
}
