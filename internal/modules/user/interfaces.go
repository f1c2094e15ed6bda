package user

import (
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

type Store interface {
	store.UserStore
	GetSkill(ctx context.Context, id int64) (*domain.Skill, error)
	GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error)
	ListSkillsByTutor(ctx context.Context, tutorID int64) ([]domain.Skill, error)
}

type TokenIssuer interface {
	GenerateToken(userID int64, role domain.UserRole) (string, error)
}
