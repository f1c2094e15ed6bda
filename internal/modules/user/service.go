package user

import (
	"context"
	"errors"
	"strings"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	store  Store
	tokens TokenIssuer
}

func NewService(s Store, tokens TokenIssuer) *Service {
	return &Service{store: s, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := domain.RoleStudent
	if req.Role != "" {
		role = domain.UserRole(req.Role)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.issue(u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	u, err := s.store.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(u)
}

// GetProfile returns the user with the skills they teach and the skills
// they have favorited.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	taught, err := s.store.ListSkillsByTutor(ctx, userID)
	if err != nil {
		return nil, err
	}
	favorites, err := s.favoriteSkills(ctx, userID)
	if err != nil {
		return nil, err
	}

	if taught == nil {
		taught = []domain.Skill{}
	}
	return &Profile{User: u, Skills: taught, Favorites: favorites}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		u.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		u.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if req.Bio != nil {
		u.Bio = strings.TrimSpace(*req.Bio)
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ToggleFavorite flips the favorite state of a skill and returns the
// resulting favorite skill ids.
func (s *Service) ToggleFavorite(ctx context.Context, userID, skillID int64) ([]int64, error) {
	if _, err := s.store.GetSkill(ctx, skillID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	if _, err := s.store.ToggleFavorite(ctx, userID, skillID); err != nil {
		return nil, err
	}
	ids, err := s.store.FavoriteSkillIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *Service) GetPublicProfile(ctx context.Context, id int64) (*PublicProfile, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPublic(u), nil
}

func (s *Service) favoriteSkills(ctx context.Context, userID int64) ([]domain.Skill, error) {
	ids, err := s.store.FavoriteSkillIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID, err := s.store.GetSkillsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Skill, 0, len(ids))
	for _, id := range ids {
		if sk, ok := byID[id]; ok {
			out = append(out, *sk)
		}
	}
	return out, nil
}

func (s *Service) issue(u *domain.User) (*AuthResult, error) {
	token, err := s.tokens.GenerateToken(u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
