package skill

import (
	"context"
	"errors"
	"strings"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

func (s *Service) Create(ctx context.Context, tutorID int64, req CreateSkillRequest) (*domain.Skill, error) {
	tutor, err := s.store.GetUser(ctx, tutorID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotTutor
	}
	if err != nil {
		return nil, err
	}
	if tutor.Role != domain.RoleTutor {
		return nil, ErrNotTutor
	}

	sk := &domain.Skill{
		TutorID:      tutorID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Category:     strings.TrimSpace(req.Category),
		Price:        *req.Price,
		Duration:     req.Duration,
		Location:     domain.Location(req.Location),
		Availability: toSlots(req.Availability),
	}
	if err := s.store.CreateSkill(ctx, sk); err != nil {
		return nil, err
	}
	sk.Tutor = tutor.Summary()
	return sk, nil
}

func (s *Service) List(ctx context.Context, q ListQuery, limit, offset int) ([]domain.Skill, int64, error) {
	list, total, err := s.store.ListSkills(ctx, store.SkillFilter{
		Search:    strings.TrimSpace(q.Search),
		Category:  q.Category,
		Location:  q.Location,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachTutors(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Skill, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	list := []domain.Skill{*sk}
	if err := s.attachTutors(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, req UpdateSkillRequest) (*domain.Skill, error) {
	sk, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if sk.TutorID != userID {
		return nil, ErrNotOwner
	}

	if req.Title != nil {
		sk.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		sk.Description = strings.TrimSpace(*req.Description)
	}
	if req.Category != nil {
		sk.Category = strings.TrimSpace(*req.Category)
	}
	if req.Price != nil {
		sk.Price = *req.Price
	}
	if req.Duration != nil {
		sk.Duration = *req.Duration
	}
	if req.Location != nil {
		sk.Location = domain.Location(*req.Location)
	}
	if req.Availability != nil {
		sk.Availability = toSlots(req.Availability)
	}

	if err := s.store.UpdateSkill(ctx, sk); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Delete removes the skill and every favorite that points at it.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	sk, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if sk.TutorID != userID {
		return ErrNotOwner
	}
	return s.store.DeleteSkill(ctx, id)
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Skill, error) {
	sk, err := s.store.GetSkill(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSkillNotFound
	}
	return sk, err
}

func (s *Service) attachTutors(ctx context.Context, list []domain.Skill) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(list))
	for _, sk := range list {
		ids = append(ids, sk.TutorID)
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range list {
		list[i].Tutor = users[list[i].TutorID].Summary()
	}
	return nil
}
