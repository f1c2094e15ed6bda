package docstore

import (
	"context"
	"strings"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"
)

func (s *Store) CreateSkill(ctx context.Context, sk *domain.Skill) error {
	id, err := s.nextID(ctx, "skill")
	if err != nil {
		return err
	}
	sk.ID = id
	sk.CreatedAt = now()
	sk.UpdatedAt = sk.CreatedAt
	sk.Tutor = nil
	if sk.Availability == nil {
		sk.Availability = []domain.AvailabilitySlot{}
	}
	if err := s.putDoc(ctx, s.key("skill", id), sk); err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, s.key("skills"), zMember(sk.CreatedAt, id))
	pipe.ZAdd(ctx, s.key("tutor", sk.TutorID, "skills"), zMember(sk.CreatedAt, id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	var sk domain.Skill
	if err := s.getDoc(ctx, s.key("skill", id), &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

func (s *Store) GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key("skill", id))
	}
	docs, err := getDocs[domain.Skill](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]*domain.Skill, len(docs))
	for i := range docs {
		out[docs[i].ID] = &docs[i]
	}
	return out, nil
}

func (s *Store) UpdateSkill(ctx context.Context, sk *domain.Skill) error {
	current, err := s.GetSkill(ctx, sk.ID)
	if err != nil {
		return err
	}
	current.Title = sk.Title
	current.Description = sk.Description
	current.Category = sk.Category
	current.Price = sk.Price
	current.Duration = sk.Duration
	current.Location = sk.Location
	current.Availability = sk.Availability
	current.UpdatedAt = now()
	return s.putDoc(ctx, s.key("skill", sk.ID), current)
}

func (s *Store) DeleteSkill(ctx context.Context, id int64) error {
	sk, err := s.GetSkill(ctx, id)
	if err != nil {
		return err
	}

	byKey := s.key("skill", id, "favoredby")
	users, err := s.rdb.SMembers(ctx, byKey).Result()
	if err != nil {
		return err
	}

	pipe := s.rdb.TxPipeline()
	for _, uid := range users {
		pipe.ZRem(ctx, s.key("user", uid, "favorites"), id)
	}
	pipe.Del(ctx, byKey, s.key("skill", id))
	pipe.ZRem(ctx, s.key("skills"), id)
	pipe.ZRem(ctx, s.key("tutor", sk.TutorID, "skills"), id)
	_, err = pipe.Exec(ctx)
	return err
}

// ListSkills filters in memory over the newest-first index.
func (s *Store) ListSkills(ctx context.Context, f store.SkillFilter) ([]domain.Skill, int64, error) {
	all, err := s.skillsFromIndex(ctx, s.key("skills"))
	if err != nil {
		return nil, 0, err
	}

	matched := make([]domain.Skill, 0, len(all))
	for _, sk := range all {
		if skillMatches(sk, f) {
			matched = append(matched, sk)
		}
	}

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	start := f.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *Store) ListSkillsByTutor(ctx context.Context, tutorID int64) ([]domain.Skill, error) {
	return s.skillsFromIndex(ctx, s.key("tutor", tutorID, "skills"))
}

func (s *Store) skillsFromIndex(ctx context.Context, index string) ([]domain.Skill, error) {
	raw, err := s.rdb.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(raw))
	for _, id := range raw {
		keys = append(keys, s.key("skill", id))
	}
	skills, err := getDocs[domain.Skill](ctx, s.rdb, keys)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []domain.Skill{}
	}
	return skills, nil
}

func skillMatches(sk domain.Skill, f store.SkillFilter) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(sk.Title), q) &&
			!strings.Contains(strings.ToLower(sk.Description), q) {
			return false
		}
	}
	if f.Category != "" && sk.Category != f.Category {
		return false
	}
	if f.Location != "" && string(sk.Location) != f.Location {
		return false
	}
	if f.MinPrice != nil && sk.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && sk.Price > *f.MaxPrice {
		return false
	}
	if f.MinRating != nil && sk.Rating < *f.MinRating {
		return false
	}
	return true
}
