package repository

import (
	"context"
	"strings"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SkillRepository struct {
	db *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

type skillModel struct {
	ID           int64                                        `gorm:"column:id;primaryKey"`
	TutorID      int64                                        `gorm:"column:tutor_id;index;not null"`
	Title        string                                       `gorm:"column:title;size:100;not null"`
	Description  string                                       `gorm:"column:description;not null"`
	Category     string                                       `gorm:"column:category;index;not null"`
	Price        float64                                      `gorm:"column:price;not null"`
	Duration     int                                          `gorm:"column:duration;not null"`
	Location     string                                       `gorm:"column:location;not null"`
	Availability datatypes.JSONSlice[domain.AvailabilitySlot] `gorm:"column:availability"`
	Rating       float64                                      `gorm:"column:rating;not null;default:0"`
	ReviewCount  int                                          `gorm:"column:review_count;not null;default:0"`
	CreatedAt    time.Time                                    `gorm:"column:created_at;index"`
	UpdatedAt    time.Time                                    `gorm:"column:updated_at"`
}

func (skillModel) TableName() string { return "skills" }

func toDomainSkill(m skillModel) *domain.Skill {
	slots := []domain.AvailabilitySlot(m.Availability)
	if slots == nil {
		slots = []domain.AvailabilitySlot{}
	}
	return &domain.Skill{
		ID:           m.ID,
		TutorID:      m.TutorID,
		Title:        m.Title,
		Description:  m.Description,
		Category:     m.Category,
		Price:        m.Price,
		Duration:     m.Duration,
		Location:     domain.Location(m.Location),
		Availability: slots,
		Rating:       m.Rating,
		ReviewCount:  m.ReviewCount,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toSkillModel(s *domain.Skill) skillModel {
	return skillModel{
		ID:           s.ID,
		TutorID:      s.TutorID,
		Title:        s.Title,
		Description:  s.Description,
		Category:     s.Category,
		Price:        s.Price,
		Duration:     s.Duration,
		Location:     string(s.Location),
		Availability: datatypes.NewJSONSlice(s.Availability),
		Rating:       s.Rating,
		ReviewCount:  s.ReviewCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (r *SkillRepository) CreateSkill(ctx context.Context, s *domain.Skill) error {
	m := toSkillModel(s)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*s = *toDomainSkill(m)
	return nil
}

func (r *SkillRepository) GetSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	var m skillModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	return toDomainSkill(m), nil
}

// lockSkill loads the skill and holds its row until the transaction ends.
// SQLite ignores the locking clause; its single writer serializes instead.
func (r *SkillRepository) lockSkill(ctx context.Context, id int64) (*domain.Skill, error) {
	var m skillModel
	err := r.db.WithContext(ctx).
		Clauses(lockForUpdate).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return toDomainSkill(m), nil
}

func (r *SkillRepository) GetSkillsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Skill, error) {
	out := make(map[int64]*domain.Skill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []skillModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = toDomainSkill(m)
	}
	return out, nil
}

func (r *SkillRepository) UpdateSkill(ctx context.Context, s *domain.Skill) error {
	res := r.db.WithContext(ctx).Model(&skillModel{}).Where("id = ?", s.ID).Updates(map[string]any{
		"title":        s.Title,
		"description":  s.Description,
		"category":     s.Category,
		"price":        s.Price,
		"duration":     s.Duration,
		"location":     string(s.Location),
		"availability": datatypes.NewJSONSlice(s.Availability),
		"updated_at":   time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SkillRepository) DeleteSkill(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("skill_id = ?", id).Delete(&favoriteModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&skillModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrNotFound
		}
		return nil
	})
}

func (r *SkillRepository) ListSkills(ctx context.Context, f store.SkillFilter) ([]domain.Skill, int64, error) {
	q := r.db.WithContext(ctx).Model(&skillModel{})

	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Location != "" {
		q = q.Where("location = ?", f.Location)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []skillModel
	q = q.Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]domain.Skill, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainSkill(m))
	}
	return out, total, nil
}

func (r *SkillRepository) ListSkillsByTutor(ctx context.Context, tutorID int64) ([]domain.Skill, error) {
	var rows []skillModel
	err := r.db.WithContext(ctx).
		Where("tutor_id = ?", tutorID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Skill, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainSkill(m))
	}
	return out, nil
}
