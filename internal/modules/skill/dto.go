package skill

import "campuscollab/internal/domain"

type SlotInput struct {
	Day       string `json:"day" binding:"required,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm,clockafter=StartTime"`
}

type CreateSkillRequest struct {
	Title        string      `json:"title" binding:"required,max=100"`
	Description  string      `json:"description" binding:"required"`
	Category     string      `json:"category" binding:"required"`
	Price        *float64    `json:"price" binding:"required,gte=0"`
	Duration     int         `json:"duration" binding:"required,gte=15"`
	Location     string      `json:"location" binding:"required,oneof=online in-person hybrid"`
	Availability []SlotInput `json:"availability" binding:"required,min=1,dive"`
}

// UpdateSkillRequest carries a partial update. A nil field is left as is;
// a non-nil empty availability list is rejected.
type UpdateSkillRequest struct {
	Title        *string     `json:"title" binding:"omitempty,min=1,max=100"`
	Description  *string     `json:"description" binding:"omitempty,min=1"`
	Category     *string     `json:"category" binding:"omitempty,min=1"`
	Price        *float64    `json:"price" binding:"omitempty,gte=0"`
	Duration     *int        `json:"duration" binding:"omitempty,gte=15"`
	Location     *string     `json:"location" binding:"omitempty,oneof=online in-person hybrid"`
	Availability []SlotInput `json:"availability" binding:"omitempty,min=1,dive"`
}

type ListQuery struct {
	Search    string   `form:"search"`
	Category  string   `form:"category"`
	Location  string   `form:"location" binding:"omitempty,oneof=online in-person hybrid"`
	MinPrice  *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
	MinRating *float64 `form:"rating" binding:"omitempty,gte=0,lte=5"`
}

func toSlots(in []SlotInput) []domain.AvailabilitySlot {
	out := make([]domain.AvailabilitySlot, len(in))
	for i, s := range in {
		out[i] = domain.AvailabilitySlot{Day: s.Day, StartTime: s.StartTime, EndTime: s.EndTime}
	}
	return out
}
