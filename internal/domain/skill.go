package domain

import "time"

type Location string

const (
	LocationOnline   Location = "online"
	LocationInPerson Location = "in-person"
	LocationHybrid   Location = "hybrid"
)

func (l Location) Valid() bool {
	switch l {
	case LocationOnline, LocationInPerson, LocationHybrid:
		return true
	}
	return false
}

// MinSkillDuration is the shortest bookable unit a tutor may declare, in minutes.
const MinSkillDuration = 15

// AvailabilitySlot is a weekly window in which a skill can be booked.
type AvailabilitySlot struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Contains reports whether [start,end) in minutes since midnight lies inside
// the slot on the given weekday.
func (s AvailabilitySlot) Contains(day string, start, end int) bool {
	if s.Day != day {
		return false
	}
	slotStart, err := ParseClock(s.StartTime)
	if err != nil {
		return false
	}
	slotEnd, err := ParseClock(s.EndTime)
	if err != nil {
		return false
	}
	return slotStart <= start && end <= slotEnd
}

type Skill struct {
	ID           int64              `json:"id"`
	TutorID      int64              `json:"tutorId"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Price        float64            `json:"price"`
	Duration     int                `json:"duration"`
	Location     Location           `json:"location"`
	Availability []AvailabilitySlot `json:"availability"`
	Rating       float64            `json:"rating"`
	ReviewCount  int                `json:"reviewCount"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`

	Tutor *UserSummary `json:"tutor,omitempty"`
}

// SkillSummary is the populated form of a skill reference on a booking.
type SkillSummary struct {
	ID       int64        `json:"id"`
	Title    string       `json:"title"`
	Price    float64      `json:"price"`
	Duration int          `json:"duration"`
	Tutor    *UserSummary `json:"tutor,omitempty"`
}

func (s *Skill) Summary() *SkillSummary {
	if s == nil {
		return nil
	}
	return &SkillSummary{ID: s.ID, Title: s.Title, Price: s.Price, Duration: s.Duration, Tutor: s.Tutor}
}

// FindSlot returns the first availability slot covering [start,end) on day.
func (s *Skill) FindSlot(day string, start, end int) (AvailabilitySlot, bool) {
	for _, slot := range s.Availability {
		if slot.Contains(day, start, end) {
			return slot, true
		}
	}
	return AvailabilitySlot{}, false
}
