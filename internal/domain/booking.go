package domain

import (
	"time"

	"campuscollab/internal/pkg/apperror"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {},
	BookingCompleted: {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if it is a legal move from s.
func (s BookingStatus) Transition(next BookingStatus) (BookingStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, apperror.InvalidTransition(string(s), string(next))
	}
	return next, nil
}

type Booking struct {
	ID         int64         `json:"id"`
	SkillID    int64         `json:"skillId"`
	StudentID  int64         `json:"studentId"`
	TutorID    int64         `json:"tutorId"`
	Date       string        `json:"date"`
	StartTime  string        `json:"startTime"`
	EndTime    string        `json:"endTime"`
	TotalPrice float64       `json:"totalPrice"`
	Status     BookingStatus `json:"status"`
	Notes      string        `json:"notes,omitempty"`
	CreatedAt  time.Time     `json:"createdAt"`
	UpdatedAt  time.Time     `json:"updatedAt"`

	Skill   *SkillSummary `json:"skill,omitempty"`
	Student *UserSummary  `json:"student,omitempty"`
}

// IsParty reports whether userID is the student or the tutor of the booking.
func (b *Booking) IsParty(userID int64) bool {
	return b.StudentID == userID || b.TutorID == userID
}

// Interval returns the booking's [start,end) in minutes since midnight.
func (b *Booking) Interval() (int, int, error) {
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// Overlaps is the half-open interval test: [aStart,aEnd) and [bStart,bEnd)
// overlap iff aStart < bEnd and bStart < aEnd.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// FindConflict returns the first booking in existing whose interval overlaps
// [start,end), whatever its status.
func FindConflict(existing []Booking, start, end int) *Booking {
	for i := range existing {
		b := &existing[i]
		bs, be, err := b.Interval()
		if err != nil {
			continue
		}
		if Overlaps(bs, be, start, end) {
			return b
		}
	}
	return nil
}

// TotalPrice prices a booking of the given length against the skill's price
// per declared duration.
func TotalPrice(price float64, skillDuration, bookedMinutes int) float64 {
	if skillDuration <= 0 {
		return 0
	}
	return price * float64(bookedMinutes) / float64(skillDuration)
}

// BookingRequest is the validated input of the booking creator.
type BookingRequest struct {
	SkillID   int64
	Date      string
	StartTime string
	EndTime   string
	Notes     string
}

// PlanBooking applies the booking rules to a loaded skill and the bookings
// already placed on the same skill and date. On success it returns the
// pending booking to persist.
func PlanBooking(skill *Skill, requesterID int64, req BookingRequest, existing []Booking) (*Booking, error) {
	if skill.TutorID == requesterID {
		return nil, apperror.InvalidOperation("Cannot book your own skill")
	}

	start, err := ParseClock(req.StartTime)
	if err != nil {
		return nil, apperror.InvalidInput("Start time must be in HH:mm format")
	}
	end, err := ParseClock(req.EndTime)
	if err != nil {
		return nil, apperror.InvalidInput("End time must be in HH:mm format")
	}
	if end <= start {
		return nil, apperror.InvalidInput("End time must be after start time")
	}

	day, err := Weekday(req.Date)
	if err != nil {
		return nil, apperror.InvalidInput("Invalid date format")
	}
	if _, ok := skill.FindSlot(day, start, end); !ok {
		return nil, apperror.InvalidInput("Selected time slot is not available")
	}

	if FindConflict(existing, start, end) != nil {
		return nil, apperror.Conflict("Time slot is already booked")
	}

	return &Booking{
		SkillID:    skill.ID,
		StudentID:  requesterID,
		TutorID:    skill.TutorID,
		Date:       req.Date,
		StartTime:  FormatClock(start),
		EndTime:    FormatClock(end),
		TotalPrice: TotalPrice(skill.Price, skill.Duration, end-start),
		Status:     BookingPending,
		Notes:      req.Notes,
	}, nil
}
