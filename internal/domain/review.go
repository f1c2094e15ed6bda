package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

type Review struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	SkillID   int64     `json:"skillId"`
	StudentID int64     `json:"studentId"`
	TutorID   int64     `json:"tutorId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Upvotes   []int64   `json:"upvotes"`
	Downvotes []int64   `json:"downvotes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Student *UserSummary `json:"student,omitempty"`
}

// Vote puts userID into exactly one of the vote sets. Voting the same way
// twice leaves the review unchanged.
func (r *Review) Vote(userID int64, v VoteType) {
	r.Upvotes = without(r.Upvotes, userID)
	r.Downvotes = without(r.Downvotes, userID)
	switch v {
	case VoteUp:
		r.Upvotes = append(r.Upvotes, userID)
	case VoteDown:
		r.Downvotes = append(r.Downvotes, userID)
	}
}

func (r *Review) VoteCounts() (up, down int) {
	return len(r.Upvotes), len(r.Downvotes)
}

func without(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
