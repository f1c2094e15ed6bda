package review

import "campuscollab/internal/domain"

type CreateReviewRequest struct {
	BookingID int64  `json:"bookingId" binding:"required,gt=0"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"required,min=10,max=1000"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" binding:"omitempty,min=1,max=5"`
	Comment *string `json:"comment" binding:"omitempty,min=10,max=1000"`
}

type VoteRequest struct {
	VoteType domain.VoteType `json:"voteType" binding:"required,oneof=up down"`
}

type VoteCounts struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}
