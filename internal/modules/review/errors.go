package review

import "campuscollab/internal/pkg/apperror"

var (
	ErrBookingNotFound = apperror.NotFound("Booking not found")
	ErrReviewNotFound  = apperror.NotFound("Review not found")
	ErrNotReviewer     = apperror.Forbidden("Not authorized to review this booking")
	ErrNotAuthor       = apperror.Forbidden("Not authorized to modify this review")
	ErrNotCompleted    = apperror.InvalidOperation("Can only review completed bookings")
	ErrAlreadyReviewed = apperror.Conflict("You have already reviewed this booking")
)
