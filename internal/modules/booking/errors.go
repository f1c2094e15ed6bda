package booking

import "campuscollab/internal/pkg/apperror"

var (
	ErrSkillNotFound   = apperror.NotFound("Skill not found")
	ErrBookingNotFound = apperror.NotFound("Booking not found")
	ErrNotTutor        = apperror.Forbidden("Only the tutor can update booking status")
	ErrNotParty        = apperror.Forbidden("Not authorized to view this booking")
)
