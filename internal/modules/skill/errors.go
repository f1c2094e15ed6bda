package skill

import "campuscollab/internal/pkg/apperror"

var (
	ErrSkillNotFound = apperror.NotFound("Skill not found")
	ErrNotTutor      = apperror.Forbidden("Only tutors can create skills")
	ErrNotOwner      = apperror.Forbidden("Not authorized to modify this skill")
)
