package user

import "campuscollab/internal/pkg/apperror"

var (
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
	ErrEmailAlreadyExists = apperror.Conflict("User already exists")
	ErrUserNotFound       = apperror.NotFound("User not found")
	ErrSkillNotFound      = apperror.NotFound("Skill not found")
)
