package booking

type CreateBookingRequest struct {
	SkillID   int64  `json:"skillId" binding:"required,gt=0"`
	Date      string `json:"date" binding:"required,isodate,futuredate"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm,clockafter=StartTime"`
	Notes     string `json:"notes" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}

type ListQuery struct {
	Role string `form:"role" binding:"omitempty,oneof=student tutor"`
}
