package dto

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Country   *string `json:"country"`
	City      *string `json:"city"`
}

type AssignRolesRequest struct {
	Roles []string `json:"roles"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type AnalyticsOverviewResponse struct {
	Users                int64 `json:"users"`
	CompletedAssessments int64 `json:"completed_assessments"`
	Events               int64 `json:"events"`
	ActiveBookings       int64 `json:"active_bookings"`
	CreditsOutstanding   int64 `json:"credits_outstanding"`
}
