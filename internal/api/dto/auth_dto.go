package dto

// LoginResponse is returned on successful login; the token travels in a cookie.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	FirstName string `json:"firstName"`
}

// AdminProfileResponse is returned by get-profile.
type AdminProfileResponse struct {
	FirstName string `json:"first_name"`
}

// MessageResponse carries a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
