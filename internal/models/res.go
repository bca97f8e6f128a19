package models

// MessageResponse is the body of every error and of bare acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func ErrorResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}
