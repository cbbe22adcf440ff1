package auth

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"adminuser"`
	Password string `json:"password" validate:"required" example:"password123"`
}

// RegisterRequest is the registration payload. Roles are optional and
// default to ROLE_USER when omitted.
type RegisterRequest struct {
	Username string   `json:"username" validate:"required,min=3,max=50" example:"newuser"`
	Password string   `json:"password" validate:"required,min=8,max=100" example:"strongpassword123"`
	Roles    []string `json:"roles,omitempty" validate:"omitempty,dive,required" example:"ROLE_USER"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in" example:"3600"`
}
