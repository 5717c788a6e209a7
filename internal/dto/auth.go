package dto

// LoginRequest represents the credentials supplied to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleSignInRequest carries a Google ID token for verification.
type GoogleSignInRequest struct {
	IDToken string `json:"idToken" binding:"required"`
}

// GoogleExchangeCodeRequest carries an OAuth authorization code from the
// redirect flow.
type GoogleExchangeCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RefreshTokenResponse represents the response for a successful token refresh.
type RefreshTokenResponse struct {
	Token string `json:"token"`
}
