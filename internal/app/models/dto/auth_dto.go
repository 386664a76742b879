package dto

// LoginRequest carries login credentials. Either username or email
// identifies the account.
type LoginRequest struct {
	Username string `json:"username" example:"jane.doe"`
	Email    string `json:"email" example:"jane.doe@school.edu.vn"`
	Password string `json:"password" binding:"required" example:"s3cret-pass1"`
}

// RefreshTokenRequest carries a refresh token for rotation.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse is returned after a successful login or refresh.
type TokenResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	TokenType        string `json:"tokenType" example:"Bearer"`
	ExpiresIn        int64  `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int64  `json:"refreshExpiresIn" example:"2592000"`
}
