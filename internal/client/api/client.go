package api

import (
	"context"

	"github.com/pitchview/client/internal/client/models"
)

// Client is the backend auth API surface the rest of the client depends on.
type Client interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, accessToken string) (*models.User, error)
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword, confirmPassword string) (*ChangePasswordResponse, error)

	CheckToken(ctx context.Context, token string) (*TokenInfo, error)
	VerifyEmail(ctx context.Context, token string) (*VerifyEmailResponse, error)
	RegenerateVerification(ctx context.Context, email string) (*RegenerateResponse, error)
	ResendVerification(ctx context.Context, email string) error

	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword, confirmPassword string) (*ResetConfirmResponse, error)
}

type LoginResponse struct {
	models.TokenPair
	User models.User `json:"user"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResponse struct {
	User                  models.User `json:"user"`
	Message               string      `json:"message"`
	VerificationEmailSent bool        `json:"verification_email_sent"`
	RequiresVerification  bool        `json:"requires_verification"`
}

// TokenInfo is the check-token pre-check result: whether the token belongs
// to an account and whether that account is already verified.
type TokenInfo struct {
	TokenValid bool             `json:"token_valid"`
	IsVerified bool             `json:"is_verified"`
	User       *models.Identity `json:"user"`
}

type VerifyEmailResponse struct {
	models.TokenPair
	Detail string           `json:"detail"`
	User   *models.Identity `json:"user"`
}

type RegenerateResponse struct {
	Detail          string           `json:"detail"`
	AlreadyVerified bool             `json:"already_verified"`
	VerificationURL string           `json:"verification_url"`
	User            *models.Identity `json:"user"`
}

type ChangePasswordResponse struct {
	models.TokenPair
	Detail string `json:"detail"`
}

type ResetConfirmResponse struct {
	models.TokenPair
	Detail string       `json:"detail"`
	User   *models.User `json:"user"`
}
