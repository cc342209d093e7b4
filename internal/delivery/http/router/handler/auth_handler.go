// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"market/internal/delivery/http/response"
	domainerrors "market/internal/domain/errors"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Generic acknowledgements for the enumeration-sensitive endpoints. The same
// message is returned whether or not the account exists.
const (
	verificationSentMessage = "If an account exists for this address, a verification email has been sent"
	resetSentMessage        = "If an account exists for this address, a password reset email has been sent"
)

// emailRequest is the body of the endpoints that take only an email address.
type emailRequest struct {
	Email string `json:"email" validate:"required"`
}

// AuthHandler holds dependencies for the credential-lifecycle handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	// Field rules are checked by the usecase so every violation is reported
	// together, not just the first missing field.
	output, err := h.uc.Register(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output, "Registration successful, please verify your email")
}

// VerifyEmail handles the verification link target.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	token := c.Param("token")

	if err := h.uc.VerifyEmail(c.Request().Context(), token); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Email verified successfully")
}

// ResendVerification handles the request for a fresh verification email.
// A missing account is answered with the same generic success as the real
// case; "already verified" is deliberately surfaced.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var input emailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resend verification input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "MISSING_EMAIL", "Email is required")
	}

	err := h.uc.ResendVerificationEmail(c.Request().Context(), input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, verificationSentMessage)
}

// Login handles the login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "MISSING_FIELDS", "Email and password are required")
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "Login successful")
}

// RequestPasswordReset handles the reset-request. Account absence (and the
// unverified case) is suppressed into the generic success.
func (h *AuthHandler) RequestPasswordReset(c echo.Context) error {
	var input emailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "MISSING_EMAIL", "Email is required")
	}

	err := h.uc.RequestPasswordReset(c.Request().Context(), input.Email)
	if err != nil && !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, resetSentMessage)
}

// ResetPassword completes a password reset with the token from the link.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var input usecase.ResetPasswordInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid password reset input")
	}
	if err := c.Validate(&input); err != nil {
		return response.BadRequest(c, "MISSING_PASSWORD", "New password is required")
	}
	input.Token = c.Param("token")

	if err := h.uc.ResetPassword(c.Request().Context(), &input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password has been reset successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
