package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"market/internal/delivery/http/middleware"
	httpvalidator "market/internal/delivery/http/validator"
	domainerrors "market/internal/domain/errors"
	mockUsecase "market/internal/mocks/usecase"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// newAuthTestServer wires an echo instance with the production error mapping
// so handler tests observe the same envelopes as real clients.
func newAuthTestServer(t *testing.T) (*echo.Echo, *mockUsecase.MockAuthUsecase) {
	t.Helper()

	uc := mockUsecase.NewMockAuthUsecase(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = httpvalidator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError

	h := NewAuthHandler(uc, logger)
	e.POST("/auth/register", h.Register)
	e.GET("/auth/verify-email/:token", h.VerifyEmail)
	e.POST("/auth/resend-verification", h.ResendVerification)
	e.POST("/auth/login", h.Login)
	e.POST("/auth/reset-password", h.RequestPasswordReset)
	e.POST("/auth/reset-password/:token", h.ResetPassword)

	return e, uc
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestAuthHandler_Register_ValidationEnvelope(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(nil, errors.WithStack(domainerrors.ErrValidationFailed.WithDetails(
			"email format is invalid",
			"password must contain a number",
		)))

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"email":"bad","username":"buyer_one","password":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "VALIDATION_FAILED")
	assert.Contains(t, body, "email format is invalid")
	assert.Contains(t, body, "password must contain a number")
}

func TestAuthHandler_ResendVerification_SuppressesUnknownAccount(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		ResendVerificationEmail(mock.Anything, "ghost@example.com").
		Return(errors.WithStack(domainerrors.ErrAccountNotFound))
	uc.EXPECT().
		ResendVerificationEmail(mock.Anything, "pending@example.com").
		Return(nil)

	unknown := doJSON(e, http.MethodPost, "/auth/resend-verification", `{"email":"ghost@example.com"}`)
	known := doJSON(e, http.MethodPost, "/auth/resend-verification", `{"email":"pending@example.com"}`)

	// Missing account and real resend are indistinguishable from outside.
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Contains(t, known.Body.String(), verificationSentMessage)
}

func TestAuthHandler_ResendVerification_AlreadyVerifiedIsSurfaced(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		ResendVerificationEmail(mock.Anything, "done@example.com").
		Return(errors.WithStack(domainerrors.ErrAlreadyVerified))

	rec := doJSON(e, http.MethodPost, "/auth/resend-verification", `{"email":"done@example.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ALREADY_VERIFIED")
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	e, uc := newAuthTestServer(t)
	_ = uc

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"","password":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_FIELDS")
}

// Requests with a JSON content type but no body at all skip echo's binder
// entirely; the handlers must still answer 400, never crash.
func TestAuthHandler_EmptyBodyIsBadRequest(t *testing.T) {
	cases := []struct {
		name   string
		target string
		code   string
	}{
		{name: "login", target: "/auth/login", code: "MISSING_FIELDS"},
		{name: "resend verification", target: "/auth/resend-verification", code: "MISSING_EMAIL"},
		{name: "reset request", target: "/auth/reset-password", code: "MISSING_EMAIL"},
		{name: "reset completion", target: "/auth/reset-password/some-token", code: "MISSING_PASSWORD"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, uc := newAuthTestServer(t)
			_ = uc

			rec := doJSON(e, http.MethodPost, tc.target, "")

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.code)
		})
	}
}

func TestAuthHandler_Login_InvalidCredentialsEnvelope(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		Login(mock.Anything, mock.AnythingOfType("*usecase.LoginInput")).
		Return(nil, errors.WithStack(domainerrors.ErrInvalidCredentials))

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"ghost@example.com","password":"WrongPass#1"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_CREDENTIALS")
	assert.Contains(t, rec.Body.String(), "invalid email or password")
}

func TestAuthHandler_RequestPasswordReset_SuppressesUnknownAccount(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		RequestPasswordReset(mock.Anything, "ghost@example.com").
		Return(errors.WithStack(domainerrors.ErrAccountNotFound))
	uc.EXPECT().
		RequestPasswordReset(mock.Anything, "buyer@example.com").
		Return(nil)

	unknown := doJSON(e, http.MethodPost, "/auth/reset-password", `{"email":"ghost@example.com"}`)
	known := doJSON(e, http.MethodPost, "/auth/reset-password", `{"email":"buyer@example.com"}`)

	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Contains(t, known.Body.String(), resetSentMessage)
}

func TestAuthHandler_ResetPassword_TokenFromPath(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		ResetPassword(mock.Anything, mock.AnythingOfType("*usecase.ResetPasswordInput")).
		Run(func(ctx context.Context, input *usecase.ResetPasswordInput) {
			assert.Equal(t, "reset-token-1", input.Token)
			assert.Equal(t, "Fresh#Start2024", input.Password)
		}).
		Return(nil)

	rec := doJSON(e, http.MethodPost, "/auth/reset-password/reset-token-1", `{"password":"Fresh#Start2024"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password has been reset successfully")
}

func TestAuthHandler_VerifyEmail_InvalidToken(t *testing.T) {
	e, uc := newAuthTestServer(t)

	uc.EXPECT().
		VerifyEmail(mock.Anything, "stale-token").
		Return(errors.WithStack(domainerrors.ErrInvalidOrExpiredToken))

	rec := doJSON(e, http.MethodGet, "/auth/verify-email/stale-token", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_OR_EXPIRED_TOKEN")
	// The envelope never says which of the two causes applied.
	assert.Contains(t, rec.Body.String(), "invalid or has expired")
}
