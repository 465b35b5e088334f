package usecase

import (
	"context"
	"testing"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerRequest(email string) *dto.RegisterPatientRequest {
	return &dto.RegisterPatientRequest{
		Email:       email,
		Password:    "password123",
		FullName:    "Rina Wijaya",
		DateOfBirth: "1995-04-17",
		Gender:      "F",
	}
}

func TestRegisterPatient(t *testing.T) {
	pinClock(t, clinicMonday.Add(8*time.Hour))
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "PAT-202506-001", resp.PatientID)
	assert.Equal(t, "patient", resp.User.Role)
	assert.Equal(t, resp.PatientID, resp.User.PatientID)

	_, err = h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	req := registerRequest("baby@example.com")
	req.DateOfBirth = "2030-01-01"
	_, err = h.auth.RegisterPatient(ctx, req)
	assert.ErrorIs(t, err, ErrDateOfBirthInFuture)
}

func TestLoginAndRefresh(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	registered, err := h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", login.Token.TokenType)
	assert.Equal(t, int64(900), login.Token.ExpiresIn)
	assert.Equal(t, registered.PatientID, login.User.PatientID)
	assert.Equal(t, 2, h.tokens.Len())

	rotated, err := h.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.Token.RefreshToken, rotated.RefreshToken)

	// Refresh tokens are single use.
	_, err = h.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = h.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.AccessToken})
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = h.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, ErrInvalidToken)

	logs, total, err := h.auditLogs.ListAuditLogs(ctx, entity.AuditLogFilter{Action: entity.AuditActionUserLogin}, entity.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, logs, 1)
}

func TestLogin_InactiveUser(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	registered, err := h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	require.NoError(t, err)
	require.NoError(t, h.db.Model(&entity.User{}).Where("id = ?", registered.User.ID).Update("is_active", false).Error)

	_, err = h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestChangePassword_RevokesSessions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	registered, err := h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	require.NoError(t, err)
	userID := registered.User.ID

	login, err := h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "password123"})
	require.NoError(t, err)

	err = h.auth.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{OldPassword: "not-it", NewPassword: "new-password"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, h.auth.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{OldPassword: "password123", NewPassword: "new-password"}))
	assert.Equal(t, 0, h.tokens.Len())

	_, err = h.auth.RefreshToken(ctx, &dto.RefreshTokenRequest{RefreshToken: login.Token.RefreshToken})
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, err = h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	registered, err := h.auth.RegisterPatient(ctx, registerRequest("rina@example.com"))
	require.NoError(t, err)
	login, err := h.auth.Login(ctx, &dto.LoginRequest{Email: "rina@example.com", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, 2, h.tokens.Len())

	me, err := h.auth.GetCurrentUser(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "rina@example.com", me.Email)

	claims, err := h.jwt.ValidateToken(login.Token.AccessToken)
	require.NoError(t, err)
	require.NoError(t, h.auth.Logout(ctx, registered.User.ID, claims.TokenID, &dto.LogoutRequest{RefreshToken: login.Token.RefreshToken}))
	assert.Equal(t, 0, h.tokens.Len())
}
