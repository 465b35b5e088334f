package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/delivery/http/middleware"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
	}
}

// Register handles patient self registration
// @Summary Register a patient account
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterPatientRequest true "Register Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterPatientRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	registered, err := h.authUsecase.RegisterPatient(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to register patient")
		return
	}

	response.Success(w, http.StatusCreated, "Patient registered successfully", registered)
}

// Login handles user login
// @Summary Login user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	login, err := h.authUsecase.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to login")
		return
	}

	response.Success(w, http.StatusOK, "Login successful", login)
}

// RefreshToken rotates the token pair
// @Summary Refresh access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshTokenRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	tokens, err := h.authUsecase.RefreshToken(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to refresh token")
		return
	}

	response.Success(w, http.StatusOK, "Token refreshed successfully", tokens)
}

// Logout revokes the current access token and, when given, the refresh token
// @Summary Logout user
// @Tags Auth
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	tokenID, _ := middleware.GetTokenIDFromContext(r.Context())

	// The body is optional.
	var req dto.LogoutRequest
	if r.ContentLength > 0 && !bind(w, r, h.validator, &req) {
		return
	}

	if err := h.authUsecase.Logout(r.Context(), userID, tokenID, &req); err != nil {
		writeError(w, err, "Failed to logout")
		return
	}

	response.Success(w, http.StatusOK, "Logout successful", nil)
}

// GetCurrentUser returns the caller with its linked profile IDs
// @Summary Current user
// @Tags Auth
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	user, err := h.authUsecase.GetCurrentUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req dto.ChangePasswordRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	if err := h.authUsecase.ChangePassword(r.Context(), userID, &req); err != nil {
		writeError(w, err, "Failed to change password")
		return
	}

	response.Success(w, http.StatusOK, "Password changed successfully, please login again", nil)
}
