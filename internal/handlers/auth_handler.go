package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "achievo/internal/errors"
	"achievo/internal/googleauth"
	"achievo/internal/middleware"
	"achievo/internal/models"
	"achievo/internal/services"
)

const oauthStateCookie = "oauth_state"

// AuthHandler serves registration, login, token refresh and profile
// endpoints. The google provider is nil when delegated login is not
// configured.
type AuthHandler struct {
	users  services.UserServicer
	google *googleauth.Provider
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(users services.UserServicer, google *googleauth.Provider) *AuthHandler {
	return &AuthHandler{users: users, google: google}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type updateProfileRequest struct {
	Username   string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Email      string `json:"email" binding:"omitempty,email"`
	ProfilePic string `json:"profile_pic" binding:"omitempty,url"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type deleteAccountRequest struct {
	Confirm string `json:"confirm" binding:"required"`
}

// issueTokens generates an access/refresh pair and stores the refresh
// token hash server-side so logout can revoke it.
func (h *AuthHandler) issueTokens(c *gin.Context, user *models.User) (gin.H, error) {
	accessToken, err := middleware.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refreshToken, err := middleware.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := h.users.SetRefreshTokenHash(c.Request.Context(), user.ID, middleware.HashToken(refreshToken)); err != nil {
		return nil, err
	}
	return gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	}, nil
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.issueTokens(c, user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, "Registration successful", data)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.issueTokens(c, user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Login successful", data)
}

// Refresh handles POST /auth/refresh: validates the refresh token
// against the stored hash and rotates the pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}
	userID, err := parseObjectID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	user, err := h.users.VerifyRefreshHash(c.Request.Context(), userID, middleware.HashToken(req.RefreshToken))
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.issueTokens(c, user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Token refreshed", data)
}

// Logout handles POST /auth/logout: clears the stored refresh hash so
// the outstanding refresh token is rejected from now on.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	if err := h.users.ClearRefreshToken(c.Request.Context(), userID); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Logged out", nil)
}

// GoogleLogin handles GET /auth/google/login: redirects to the Google
// consent page with a CSRF state cookie.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil {
		respondWithError(c, apperrors.ErrGoogleAuthDisabled)
		return
	}
	state := uuid.New().String()
	c.SetCookie(oauthStateCookie, state, 300, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback handles GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil {
		respondWithError(c, apperrors.ErrGoogleAuthDisabled)
		return
	}

	savedState, err := c.Cookie(oauthStateCookie)
	if err != nil || savedState == "" || c.Query("state") != savedState {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrGoogleAuthFailed, "Invalid login state. Please try again."))
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		respondWithError(c, apperrors.ErrGoogleAuthFailed)
		return
	}

	info, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrGoogleAuthFailed, err))
		return
	}

	user, err := h.users.ResolveGoogleUser(c.Request.Context(), info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := h.issueTokens(c, user)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Login successful", data)
}

// GetProfile handles GET /auth/profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "", gin.H{"user": user, "has_password": user.HasLocalPassword()})
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, req.Username, req.Email, req.ProfilePic)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Profile updated", gin.H{"user": user})
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Password changed", nil)
}

// DeleteAccount handles DELETE /account.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	if err := h.users.DeleteAccount(c.Request.Context(), userID, req.Confirm); err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, "Account deleted", nil)
}
