// Package httpapi exposes the authentication flow over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/avelkers/carwash/internal/common"
	"github.com/avelkers/carwash/internal/logging"
	"github.com/avelkers/carwash/internal/server/models"
	"github.com/avelkers/carwash/internal/server/ratelimit"
	"github.com/avelkers/carwash/internal/server/services"
)

// AuthService is the service-layer surface the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, fullname, email, phone, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*models.User, error)
}

// Handler carries the dependencies of the /auth endpoints.
type Handler struct {
	auth    AuthService
	limiter ratelimit.Limiter
	log     logging.Logger
}

// NewHandler constructs a Handler.
func NewHandler(auth AuthService, limiter ratelimit.Limiter, log logging.Logger) *Handler {
	return &Handler{auth: auth, limiter: limiter, log: log}
}

type RegisterRequest struct {
	Fullname    string `json:"fullname" binding:"required,max=70"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func userResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Fullname:    u.FullName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        string(u.Role),
	}
}

func tokenResponse(p *services.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "bearer",
	}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Fullname, req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userResponse(user))
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.limiter.Allow(c.Request.Context(), c.ClientIP()+":"+req.Email); err != nil {
		if errors.Is(err, common.ErrRateLimited) {
			h.respondError(c, err)
			return
		}
		// The throttle backend being down must not lock every account out.
		h.log.Warn(c.Request.Context(), "login throttle unavailable", "error", err.Error())
	}

	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(pair))
}

// Refresh handles POST /auth/refresh. The refresh token arrives in the
// Authorization header; there is no body.
func (h *Handler) Refresh(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Missing refresh token"})
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse(pair))
}

// Logout handles POST /auth/logout. Always succeeds once the token decodes;
// revoking an unknown session is a no-op.
func (h *Handler) Logout(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Missing refresh token"})
		return
	}

	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Logged out"})
}

// Me handles GET /auth/me. Requires a valid access token (see Authenticate).
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetInt64(ctxUserID)

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, userResponse(user))
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme match is case-insensitive.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// respondValidationError maps binding failures to 422 with per-field detail.
func respondValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": details})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request body"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	default:
		return "Invalid value"
	}
}

// respondError maps service errors onto the HTTP error taxonomy. Token
// failures of all kinds collapse to 401 so responses do not reveal which
// check failed.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"detail": "Email already in use"})
	case errors.Is(err, common.ErrPhoneTaken):
		c.JSON(http.StatusConflict, gin.H{"detail": "Phone already in use"})
	case errors.Is(err, common.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid email or password"})
	case errors.Is(err, common.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
	case errors.Is(err, common.ErrNotRefresh):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not a refresh token"})
	case errors.Is(err, common.ErrSessionRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Refresh token revoked"})
	case errors.Is(err, common.ErrSessionExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Refresh token expired"})
	case errors.Is(err, common.ErrUserDisabled):
		c.JSON(http.StatusForbidden, gin.H{"detail": "User disabled"})
	case errors.Is(err, common.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many attempts"})
	default:
		h.log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}
