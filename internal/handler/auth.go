package handler

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/property-rental/internal/config"
	"github.com/iliyamo/property-rental/internal/model"
	"github.com/iliyamo/property-rental/internal/repository"
	"github.com/iliyamo/property-rental/internal/utils"
)

// AuthHandler owns registration, login and refresh-token rotation.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewAuthHandler(cfg config.Config, users *repository.UserRepo, tokens *repository.TokenRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Tokens: tokens}
}

type registerReq struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Role      string `json:"role" validate:"omitempty,oneof=guest host"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// tokenPair is the shape every successful auth response carries.
type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"expiresAt"` // unix seconds of access token expiry
}

// issueTokens creates a new access/refresh pair and persists the refresh hash.
func (h *AuthHandler) issueTokens(c echo.Context, userID uint64, role string) (*tokenPair, error) {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, userID, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return nil, err
	}
	if err := h.Tokens.StoreRefresh(c.Request().Context(), userID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return nil, err
	}
	return &tokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp.Unix(),
	}, nil
}

// Register creates a user account. Role defaults to "guest" when omitted;
// hosts must register with role "host" explicitly to list properties.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = model.RoleGuest
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration payload"})
	}

	id, err := h.Users.Create(c.Request().Context(), req.Email, req.Password, req.FirstName, req.LastName, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
		}
		c.Logger().Errorf("register: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create account"})
	}

	pair, err := h.issueTokens(c, id, req.Role)
	if err != nil {
		c.Logger().Errorf("register tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "account created",
		"userId":  id,
		"tokens":  pair,
	})
}

// Login verifies credentials and issues a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	u, err := h.Users.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		c.Logger().Errorf("login lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not sign in"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	pair, err := h.issueTokens(c, u.ID, u.Role)
	if err != nil {
		c.Logger().Errorf("login tokens: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "signed in",
		"userId":  u.ID,
		"role":    u.Role,
		"tokens":  pair,
	})
}

// Refresh rotates a refresh token: the presented token is retired and a new
// pair issued, atomically. A revoked or expired token yields 401. A token
// that was already spent when the rotation ran means reuse — a double-submit
// or a stolen token racing its owner — and every session of the account is
// revoked before the 401 goes out.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken is required"})
	}

	ctx := c.Request().Context()
	oldHash := utils.HashRefreshRaw(req.RefreshToken)
	userID, err := h.Tokens.ValidateRefresh(ctx, oldHash)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
		}
		c.Logger().Errorf("refresh validate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh session"})
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		c.Logger().Errorf("refresh user: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh session"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		c.Logger().Errorf("refresh access token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh session"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		c.Logger().Errorf("refresh token: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh session"})
	}

	err = h.Tokens.Rotate(ctx, u.ID, oldHash, utils.HashRefreshRaw(refresh.Raw), refresh.Exp)
	if err == sql.ErrNoRows {
		if rerr := h.Tokens.RevokeAllForUser(ctx, u.ID); rerr != nil {
			c.Logger().Errorf("refresh revoke-all: %v", rerr)
		}
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired refresh token"})
	}
	if err != nil {
		c.Logger().Errorf("refresh rotate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not refresh session"})
	}

	pair := &tokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Raw,
		ExpiresAt:    access.Exp.Unix(),
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "session refreshed", "tokens": pair})
}

// Logout revokes the presented refresh token. The access token simply ages out.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "refreshToken is required"})
	}
	if err := h.Tokens.RevokeByHash(c.Request().Context(), utils.HashRefreshRaw(req.RefreshToken)); err != nil {
		c.Logger().Errorf("logout: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not sign out"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	u, err := h.Users.GetByID(c.Request().Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		c.Logger().Errorf("me: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load profile"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":    u.ID,
		"email":     u.Email,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"role":      u.Role,
	})
}
