// Account HTTP handlers.
//
// This file exposes REST endpoints for accounts:
//   - POST /auth/signup   (register a new account)
//   - POST /auth/login    (verify credentials)
//
// Password material never leaves the service layer; responses carry the
// public user profile only.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodtunes/go-mood-backend/internal/domain"
	"github.com/moodtunes/go-mood-backend/internal/services"
)

//
// DTOs
//

// SignupRequest is the JSON payload for registering an account.
type SignupRequest struct {
	// Name is the display name for the account.
	Name string `json:"name" binding:"required,min=1,max=100" example:"Maya"`
	// Email is the login identifier; stored lowercased.
	Email string `json:"email" binding:"required,email" example:"maya@example.com"`
	// Password must be at least 6 characters.
	Password string `json:"password" binding:"required,min=6" example:"sekret1"`
}

// LoginRequest is the JSON payload for verifying credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"maya@example.com"`
	Password string `json:"password" binding:"required" example:"sekret1"`
}

// UserResponse is the JSON envelope for account endpoints.
type UserResponse struct {
	User *domain.User `json:"user"`
}

//
// Handlers
//

// PostSignup godoc
// @ID          postSignup
// @Summary     Register a new account
// @Description Creates an account with a bcrypt-hashed password. Emails are
// @Description unique case-insensitively.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.SignupRequest  true  "Account payload"
//
// @Success     201  {object}  handlers.UserResponse   "Created account"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse  "Email already registered"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/signup [post]
func (h *Handlers) PostSignup(c *gin.Context) {
	ctx := c.Request.Context()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name, email and password required")
		return
	}

	u, err := h.authSvc.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrEmailTaken:
			fail(c, http.StatusConflict, ErrCodeConflict, "email already registered")
		case services.ErrWeakPassword:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password too short")
		case services.ErrInvalidCredentials:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid name or email")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusCreated, UserResponse{User: u})
}

// PostLogin godoc
// @ID          postLogin
// @Summary     Verify credentials
// @Description Checks email and password and returns the account profile.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials payload"
//
// @Success     200  {object}  handlers.UserResponse   "Authenticated account"
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Invalid credentials"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) PostLogin(c *gin.Context) {
	ctx := c.Request.Context()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	u, err := h.authSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidCredentials:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, UserResponse{User: u})
}
