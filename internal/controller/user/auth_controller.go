package user

import (
	"errors"
	"net/http"

	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/middleware"
	"github.com/cortexamp/api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Signup godoc
// @Summary Create an account
// @Description Registers a new account and returns a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupDTO true "Account data"
// @Success 201 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Signup(req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Signup: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to create account"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in
// @Description Exchanges credentials for a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: err.Error()})
			return
		}
		log.Error().Err(err).Msg("Login: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log in"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ProfileResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthenticated"
// @Router /profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	resp, err := c.authService.GetProfile(middleware.UserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Account not found"})
			return
		}
		log.Error().Err(err).Msg("GetProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load profile"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Description Updates display name, skill level, or timezone. Omitted fields are left unchanged.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileDTO true "Fields to update"
// @Success 200 {object} dto.ProfileResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Unauthenticated"
// @Router /profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req dto.UpdateProfileDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.UpdateProfile(middleware.UserID(ctx), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Account not found"})
			return
		}
		log.Error().Err(err).Msg("UpdateProfile: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to update profile"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
