package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cortexamp/api/config"
	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/guidance"
	"github.com/cortexamp/api/internal/model"
	"github.com/cortexamp/api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 72 * time.Hour

// AuthService covers signup, login, and profile management.
type AuthService interface {
	Signup(req dto.SignupDTO) (*dto.TokenResponse, error)
	Login(req dto.LoginDTO) (*dto.TokenResponse, error)
	GetProfile(userID uint) (*dto.ProfileResponse, error)
	UpdateProfile(userID uint, req dto.UpdateProfileDTO) (*dto.ProfileResponse, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	cfg         *config.Config
}

func NewAuthService(profileRepo repository.ProfileRepository, cfg *config.Config) AuthService {
	return &authService{profileRepo: profileRepo, cfg: cfg}
}

func (s *authService) Signup(req dto.SignupDTO) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	skillLevel := req.SkillLevel
	if skillLevel == "" {
		skillLevel = guidance.SkillBeginner
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	profile := model.Profile{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  req.DisplayName,
		SkillLevel:   skillLevel,
		Timezone:     timezone,
	}
	if err := s.profileRepo.Create(&profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("error creating profile: %w", err)
	}

	log.Info().Uint("userID", profile.ID).Msg("New account created")
	return s.tokenResponse(&profile)
}

func (s *authService) Login(req dto.LoginDTO) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := s.profileRepo.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	if profile == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokenResponse(profile)
}

func (s *authService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching profile %d: %w", userID, err)
	}

	var resp dto.ProfileResponse
	copier.Copy(&resp, profile)
	return &resp, nil
}

// UpdateProfile applies only the fields present in the request; nil pointers
// leave the stored value alone.
func (s *authService) UpdateProfile(userID uint, req dto.UpdateProfileDTO) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching profile %d: %w", userID, err)
	}

	if req.DisplayName != nil {
		profile.DisplayName = req.DisplayName
	}
	if req.SkillLevel != nil {
		profile.SkillLevel = *req.SkillLevel
	}
	if req.Timezone != nil {
		profile.Timezone = *req.Timezone
	}

	if err := s.profileRepo.Update(profile); err != nil {
		return nil, fmt.Errorf("error updating profile %d: %w", userID, err)
	}

	var resp dto.ProfileResponse
	copier.Copy(&resp, profile)
	return &resp, nil
}

func (s *authService) tokenResponse(profile *model.Profile) (*dto.TokenResponse, error) {
	claims := jwt.MapClaims{
		"user_id":  profile.ID,
		"is_admin": profile.IsAdmin,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	var p dto.ProfileResponse
	copier.Copy(&p, profile)
	return &dto.TokenResponse{Token: signed, Profile: p}, nil
}
