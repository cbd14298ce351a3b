package service

import (
	"testing"

	"github.com/cortexamp/api/config"
	"github.com/cortexamp/api/internal/dto"
	"github.com/cortexamp/api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) AuthService {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	return NewAuthService(repository.NewProfileRepository(db), cfg)
}

func TestSignup_CreatesAccountAndToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Signup(dto.SignupDTO{Email: "Alex@Example.com", Password: "longenough", SkillLevel: "intermediate"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alex@example.com", resp.Profile.Email)
	assert.Equal(t, "intermediate", resp.Profile.SkillLevel)
	assert.False(t, resp.Profile.IsAdmin)

	// Token claims carry the identity.
	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.Token, claims, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, resp.Profile.ID, claims["user_id"])
	assert.Equal(t, false, claims["is_admin"])
}

func TestSignup_DefaultsSkillLevelAndTimezone(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	resp, err := svc.Signup(dto.SignupDTO{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, "beginner", resp.Profile.SkillLevel)
	assert.Equal(t, "UTC", resp.Profile.Timezone)
}

func TestSignup_EmailTaken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Signup(dto.SignupDTO{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)

	_, err = svc.Signup(dto.SignupDTO{Email: "A@B.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Signup(dto.SignupDTO{Email: "a@b.com", Password: "correct-horse"})
	require.NoError(t, err)

	resp, err := svc.Login(dto.LoginDTO{Email: "a@b.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(dto.LoginDTO{Email: "a@b.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(dto.LoginDTO{Email: "nobody@b.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	signup, err := svc.Signup(dto.SignupDTO{Email: "a@b.com", Password: "longenough", SkillLevel: "beginner"})
	require.NoError(t, err)

	level := "advanced"
	resp, err := svc.UpdateProfile(signup.Profile.ID, dto.UpdateProfileDTO{SkillLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, "advanced", resp.SkillLevel)
	// Untouched fields keep their values.
	assert.Equal(t, "UTC", resp.Timezone)
}
