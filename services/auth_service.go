package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/MUGAIRWA/HACKATHON2/models"
	"github.com/MUGAIRWA/HACKATHON2/utils"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("role must be student or donor")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService handles registration and login. Admin accounts are seeded
// out of band; self-signup only accepts student and donor roles.
type AuthService struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewAuthService(db *gorm.DB, log *slog.Logger) *AuthService {
	return &AuthService{db: db, log: log.With("component", "auth")}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"fullName" binding:"required"`
	Role     string `json:"role" binding:"required"`
	School   string `json:"school"`
	Grade    string `json:"grade"`
	Phone    string `json:"phone"`
}

// Register creates a profile and returns it with a signed token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.Profile, string, error) {
	role := strings.ToLower(strings.TrimSpace(input.Role))
	if role != models.RoleStudent && role != models.RoleDonor {
		return nil, "", ErrInvalidRole
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Profile{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", err
	}

	profile := models.Profile{
		Email:    email,
		Password: hashed,
		FullName: input.FullName,
		Role:     role,
		School:   input.School,
		Grade:    input.Grade,
		Phone:    input.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("profile registered", "user_id", profile.ID, "role", profile.Role)
	return &profile, token, nil
}

// Login verifies credentials and returns the profile with a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var profile models.Profile
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !utils.CheckPasswordHash(password, profile.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateJWT(profile.ID, profile.Email, profile.Role)
	if err != nil {
		return nil, "", err
	}
	return &profile, token, nil
}

// ProfileByID loads a profile for the authenticated user.
func (s *AuthService) ProfileByID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.WithContext(ctx).First(&profile, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

type ProfileUpdateInput struct {
	FullName string `json:"fullName"`
	School   string `json:"school"`
	Grade    string `json:"grade"`
	Phone    string `json:"phone"`
}

// UpdateProfile applies the editable profile fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*models.Profile, error) {
	profile, err := s.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.FullName != "" {
		profile.FullName = input.FullName
	}
	if input.School != "" {
		profile.School = input.School
	}
	if input.Grade != "" {
		profile.Grade = input.Grade
	}
	if input.Phone != "" {
		profile.Phone = input.Phone
	}
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateAvatar stores a base64 image in S3 and records the public URL.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID, base64Data string) (*models.Profile, error) {
	profile, err := s.ProfileByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := utils.UploadAvatar(base64Data, userID)
	if err != nil {
		return nil, err
	}
	profile.AvatarURL = url
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}
