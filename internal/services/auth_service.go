package services

import (
	"errors"
	"strings"

	"github.com/pursueapp/pursue/internal/db"
	"github.com/pursueapp/pursue/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var ErrEmailTaken = errors.New("email already registered")

type AuthUserStore interface {
	ExistsByNormalizedEmail(email string) (bool, error)
	FindByNormalizedEmail(email string) (models.User, error)
	FindByID(userID uint) (models.User, error)
	Create(user *models.User) error
	UpdateTimezone(userID uint, timezone string) error
	DeleteAccountAndOrphanEvents(userID uint) error
}

type AuthService struct {
	users AuthUserStore
}

func NewAuthService(users AuthUserStore) *AuthService {
	return &AuthService{users: users}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Timezone    string
}

func (service *AuthService) Register(input RegisterInput) (models.User, error) {
	email, password, err := NormalizeCredentials(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" || len(displayName) > maxDisplayNameLength {
		return models.User{}, ErrCredentialsInvalid
	}
	if _, err := LoadUserLocation(input.Timezone); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Tier:         models.TierFree,
		Timezone:     strings.TrimSpace(input.Timezone),
	}
	if err := service.users.Create(&user); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (service *AuthService) Login(emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentials(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, ErrCredentialsInvalid
	}

	user, err := service.users.FindByNormalizedEmail(email)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return models.User{}, ErrCredentialsInvalid
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(userID uint) (models.User, error) {
	return service.users.FindByID(userID)
}

// UpdateTimezone changes the wall-clock context for future period
// calculations. Entries already logged keep their canonical period keys.
func (service *AuthService) UpdateTimezone(userID uint, timezone string) error {
	if _, err := LoadUserLocation(timezone); err != nil {
		return err
	}
	return service.users.UpdateTimezone(userID, strings.TrimSpace(timezone))
}

func (service *AuthService) DeleteAccount(userID uint) error {
	return service.users.DeleteAccountAndOrphanEvents(userID)
}
