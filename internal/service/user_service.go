package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/animania/internal/auth"
	"github.com/animania/internal/db"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService wraps user registration and credential checks.
type UserService struct {
	db       *gorm.DB
	hashCost int

	decoyOnce sync.Once
	decoyHash string
}

// RegisterInput holds registration fields. Role is only set by internal
// callers such as the admin bootstrap script; HTTP handlers leave it empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     db.Role
}

// NewUserService creates a UserService hashing with auth.DefaultHashCost.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb, hashCost: auth.DefaultHashCost}
}

// WithHashCost lowers or raises the bcrypt cost, mainly for tests.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates input, rejects duplicate emails and stores a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*db.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, invalid("name", "Le nom est requis")
	}
	if !emailPattern.MatchString(strings.TrimSpace(input.Email)) {
		return nil, invalid("email", "Adresse email invalide")
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, invalid("password", "Le mot de passe doit contenir au moins 6 caractères")
	}

	email := NormalizeEmail(input.Email)

	var count int64
	if err := s.db.WithContext(ctx).Model(&db.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := auth.HashPassword(input.Password, s.hashCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role != db.RoleAdmin {
		role = db.RoleUser
	}

	user := db.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Lost the race against a concurrent registration with the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate checks credentials. Unknown email and wrong password both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*db.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Unknown emails pay for one bcrypt compare, like a wrong password.
			auth.ComparePassword(s.decoy(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.ComparePassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// decoy returns a hash at the service's cost, computed on first use.
func (s *UserService) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := auth.HashPassword("animania-decoy-password", s.hashCost)
		if err == nil {
			s.decoyHash = hash
		}
	})
	return s.decoyHash
}

// FindByID loads a user by primary key.
func (s *UserService) FindByID(ctx context.Context, id uint) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads a user by normalized email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*db.User, error) {
	var user db.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
