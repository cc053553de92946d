package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/KOTTAGENVH/courier-service-app/internal/auth"
	"github.com/KOTTAGENVH/courier-service-app/internal/domain"
)

const bcryptCost = 10

// AuthService handles account registration, credential checks, the
// password-reset flow, and seeding the configured admin account.
type AuthService struct {
	users     UserStore
	tokens    *auth.Manager
	mailer    Mailer
	clientURL string
	log       *zap.Logger
}

func NewAuthService(users UserStore, tokens *auth.Manager, mailer Mailer, clientURL string, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		clientURL: clientURL,
		log:       log,
	}
}

type RegisterInput struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Address         string `json:"address"`
	Telephone       string `json:"telephone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (in RegisterInput) validate() error {
	switch {
	case in.FirstName == "" || in.LastName == "" || in.Email == "" ||
		in.Address == "" || in.Telephone == "" || in.Password == "":
		return fmt.Errorf("%w: all fields are required", domain.ErrValidation)
	case !strings.Contains(in.Email, "@"):
		return fmt.Errorf("%w: invalid email", domain.ErrValidation)
	case len(in.Telephone) < 10 || len(in.Telephone) > 15:
		return fmt.Errorf("%w: telephone must be 10-15 characters", domain.ErrValidation)
	case in.Password != in.ConfirmPassword:
		return fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}
	return validatePassword(in.Password)
}

// validatePassword enforces the signup policy: 8-32 characters with at
// least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 || len(password) > 32 {
		return fmt.Errorf("%w: password must be 8-32 characters", domain.ErrValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password too weak, must contain letters and numbers", domain.ErrValidation)
	}
	return nil
}

// Register creates an account and issues the cookie token pair.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, auth.TokenPair, error) {
	if err := in.validate(); err != nil {
		return nil, auth.TokenPair{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	user := &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Address:      in.Address,
		Telephone:    in.Telephone,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, auth.TokenPair{}, err
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Login checks credentials and issues a fresh token pair. A missing
// account and a wrong password are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.TokenPair, error) {
	if email == "" || password == "" {
		return nil, auth.TokenPair{}, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil, auth.TokenPair{}, domain.ErrInvalidCredentials
		}
		return nil, auth.TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, auth.TokenPair{}, domain.ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// ForgotPassword mails a one-hour reset link. It deliberately gives no
// signal whether the account exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrNotFound {
			return nil
		}
		return err
	}

	token, err := s.tokens.IssueReset(user.Email)
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.clientURL, token)
	body := fmt.Sprintf(`<p>You requested a password reset. Click the link below to choose a new password:</p>
<a href=%q>%s</a>
<p>This link will expire in 1 hour.</p>`, resetURL, resetURL)

	if err := s.mailer.Send(user.Email, "Password Reset Request", body); err != nil {
		s.log.Error("reset mail delivery failed", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	return nil
}

// ResetPassword verifies a reset token and stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	email, err := s.tokens.VerifyReset(token)
	if err != nil {
		return err
	}
	if err := validatePassword(password); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

func (s *AuthService) Profile(ctx context.Context, email string) (*domain.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// SeedAdmin creates the configured admin account on startup if absent.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.log.Warn("admin email or password not set, skipping admin seed")
		return nil
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.log.Info("admin user already exists", zap.String("email", email))
		return nil
	} else if err != domain.ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		FirstName:    "Admin",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return err
	}

	s.log.Info("seeded admin user", zap.String("email", email))
	return nil
}
