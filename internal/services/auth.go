package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/kennethlove/practice-pycon/internal/domain"
)

const (
	minPasswordLen = 8

	// defaultListName is the list every new account starts with.
	defaultListName = "To Attend"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	users       domain.UserRepository
	lists       domain.TalkListRepository
	hasher      domain.PasswordHasher
	tokens      domain.TokenIssuer
	email       domain.EmailService
	logger      *slog.Logger
	tokenExpiry time.Duration
}

// NewAuthService creates an AuthService. The email service may be backed by a
// noop mailer; welcome mail failures never fail the sign-up.
func NewAuthService(users domain.UserRepository, lists domain.TalkListRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, email domain.EmailService, logger *slog.Logger, tokenExpiry time.Duration) domain.AuthService {
	return &authService{
		users:       users,
		lists:       lists,
		hasher:      hasher,
		tokens:      tokens,
		email:       email,
		logger:      logger,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	ve := &domain.ValidationError{}
	if !emailRegexp.MatchString(email) {
		ve.Add("email", "invalid email format")
	}
	if len(password) < minPasswordLen {
		ve.Add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	if !ve.Empty() {
		return nil, ve
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(email, strings.TrimSpace(name), time.Now().UTC())
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.NewValidationError("email", domain.ErrDuplicateEmail.Error())
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Every account starts with a default list. If the list cannot be
	// created, remove the user row again so a retry with the same email
	// does not hit the duplicate check.
	list := domain.NewTalkList(user.ID, defaultListName, time.Now().UTC())
	if err := s.lists.Create(ctx, list); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "sign-up cleanup failed", "user_id", user.ID, "err", delErr)
		}
		return nil, fmt.Errorf("create default list: %w", err)
	}

	if err := s.email.SendWelcomeMessage(ctx, &domain.WelcomeEmailData{
		Email:    user.Email,
		Name:     user.Name,
		ListName: defaultListName,
	}); err != nil {
		s.logger.WarnContext(ctx, "welcome email failed", "email", user.Email, "err", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
