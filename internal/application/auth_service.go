package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-auth-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/service"
	"github.com/oksasatya/go-ddd-auth-service/pkg/validation"
)

// Notifier receives best-effort account events. Errors are logged, never returned to callers.
type Notifier interface {
	AccountCreated(ctx context.Context, a *entity.Account) error
	SignedIn(ctx context.Context, a *entity.Account, at time.Time) error
}

// timingEqualizer is implemented by hashers that can spend a verification's
// worth of work when no account matched.
type timingEqualizer interface {
	Burn(ctx context.Context, plain string)
}

type Service struct {
	Repo     repo.AccountRepository
	Hasher   service.CredentialHasher
	Tokens   service.TokenIssuer
	Notifier Notifier
	Logger   *logrus.Logger

	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo repo.AccountRepository, hasher service.CredentialHasher, tokens service.TokenIssuer, notifier Notifier, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		Repo:     repo,
		Hasher:   hasher,
		Tokens:   tokens,
		Notifier: notifier,
		Logger:   logger,
		validate: validation.New(),
		now:      time.Now,
	}
}

type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
}

type SigninInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by Signup and Signin.
type AuthResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"-"`
	User      entity.Summary `json:"user"`
}

// NormalizeEmail is applied before every uniqueness check and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an account and issues its first token.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	log := s.Logger.WithField("op", "signup")

	if _, err := s.Repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repo.ErrAccountNotFound) {
		log.WithError(err).Error("account lookup failed")
		return nil, ErrInternal
	}

	hash, err := s.Hasher.Hash(ctx, in.Password)
	if err != nil {
		log.WithError(err).Error("password hash failed")
		return nil, ErrInternal
	}

	a := &entity.Account{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrConflict
		}
		log.WithError(err).Error("account create failed")
		return nil, ErrInternal
	}

	res, err := s.issue(a)
	if err != nil {
		log.WithError(err).WithField("account_id", a.ID).Error("token issue failed")
		return nil, ErrInternal
	}

	log.WithField("account_id", a.ID).Info("account created")
	s.notify(log, a.ID, func() error { return s.Notifier.AccountCreated(ctx, a) })
	return res, nil
}

// Signin verifies credentials and issues a token. Unknown email and wrong
// password both return ErrInvalidCredentials.
func (s *Service) Signin(ctx context.Context, in SigninInput) (*AuthResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := s.check(in); err != nil {
		return nil, err
	}

	log := s.Logger.WithField("op", "signin")

	a, err := s.Repo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrAccountNotFound) {
			if eq, ok := s.Hasher.(timingEqualizer); ok {
				eq.Burn(ctx, in.Password)
			}
			return nil, ErrInvalidCredentials
		}
		log.WithError(err).Error("account lookup failed")
		return nil, ErrInternal
	}

	ok, err := s.Hasher.Verify(ctx, in.Password, a.PasswordHash)
	if err != nil {
		log.WithError(err).WithField("account_id", a.ID).Error("password verify failed")
		return nil, ErrInternal
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(a)
	if err != nil {
		log.WithError(err).WithField("account_id", a.ID).Error("token issue failed")
		return nil, ErrInternal
	}

	log.WithField("account_id", a.ID).Debug("signed in")
	s.notify(log, a.ID, func() error { return s.Notifier.SignedIn(ctx, a, s.now()) })
	return res, nil
}

// Authenticate verifies token and re-resolves its subject, so tokens of
// removed accounts stop working.
func (s *Service) Authenticate(ctx context.Context, token string) (*entity.Account, error) {
	claims, err := s.Tokens.Verify(token, s.now())
	if err != nil {
		return nil, ErrUnauthenticated
	}
	a, err := s.Repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrAccountNotFound) {
			return nil, ErrUnauthenticated
		}
		s.Logger.WithError(err).WithField("op", "authenticate").Error("account lookup failed")
		return nil, ErrInternal
	}
	return a, nil
}

func (s *Service) check(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return &ValidationError{Fields: validation.ToDetails(err)}
	}
	return nil
}

func (s *Service) issue(a *entity.Account) (*AuthResult, error) {
	tok, claims, err := s.Tokens.Issue(a.ID, s.now())
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, ExpiresAt: claims.ExpiresAt, User: a.Summary()}, nil
}

func (s *Service) notify(log *logrus.Entry, accountID string, fn func() error) {
	if s.Notifier == nil {
		return
	}
	if err := fn(); err != nil {
		log.WithError(err).WithField("account_id", accountID).Warn("notification failed")
	}
}
