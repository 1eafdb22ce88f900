package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fullstack-starter/internal/auth"
	"github.com/spec-kit/fullstack-starter/internal/auth/provider"
	"github.com/spec-kit/fullstack-starter/internal/config"
	"github.com/spec-kit/fullstack-starter/internal/domain"
	"github.com/spec-kit/fullstack-starter/internal/events"
	"github.com/spec-kit/fullstack-starter/internal/repository"
	"github.com/spec-kit/fullstack-starter/internal/session"
	"github.com/spec-kit/fullstack-starter/pkg/apperr"
)

// AuthService coordinates registration, login, OAuth and session resolution.
type AuthService struct {
	users      repository.UserRepository
	accounts   repository.AccountRepository
	sessions   *session.Manager
	providers  *provider.Registry
	state      *auth.StateSigner
	dispatcher events.Dispatcher
	bcryptCost int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	AccountRepo repository.AccountRepository
	Sessions    *session.Manager
	Providers   *provider.Registry
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		accounts:   deps.AccountRepo,
		sessions:   deps.Sessions,
		providers:  deps.Providers,
		state:      auth.NewStateSigner(cfg.Auth.StateSecret, cfg.Auth.StateTTL()),
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with email/password credentials and opens a
// session for it.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, *session.Session, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, nil, apperr.NewConflict("Email already registered", "EMAIL_TAKEN")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Name:   user.Name,
		Email:  user.Email,
		Method: "password",
	})
	return user, sess, nil
}

// Login authenticates email/password credentials. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *session.Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, invalidCredentials()
	}
	if err != nil {
		return nil, nil, err
	}

	if !user.HasPassword() || auth.ComparePassword(user.PasswordHash, password) != nil {
		return nil, nil, invalidCredentials()
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperr.NewWithCode("Account is disabled", http.StatusForbidden, "ACCOUNT_DISABLED")
	}

	sess, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Method: "password"})
	return user, sess, nil
}

// Logout revokes the presented session.
func (s *AuthService) Logout(ctx context.Context, result *auth.AuthResult) error {
	if result == nil || result.Session == nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, result.Session.Token); err != nil {
		return err
	}

	s.publish(ctx, events.EventUserLoggedOut, result.User.ID, events.UserLoggedOutPayload{
		SessionID: result.Session.ID,
	})
	return nil
}

// ResolveSession validates the presented token and loads its identity. It is
// the single lookup the request middleware memoizes.
func (s *AuthService) ResolveSession(ctx context.Context, token, cached string) (*auth.AuthResult, string, error) {
	sess, newCache, err := s.sessions.Resolve(ctx, token, cached)
	if err != nil {
		return nil, "", err
	}
	if sess == nil {
		return nil, "", nil
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		// Identity vanished under a live session; drop the orphan.
		_ = s.sessions.Revoke(ctx, sess.Token)
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}
	if user.Status != domain.UserStatusActive {
		return nil, "", nil
	}

	return &auth.AuthResult{User: user, Session: sess}, newCache, nil
}

// OAuthAuthorizeURL starts a social login flow and returns the provider
// redirect target.
func (s *AuthService) OAuthAuthorizeURL(providerName, returnTo string) (string, error) {
	p, err := s.providers.Get(providerName)
	if err != nil {
		return "", err
	}

	state, err := s.state.Sign(p.Name(), returnTo)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// CompleteOAuth finishes a social login callback: verifies state, exchanges
// the code, finds or creates the linked user and opens a session.
func (s *AuthService) CompleteOAuth(ctx context.Context, providerName, state, code string) (*domain.User, *session.Session, string, error) {
	claims, err := s.state.Verify(state)
	if err != nil || claims.Provider != providerName {
		return nil, nil, "", apperr.NewWithCode("Invalid or expired state", http.StatusBadRequest, "INVALID_STATE")
	}

	p, err := s.providers.Get(providerName)
	if err != nil {
		return nil, nil, "", err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, nil, "", apperr.NewWithCode("Provider sign-in failed", http.StatusBadGateway, "PROVIDER_EXCHANGE_FAILED")
	}

	user, registered, err := s.userForIdentity(ctx, identity)
	if err != nil {
		return nil, nil, "", err
	}

	sess, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, nil, "", err
	}

	if registered {
		s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
			Name:   user.Name,
			Email:  user.Email,
			Method: identity.Provider,
		})
	}
	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Method: identity.Provider})
	return user, sess, claims.ReturnTo, nil
}

// userForIdentity resolves the local user for an external identity, linking
// by provider account first and by verified email second.
func (s *AuthService) userForIdentity(ctx context.Context, identity *provider.Identity) (*domain.User, bool, error) {
	account, err := s.accounts.GetByProviderAccount(ctx, identity.Provider, identity.Subject)
	if err == nil {
		user, err := s.users.GetByID(ctx, account.UserID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, err
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		user = &domain.User{
			Name:          identity.Name,
			Email:         identity.Email,
			EmailVerified: identity.EmailVerified,
			Status:        domain.UserStatusActive,
		}
		if identity.AvatarURL != "" {
			avatar := identity.AvatarURL
			user.AvatarURL = &avatar
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, false, err
		}
		if err := s.linkAccount(ctx, user.ID, identity); err != nil {
			return nil, false, err
		}
		return user, true, nil
	case err != nil:
		return nil, false, err
	default:
		if !identity.EmailVerified {
			return nil, false, apperr.NewWithCode(
				"Email already in use; sign in with your password to link this provider",
				http.StatusConflict, "EMAIL_LINK_CONFLICT")
		}
		if err := s.linkAccount(ctx, user.ID, identity); err != nil {
			return nil, false, err
		}
		return user, false, nil
	}
}

func (s *AuthService) linkAccount(ctx context.Context, userID string, identity *provider.Identity) error {
	return s.accounts.Create(ctx, &domain.Account{
		UserID:            userID,
		Provider:          identity.Provider,
		ProviderAccountID: identity.Subject,
	})
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}

func invalidCredentials() error {
	return apperr.NewWithCode("Invalid email or password", http.StatusUnauthorized, "INVALID_CREDENTIALS")
}
