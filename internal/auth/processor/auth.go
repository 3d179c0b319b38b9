package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/LegalMindAI/Backend-V2/internal/clients/firebase"
	"github.com/LegalMindAI/Backend-V2/internal/observability"
)

var (
	ErrMissingToken        = errors.New("missing bearer token")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token expired")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrIdentityUnavailable = errors.New("identity provider unavailable")
)

const tokenTypeBearer = "bearer"

type AuthConfig struct {
	FirebaseProjectID string
}

type AuthProcessor struct {
	identity IdentityClient
	config   AuthConfig
	logger   *observability.Logger
	now      func() time.Time
}

func New(identity IdentityClient, config AuthConfig, logger *observability.Logger) AuthProcessor {
	return AuthProcessor{
		identity: identity,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// Identity is the verified caller of a request.
type Identity struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Status struct {
	Status            string `json:"status"`
	FirebaseProjectID string `json:"firebase_project_id"`
	Message           string `json:"message"`
}

// VerifyToken resolves a bearer token to the owner it identifies. Malformed or expired tokens
// are rejected locally; the rest are checked with the identity provider.
func (p *AuthProcessor) VerifyToken(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrMissingToken
	}

	claims, err := p.precheckToken(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	ctx = observability.WithFields(ctx, observability.Field{Key: "token_subject", Value: claims.Subject})

	account, err := p.identity.LookupAccount(ctx, token)
	if err != nil {
		if errors.Is(err, firebase.ErrRejected) {
			p.logger.Warn(ctx, "identity provider rejected token")
			return Identity{}, ErrInvalidToken
		}
		p.logger.Error(ctx, "failed to verify token with identity provider", err)
		return Identity{}, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}

	if claims.Subject != "" && claims.Subject != account.LocalID {
		p.logger.Warn(ctx, "token subject does not match account",
			observability.Field{Key: "account_id", Value: account.LocalID})
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: account.LocalID, Email: account.Email}, nil
}

// SignIn exchanges email and password for an ID token usable as a bearer token.
func (p *AuthProcessor) SignIn(ctx context.Context, email, password string) (Token, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "email", Value: email})

	resp, err := p.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, firebase.ErrRejected) {
			p.logger.Warn(ctx, "password sign-in rejected")
			return Token{}, ErrInvalidCredentials
		}
		p.logger.Error(ctx, "failed to sign in with identity provider", err)
		return Token{}, fmt.Errorf("%w: %w", ErrIdentityUnavailable, err)
	}

	p.logger.Info(ctx, "user signed in", observability.Field{Key: "user_id", Value: resp.LocalID})
	return Token{AccessToken: resp.IDToken, TokenType: tokenTypeBearer}, nil
}

func (p *AuthProcessor) Status() Status {
	return Status{
		Status:            "ok",
		FirebaseProjectID: p.config.FirebaseProjectID,
		Message:           "Authentication system is working",
	}
}
