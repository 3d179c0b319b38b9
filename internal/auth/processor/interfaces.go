package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"context"

	"github.com/LegalMindAI/Backend-V2/internal/clients/firebase"
)

// IdentityClient defines the identity provider operations required by AuthProcessor
type IdentityClient interface {
	LookupAccount(ctx context.Context, idToken string) (firebase.Account, error)
	SignInWithPassword(ctx context.Context, email, password string) (firebase.SignInResponse, error)
}
