package firebase

import (
	"context"
)

// IdentityClient defines the Firebase Identity Toolkit operations used by the backend
type IdentityClient interface {
	// LookupAccount resolves an ID token to the account it was issued for
	LookupAccount(ctx context.Context, idToken string) (Account, error)

	// SignInWithPassword exchanges email and password for an ID token
	SignInWithPassword(ctx context.Context, email, password string) (SignInResponse, error)
}
