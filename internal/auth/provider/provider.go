package provider

import "context"

// Identity is the normalized identity a provider returns after a successful
// code exchange. Providers return identity facts only; user creation,
// account linking and session issuance happen elsewhere.
type Identity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// OAuthProvider defines the contract every external auth provider implements.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL returns the OAuth authorization URL for the given state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for provider credentials and
	// returns a normalized identity.
	Exchange(ctx context.Context, code string) (*Identity, error)
}
