// Package auth implements the optional access lock in front of the API.
package auth

import "context"

// Authenticator guards the API behind a shop-wide credential.
// When no credential is configured the lock is disabled and every caller is let in.
type Authenticator interface {
	// Enabled reports whether a credential has been configured.
	Enabled(ctx context.Context) (bool, error)

	// Authenticate verifies credential against the stored one.
	Authenticate(ctx context.Context, credential string) error

	// SetCredential replaces the stored credential. current must match the
	// existing one when the lock is enabled. An empty next disables the lock.
	SetCredential(ctx context.Context, current, next string) error

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
