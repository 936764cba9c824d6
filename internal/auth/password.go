package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/veresiye/internal/models"
	"github.com/mmynk/veresiye/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid PIN")
	ErrWeakPIN            = errors.New("PIN must be 4 to 12 digits")
	ErrLockDisabled       = errors.New("no PIN is configured")
)

const (
	minPINLength = 4
	maxPINLength = 12
)

// PINAuthenticator keeps a bcrypt hash of the shop PIN in the settings table.
type PINAuthenticator struct {
	settings storage.SettingStore
}

// NewPINAuthenticator creates a PIN authenticator backed by settings.
func NewPINAuthenticator(settings storage.SettingStore) *PINAuthenticator {
	return &PINAuthenticator{settings: settings}
}

// ValidateCredential checks the PIN is all digits and of acceptable length.
func (a *PINAuthenticator) ValidateCredential(pin string) error {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return ErrWeakPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return ErrWeakPIN
		}
	}
	return nil
}

func (a *PINAuthenticator) hash(ctx context.Context) (string, error) {
	hash, _, err := a.settings.GetSetting(ctx, models.KeyAccessPINHash)
	if err != nil {
		return "", fmt.Errorf("failed to read PIN: %w", err)
	}
	return hash, nil
}

func (a *PINAuthenticator) Enabled(ctx context.Context) (bool, error) {
	hash, err := a.hash(ctx)
	return hash != "", err
}

// Authenticate compares pin with the stored hash. It returns ErrLockDisabled
// when no PIN has been set.
func (a *PINAuthenticator) Authenticate(ctx context.Context, pin string) error {
	hash, err := a.hash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return ErrLockDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (a *PINAuthenticator) SetCredential(ctx context.Context, current, next string) error {
	hash, err := a.hash(ctx)
	if err != nil {
		return err
	}
	if hash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(current)); err != nil {
			return ErrInvalidCredentials
		}
	}

	if next == "" {
		return a.settings.SetSetting(ctx, models.KeyAccessPINHash, "")
	}
	if err := a.ValidateCredential(next); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash PIN: %w", err)
	}
	return a.settings.SetSetting(ctx, models.KeyAccessPINHash, string(hashed))
}
