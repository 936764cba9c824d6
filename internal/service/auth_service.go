package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/veresiye/internal/auth"
)

// sessionSubject is the subject of every issued token. The lock is shop-wide,
// so there is no per-user identity to carry.
const sessionSubject = "shop"

// AuthService implements veresiye.v1.AuthService.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Unlock exchanges the PIN for a session token.
func (s *AuthService) Unlock(ctx context.Context, req *connect.Request[UnlockRequest]) (*connect.Response[UnlockResponse], error) {
	slog.Info("Unlock request received")

	if err := s.authenticator.Authenticate(ctx, req.Msg.PIN); err != nil {
		switch {
		case errors.Is(err, auth.ErrLockDisabled):
			return nil, connect.NewError(connect.CodeFailedPrecondition, err)
		case errors.Is(err, auth.ErrInvalidCredentials):
			slog.Warn("Unlock failed", "error", err)
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		default:
			slog.Error("Unlock failed", "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	token, expires, err := s.jwtManager.Generate(sessionSubject)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Session unlocked", "expires_at", expires)
	return connect.NewResponse(&UnlockResponse{Token: token, ExpiresAt: expires}), nil
}

// SetPIN sets, changes or clears the PIN. The current PIN is required once one exists.
func (s *AuthService) SetPIN(ctx context.Context, req *connect.Request[SetPINRequest]) (*connect.Response[SetPINResponse], error) {
	slog.Info("SetPIN request received", "clear", req.Msg.NewPIN == "")

	if err := s.authenticator.SetCredential(ctx, req.Msg.CurrentPIN, req.Msg.NewPIN); err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		case errors.Is(err, auth.ErrWeakPIN):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		default:
			slog.Error("SetPIN failed", "error", err)
			return nil, connect.NewError(connect.CodeInternal, err)
		}
	}

	enabled, err := s.authenticator.Enabled(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	slog.Info("PIN updated", "enabled", enabled)
	return connect.NewResponse(&SetPINResponse{Enabled: enabled}), nil
}
