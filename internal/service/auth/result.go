package auth

import "github.com/subtally/subtally/internal/domain"

// AuthResult is returned by Register, Login and Refresh.
//
// When PendingConfirmation is true the account was created but no session
// was established: both token fields are empty and the caller must wait for
// email confirmation. Success therefore does not imply an active session.
type AuthResult struct {
	AccessToken         string
	RefreshToken        string
	User                *domain.User
	PendingConfirmation bool
}
