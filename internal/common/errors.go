// Package common defines shared constants and sentinel errors used across
// Equilibri layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// ErrNotFound is the service-level name of ErrorNotFound.
	ErrNotFound = ErrorNotFound

	// Input validation.
	ErrInvalidArgument = errors.New("invalid argument")

	// Identity and ownership.
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrPermissionDenied     = errors.New("permission denied")

	// Conversation cursor and send guard.
	ErrNoActiveConversation = errors.New("no active conversation")
	ErrBusy                 = errors.New("busy")

	// Infrastructure failures.
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrCollaboratorFailure = errors.New("assistant unavailable")

	// Session marker errors (invalid signature, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// UserMessage turns an error returned by the core into the text shown to the
// user. Unknown errors are reported verbatim.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthenticationFailed):
		return "Error: Incorrect login or password!"
	case errors.Is(err, ErrInvalidArgument):
		return "Error: " + err.Error()
	case errors.Is(err, ErrNoActiveConversation):
		return "No chat selected. Create one with 'new' or pick one with 'select <id>'."
	case errors.Is(err, ErrPermissionDenied):
		return "Error: this chat belongs to another user"
	case errors.Is(err, ErrNotFound):
		return "Error: chat not found"
	case errors.Is(err, ErrBusy):
		return "Please wait, the previous message is still being answered."
	case errors.Is(err, ErrCollaboratorFailure):
		return "Error: the assistant did not answer, your message was saved"
	case errors.Is(err, ErrStorageUnavailable):
		return "Error: storage is unavailable, try again later"
	default:
		return "Error: " + err.Error()
	}
}
