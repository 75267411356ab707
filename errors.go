package authclient

import (
	goerrors "github.com/goliatone/go-errors"
)

// Text codes identifying each failure kind on the wire and in logs.
const (
	TextCodeUnreachable        = "identity_service_unreachable"
	TextCodeUnauthorized       = "credential_rejected"
	TextCodeInvalidCredentials = "invalid_credentials"
	TextCodeAlreadyExists      = "account_already_exists"
	TextCodeValidation         = "validation_failed"
	TextCodeProviderRejected   = "oauth_provider_rejected"
	TextCodeUnknown            = "unclassified_failure"
	TextCodeInvalidTransition  = "invalid_session_transition"
)

// Kind is the classification the state machine receives for every
// remote identity failure.
type Kind string

const (
	KindUnreachable        Kind = "unreachable"
	KindUnauthorized       Kind = "unauthorized"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindAlreadyExists      Kind = "already_exists"
	KindValidation         Kind = "validation_error"
	KindProviderRejected   Kind = "provider_rejected"
	KindUnknown            Kind = "unknown"
)

// ErrUnreachable is returned when the identity service cannot be reached.
var ErrUnreachable = goerrors.New("identity service unreachable", goerrors.CategoryOperation).
	WithTextCode(TextCodeUnreachable)

// ErrUnauthorized is returned when the remote rejects the stored credential.
// Callers must treat this as "session invalid", not as a transient error.
var ErrUnauthorized = goerrors.New("credential rejected", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredentials is returned when a login is rejected.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAlreadyExists is returned when a signup collides with an existing account.
var ErrAlreadyExists = goerrors.New("account already exists", goerrors.CategoryConflict).
	WithTextCode(TextCodeAlreadyExists).
	WithCode(goerrors.CodeConflict)

// ErrValidation is returned when a payload is rejected before or by the remote.
var ErrValidation = goerrors.New("validation failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrProviderRejected is returned when an OAuth exchange is refused.
var ErrProviderRejected = goerrors.New("oauth provider rejected", goerrors.CategoryAuth).
	WithTextCode(TextCodeProviderRejected).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidTransition is returned when a requested session transition is not
// allowed from the current status.
var ErrInvalidTransition = goerrors.New("invalid session transition", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// KindOf classifies any error into the failure taxonomy. Errors that did not
// come from this package resolve to KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return KindUnknown
	}

	switch rich.TextCode {
	case TextCodeUnreachable:
		return KindUnreachable
	case TextCodeUnauthorized:
		return KindUnauthorized
	case TextCodeInvalidCredentials:
		return KindInvalidCredentials
	case TextCodeAlreadyExists:
		return KindAlreadyExists
	case TextCodeValidation:
		return KindValidation
	case TextCodeProviderRejected:
		return KindProviderRejected
	default:
		return KindUnknown
	}
}

// IsUnauthorized reports whether err means the stored credential was rejected.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// IsUnreachable reports whether err is a transport level failure.
func IsUnreachable(err error) bool {
	return KindOf(err) == KindUnreachable
}

// ErrorMessage extracts the human readable message carried by a classified
// failure. The state machine is the only caller that turns this into the
// session's visible error text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return err.Error()
}

// StatusCode returns the numeric HTTP status recorded on a classified
// failure, or 0 when none was attached.
func StatusCode(err error) int {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return 0
	}
	if rich.Metadata == nil {
		return 0
	}
	if code, ok := rich.Metadata["status_code"].(int); ok {
		return code
	}
	return 0
}
