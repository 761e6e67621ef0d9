package auth

import (
	"errors"

	"safvacut-wallet-go/internal/apperr"
)

// Provider error codes.
const (
	CodeUserNotFound         = "user-not-found"
	CodeWrongPassword        = "wrong-password"
	CodeEmailAlreadyInUse    = "email-already-in-use"
	CodeWeakPassword         = "weak-password"
	CodeInvalidEmail         = "invalid-email"
	CodeUserDisabled         = "user-disabled"
	CodeTooManyRequests      = "too-many-requests"
	CodePopupClosedByUser    = "popup-closed-by-user"
	CodeCancelledPopup       = "cancelled-popup-request"
	CodePopupBlocked         = "popup-blocked"
	CodeNetworkRequestFailed = "network-request-failed"
	CodeOperationNotAllowed  = "operation-not-allowed"
	CodeInvalidCredential    = "invalid-credential"
	CodeAccountExists        = "account-exists-with-different-credential"
)

const defaultAuthMessage = "An error occurred during authentication"

var codeMessages = map[string]string{
	CodeUserNotFound:         "No account found with this email address",
	CodeWrongPassword:        "Incorrect password",
	CodeEmailAlreadyInUse:    "An account with this email already exists",
	CodeWeakPassword:         "Password is too weak",
	CodeInvalidEmail:         "Invalid email address",
	CodeUserDisabled:         "This account has been disabled",
	CodeTooManyRequests:      "Too many failed attempts. Please try again later",
	CodePopupClosedByUser:    "Sign-in was cancelled",
	CodeCancelledPopup:       "Sign-in was cancelled",
	CodePopupBlocked:         "Pop-up was blocked. Please allow pop-ups and try again",
	CodeNetworkRequestFailed: "Network error. Please check your connection",
}

// ProviderError is what an identity provider returns for a rejected request.
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func newProviderError(code, message string) *ProviderError {
	return &ProviderError{Code: code, Message: message}
}

// MapErrorCode turns a provider code into the message shown to the user.
// Unknown codes fall back to the provider's own message.
func MapErrorCode(code, raw string) string {
	if msg, ok := codeMessages[code]; ok {
		return msg
	}
	if raw != "" {
		return raw
	}
	return defaultAuthMessage
}

// toAppError wraps any provider failure as an apperr.Error carrying the code.
func toAppError(op string, err error) error {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return apperr.NewAuth(op, "", defaultAuthMessage, err)
	}

	e := apperr.NewAuth(op, pe.Code, MapErrorCode(pe.Code, pe.Message), err)
	switch pe.Code {
	case CodeEmailAlreadyInUse, CodeAccountExists:
		e.Type = apperr.Conflict
	case CodeNetworkRequestFailed:
		e.Type = apperr.Unavailable
	case CodeWeakPassword, CodeInvalidEmail:
		e.Type = apperr.Validation
	}
	return e
}

// codeOf extracts the provider code for analytics, "unknown" if absent.
func codeOf(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return "unknown"
}
