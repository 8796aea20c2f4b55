package api

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

// Failure kinds. Match them with errors.Is on any error returned by Client.
var (
	ErrNoCredential      = errors.New("no credential")
	ErrRemoteRejected    = errors.New("remote rejected")
	ErrRemoteUnreachable = errors.New("remote unreachable")
	ErrSessionDesync     = errors.New("session desync")
)

// AuthError carries the normalized record together with its kind.
type AuthError struct {
	Kind       error
	Record     models.ErrorRecord
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (%d): %s", e.Kind, e.StatusCode, e.Record.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Record.Message)
}

func (e *AuthError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func noCredential() *AuthError {
	return &AuthError{
		Kind:   ErrNoCredential,
		Record: models.ErrorRecord{Status: models.StatusFail, Message: "no authentication token"},
	}
}

func unreachable(err error) *AuthError {
	return &AuthError{
		Kind:   ErrRemoteUnreachable,
		Record: models.ErrorRecord{Status: models.StatusError, Message: err.Error()},
		Err:    err,
	}
}

func rejected(code int, rec models.ErrorRecord) *AuthError {
	if rec.Status == "" {
		rec.Status = models.StatusFail
	}
	return &AuthError{Kind: ErrRemoteRejected, Record: rec, StatusCode: code}
}

// Normalize turns any error into the ErrorRecord shown to the user.
func Normalize(err error) models.ErrorRecord {
	if err == nil {
		return models.ErrorRecord{}
	}
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Record
	}
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return models.ErrorRecord{Status: models.StatusFail, Message: ve.Error()}
	}
	msg := err.Error()
	if msg == "" {
		msg = "unknown error"
	}
	return models.ErrorRecord{Status: models.StatusError, Message: msg}
}

// IsUnauthorized reports a 401 rejection.
func IsUnauthorized(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.StatusCode == 401
}
