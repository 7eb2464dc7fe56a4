package auth

import (
	"errors"
	"strings"
)

const (
	MsgInvalidCredentials = "Incorrect email or password."
	MsgEmailNotConfirmed  = "Your email is not confirmed yet. Please check your inbox."
	MsgAlreadyRegistered  = "An account with this email already exists."
	MsgWeakPassword       = "The password must be at least 6 characters long."
	MsgUnknown            = "Something went wrong."
)

// provider phrases, matched as substrings in this order
var translations = []struct {
	phrase  string
	message string
}{
	{"Invalid login credentials", MsgInvalidCredentials},
	{"Email not confirmed", MsgEmailNotConfirmed},
	{"User already registered", MsgAlreadyRegistered},
	{"Password should be at least", MsgWeakPassword},
}

// Translate maps a provider failure onto the message shown to the shopper.
// Unrecognised errors keep their own message.
func Translate(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	var pe *ProviderError
	if errors.As(err, &pe) {
		msg = pe.Message
	}
	if msg == "" {
		return MsgUnknown
	}
	for _, t := range translations {
		if strings.Contains(msg, t.phrase) {
			return t.message
		}
	}
	return msg
}

// Error is a failed auth operation as reported to callers.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(err error) *Error {
	return &Error{Message: Translate(err), Err: err}
}
