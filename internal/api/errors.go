package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies every failure a user action can run into.
type Kind int

const (
	// KindValidation is a client-side rejection; the network is never touched.
	KindValidation Kind = iota + 1
	// KindNetwork means no response arrived: timeout, refused, reset.
	KindNetwork
	// KindServer is an HTTP error status from the backend.
	KindServer
	// KindRefused is a business rule refusal carried in a successful response.
	KindRefused
	// KindCanceled means the caller gave up on the request, e.g. on quit.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindRefused:
		return "refused"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

// NetworkMessage is shown for timeouts and transport failures.
const NetworkMessage = "The server is not answering yet. It may be waking up, please wait a moment and try again."

// Error is the tagged error value returned by the client and the form layer.
type Error struct {
	Kind    Kind
	Status  int
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindValidation:
		if e.Field != "" {
			return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
		}
		return e.Message
	case KindNetwork:
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return "network error"
	case KindCanceled:
		return "request canceled"
	case KindServer:
		if e.Message != "" {
			return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("HTTP %d", e.Status)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage renders the error for a notification.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindNetwork:
		return NetworkMessage
	case KindCanceled:
		return "The request was canceled."
	case KindServer:
		if e.Message != "" {
			return e.Message
		}
		if text := http.StatusText(e.Status); text != "" {
			return fmt.Sprintf("The server rejected the request (%d %s).", e.Status, text)
		}
		return "The server rejected the request."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "Something went wrong."
	}
}

// Quiet reports whether err should not be shown to the user: a nil error or
// a request the caller canceled.
func Quiet(err error) bool {
	return err == nil || Classify(err).Kind == KindCanceled
}

// NewValidationError builds a KindValidation error for a form field.
func NewValidationError(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return Classify(err).Kind == kind
}

// Classify converts any error into an *Error. Errors that are already tagged
// pass through. Cancellation becomes KindCanceled, while deadlines and net
// errors become KindNetwork. The rest become KindServer with a generic message.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged
	}
	if errors.Is(err, context.Canceled) {
		return &Error{Kind: KindCanceled, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindNetwork, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Err: err}
	}
	return &Error{Kind: KindServer, Message: "Unexpected error: " + err.Error(), Err: err}
}
