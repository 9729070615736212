package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Kind discriminates every failure the API client can surface, so callers
// switch exhaustively instead of sniffing error names.
type Kind string

const (
	// KindAbort covers caller- or timeout-initiated cancellation.
	KindAbort Kind = "ABORT"
	// KindNetwork covers connection-level failures with no response.
	KindNetwork Kind = "NETWORK_ERROR"
	// KindAPI covers non-2xx responses from the backend.
	KindAPI Kind = "API_ERROR"
	// KindMalformed covers 2xx responses with an unusable body.
	KindMalformed Kind = "MALFORMED_RESPONSE"
)

type Metadata struct {
	Retryable  bool
	UserFacing bool
}

var metadataByKind = map[Kind]Metadata{
	KindAbort: {
		Retryable:  false,
		UserFacing: false,
	},
	KindNetwork: {
		Retryable:  true,
		UserFacing: true,
	},
	KindAPI: {
		Retryable:  false,
		UserFacing: true,
	},
	KindMalformed: {
		Retryable:  false,
		UserFacing: true,
	},
}

func MetadataFor(kind Kind) Metadata {
	if meta, ok := metadataByKind[kind]; ok {
		return meta
	}
	return metadataByKind[KindAPI]
}

// Error carries the failure kind, the HTTP status when one was received, and
// an optional structured details payload from the response body.
type Error struct {
	kind    Kind
	status  int
	message string
	details any
	cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind Kind, err error, message string) *Error {
	if err == nil {
		return New(kind, message)
	}
	return &Error{kind: kind, message: message, cause: err}
}

// NewAPI builds an API error for a non-2xx response.
func NewAPI(status int, message string) *Error {
	return &Error{kind: KindAPI, status: status, message: message}
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindAPI
	}
	return e.kind
}

func (e *Error) Status() int {
	if e == nil {
		return 0
	}
	return e.status
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithStatus(status int) *Error {
	if e == nil {
		return nil
	}
	e.status = status
	return e
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.status > 0 {
		return fmt.Sprintf("%s (%d): %s", e.kind, e.status, e.message)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsAbort reports whether err represents an expected cancellation.
func IsAbort(err error) bool {
	typed := As(err)
	return typed != nil && typed.Kind() == KindAbort
}

// IsNetwork reports whether err is a connection-level failure.
func IsNetwork(err error) bool {
	typed := As(err)
	return typed != nil && typed.Kind() == KindNetwork
}

// IsUnauthorized reports whether err is an API error with a 401 status.
func IsUnauthorized(err error) bool {
	typed := As(err)
	return typed != nil && typed.Kind() == KindAPI && typed.Status() == http.StatusUnauthorized
}
