package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind - error categories surfaced at the handler boundary
type Kind int

const (
	KindValidation Kind = iota // missing/invalid request field
	KindNotFound               // unknown project id
	KindDecode                 // malformed image bytes
	KindVendor                 // external call failed or returned nothing usable
	KindConfig                 // missing mandatory credential at startup
)

// Error - typed application error with an optional wrapped cause
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation - caller sent a bad or incomplete request
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NotFound - requested entity does not exist
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Decode - input bytes are not a valid image
func Decode(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Msg: msg, Err: err}
}

// Vendor - external generation/upscale/storage call failed
func Vendor(msg string, err error) *Error {
	return &Error{Kind: KindVendor, Msg: msg, Err: err}
}

// IsKind - check whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// HTTPStatus - map an error to its response status code
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindValidation, KindDecode:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindVendor:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON - handler boundary: every error becomes {"error": message}
func WriteJSON(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
