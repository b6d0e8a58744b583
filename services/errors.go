package services

import (
	"errors"
	"fmt"
)

// ErrorKind separates caller mistakes from state problems so the transport
// layer can pick a status code without parsing messages. Upstream store
// failures stay plain errors and must never reach the caller verbatim.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindPrecondition ErrorKind = "precondition"
	KindNotFound     ErrorKind = "not_found"
)

// DomainError carries a human-readable reason safe to show to the caller.
type DomainError struct {
	Kind   ErrorKind
	Reason string
}

func (e *DomainError) Error() string { return e.Reason }

func validationErr(format string, args ...any) error {
	return &DomainError{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func unauthorizedErr(format string, args ...any) error {
	return &DomainError{Kind: KindUnauthorized, Reason: fmt.Sprintf(format, args...)}
}

func preconditionErr(format string, args ...any) error {
	return &DomainError{Kind: KindPrecondition, Reason: fmt.Sprintf(format, args...)}
}

func notFoundErr(format string, args ...any) error {
	return &DomainError{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the domain kind of err, or "" for upstream/unknown errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
