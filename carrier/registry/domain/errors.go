package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier format")
	ErrNotFound          = errors.New("carrier not found")
	ErrRateLimited       = errors.New("rate limit exceeded - request throttled")
	ErrTransient         = errors.New("registry temporarily unavailable")
	// ErrRejected cobre respostas 4xx do registro que não adianta repetir
	// (ex.: chave inválida).
	ErrRejected = errors.New("registry rejected the request")
)

type ErrorKind string

const (
	KindValidation  ErrorKind = "VALIDATION"
	KindNotFound    ErrorKind = "NOT_FOUND"
	KindRateLimited ErrorKind = "RATE_LIMITED"
	KindTransient   ErrorKind = "TRANSIENT"
	KindRejected    ErrorKind = "REJECTED"
	KindCanceled    ErrorKind = "CANCELED"
)

// LookupError carrega a categoria da falha junto com a causa original.
type LookupError struct {
	Kind ErrorKind
	Err  error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return e.Err.Error()
}

func (e *LookupError) Unwrap() error { return e.Err }

func NewLookupError(kind ErrorKind, err error) *LookupError {
	return &LookupError{Kind: kind, Err: err}
}

func Errorf(kind ErrorKind, format string, args ...any) *LookupError {
	return &LookupError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf devolve a categoria de err. Erros sem LookupError na cadeia são
// tratados como transitórios.
func KindOf(err error) ErrorKind {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind
	}
	switch {
	case errors.Is(err, ErrInvalidIdentifier):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrRejected):
		return KindRejected
	}
	return KindTransient
}
