package apperrors

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidationError covers malformed, missing or out-of-range input. The
// offending field is reported so the client can correct the request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateSlugError reports a slug already taken within its entity type.
type DuplicateSlugError struct {
	Entity string
	Slug   string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("el slug '%s' ya existe", e.Slug)
}

type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return "el email ya está registrado"
}

type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " no encontrado"
}

// HasDependentsError blocks a delete while child rows still reference
// the entity.
type HasDependentsError struct {
	Entity    string
	Dependent string
	Count     int64
}

func (e *HasDependentsError) Error() string {
	return fmt.Sprintf("no se puede eliminar: %s tiene %d %s asociados", e.Entity, e.Count, e.Dependent)
}

// ErrInvalidCredentials is deliberately generic: the same failure is
// returned for an unknown email and for a wrong password.
var ErrInvalidCredentials = errors.New("credenciales inválidas")

// ErrForbidden means the token is valid but the role is insufficient.
var ErrForbidden = errors.New("permisos insuficientes")

// StorageError wraps a datastore failure. The cause is logged server-side
// but never sent to the client.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func Storage(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

// Status maps an error from the taxonomy to its HTTP status code.
func Status(err error) int {
	var ve *ValidationError
	var ds *DuplicateSlugError
	var de *DuplicateEmailError
	var nf *NotFoundError
	var hd *HasDependentsError

	switch {
	case errors.As(err, &ve), errors.As(err, &ds), errors.As(err, &de), errors.As(err, &hd):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error to the client. Storage and unexpected errors
// are replaced with an opaque message.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "Error interno del servidor"})
		return
	}
	resp := gin.H{"error": err.Error()}
	var hd *HasDependentsError
	if errors.As(err, &hd) {
		resp["dependientes"] = hd.Count
	}
	c.JSON(status, resp)
}
