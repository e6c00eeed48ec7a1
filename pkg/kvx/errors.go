package kvx

import (
	"net/http"

	"github.com/Abraxas-365/matchhub/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("KVX")

var (
	CodeNotFound    = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Key not found")
	CodeUnavailable = ErrRegistry.Register("UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Ephemeral store unavailable")
)

func ErrNotFound(key string) *errx.Error {
	return ErrRegistry.New(CodeNotFound).WithDetail("key", key)
}

func ErrUnavailable(op string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeUnavailable, cause).WithDetail("op", op)
}

// IsNotFound reports whether err means the key was absent.
func IsNotFound(err error) bool {
	return errx.IsCode(err, CodeNotFound)
}
