package account

import (
	"net/http"

	"github.com/Abraxas-365/matchhub/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ACCOUNT")

var (
	CodeAccountNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Account not found")
	CodeAccountAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Account already exists")
)

func ErrAccountNotFound() *errx.Error {
	return ErrRegistry.New(CodeAccountNotFound)
}

func ErrAccountAlreadyExists() *errx.Error {
	return ErrRegistry.New(CodeAccountAlreadyExists)
}

func ErrEmailTaken(email string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeAccountAlreadyExists, "This email is already registered").
		WithDetail("field", "email").
		WithDetail("email", email)
}

func ErrLoginTaken(login string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeAccountAlreadyExists, "This login is already taken").
		WithDetail("field", "login").
		WithDetail("login", login)
}
