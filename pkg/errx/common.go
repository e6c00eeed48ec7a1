package errx

func Internal(message string) *Error {
	return New(message, TypeInternal)
}

func Validation(message string) *Error {
	return New(message, TypeValidation)
}

func NotFound(message string) *Error {
	return New(message, TypeNotFound)
}

func External(message string) *Error {
	return New(message, TypeExternal)
}
