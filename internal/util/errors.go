package util

import "fmt"

// ResponseError is a domain error that carries the HTTP status it should
// surface with. Services return it where the status is part of the error's
// meaning; the controller and the central error handler unwrap it into the
// response envelope.
type ResponseError struct {
	Msg    string
	Status int
}

func (e ResponseError) Error() string { return e.Msg }

func NewResponseError(status int, format string, args ...interface{}) error {
	return ResponseError{
		Msg:    fmt.Sprintf(format, args...),
		Status: status,
	}
}
