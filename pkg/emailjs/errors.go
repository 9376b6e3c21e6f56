package emailjs

import "errors"

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid emailjs configuration")

	// ErrSendFailed is returned when EmailJS rejects the send request
	ErrSendFailed = errors.New("email send failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the public key is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid public key")
)
