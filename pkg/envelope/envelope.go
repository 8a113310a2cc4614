// Package envelope implements the password gate carried inside a hidden message.
//
// A protected message is stored as "password:message". The password is
// compared as plain bytes on extraction; nothing is hashed or encrypted.
package envelope

import (
	"errors"
	"strings"
)

// Separator divides the stored password from the message.
// Only its first occurrence is significant.
const Separator = ":"

var (
	// ErrPasswordRequired indicates protection is in effect but no password was given.
	ErrPasswordRequired = errors.New("password required")

	// ErrPasswordMismatch indicates the supplied password differs from the stored one.
	ErrPasswordMismatch = errors.New("invalid password")

	// ErrInvalidPassword indicates a password that could never be matched on unwrap.
	ErrInvalidPassword = errors.New("password must not contain the separator")
)

// Wrap prefixes message with password and the separator.
func Wrap(password, message string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	if strings.Contains(password, Separator) {
		return "", ErrInvalidPassword
	}
	return password + Separator + message, nil
}

// Unwrap splits payload on the first separator and checks the stored
// password against password. It returns the message without the prefix.
func Unwrap(payload, password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}
	stored, message, found := strings.Cut(payload, Separator)
	if !found || stored != password {
		return "", ErrPasswordMismatch
	}
	return message, nil
}

// Overhead returns how many bytes Wrap adds for password.
func Overhead(password string) int {
	if password == "" {
		return 0
	}
	return len(password) + len(Separator)
}
