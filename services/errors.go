package services

import "errors"

var (
	ErrEmptyCredential    = errors.New("empty-credential")
	ErrCredentialTooShort = errors.New("credential-too-short")
	ErrCredentialMismatch = errors.New("credential-mismatch")
	ErrWrongCredential    = errors.New("wrong-credential")
)
