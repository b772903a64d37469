package domain

import "errors"

var (
	// ErrBankNotFound indicates the question bank could not be loaded.
	ErrBankNotFound = errors.New("question bank not found")
	// ErrBankEmpty indicates a bank with no questions; a game cannot start on it.
	ErrBankEmpty = errors.New("question bank has no questions")
)
