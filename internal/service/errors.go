package service

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
	ErrInvalidRule = errors.New("invalid recurrence rule")
	ErrInvalidTask = errors.New("invalid task")
	ErrRuleExists  = errors.New("recurrence rule already exists")

	ErrInvalidInput = errors.New("invalid input")
	ErrUserExists   = errors.New("user already exists")
)
