// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound request structs.
package validator

import (
	validatorlib "github.com/go-playground/validator/v10"
)

// Validator wraps a single validator instance shared by all requests.
type Validator struct {
	validate *validatorlib.Validate
}

// New creates an echo-compatible request validator.
func New() *Validator {
	return &Validator{
		validate: validatorlib.New(validatorlib.WithRequiredStructEnabled()),
	}
}

// Validate checks struct tags on the bound request body.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
