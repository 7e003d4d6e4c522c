// Package validator wraps go-playground/validator so handlers depend
// on one small surface instead of the library directly.
package validator

import "github.com/go-playground/validator/v10"

// Validator checks transport structs against their validate tags.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator ready for use; custom rules can be added
// through RegisterValidation.
func New() *Validator {
	return &Validator{
		v: validator.New(),
	}
}

// Struct validates s against its field tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single value against a tag expression.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation adds a named custom rule.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}
