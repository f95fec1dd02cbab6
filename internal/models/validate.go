package models

import "github.com/go-playground/validator/v10"

// NewValidator returns a validator with the store's custom tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return IsValidOrderStatus(fl.Field().String())
	})
	return v
}
