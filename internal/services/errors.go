package services

import "errors"

var (
	// ErrValidation marks input the service refuses before touching the store.
	ErrValidation = errors.New("validation failed")
	// ErrOrderCreation is returned when the final order save is rejected.
	ErrOrderCreation = errors.New("the order cannot be created")
	// ErrNoSales is returned by TotalSales when there are no orders to sum.
	ErrNoSales = errors.New("the order sales cannot be generated")
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when registering an email that is in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUnsupportedImage is returned for uploads that are not png or jpeg.
	ErrUnsupportedImage = errors.New("invalid image type")
)
