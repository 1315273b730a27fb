package models

import "errors"

// Application-wide standard errors
var (
	// Common resource/DB errors
	ErrNotFound        = errors.New("resource not found")
	ErrRequestNotFound = errors.New("story request not found")

	// Validation errors, rejected before any network or storage call
	ErrValidation = errors.New("invalid input data")

	// Stored form snapshot could not be decoded into the typed shape
	ErrFormDecode = errors.New("form snapshot decode failed")

	// External service errors, surfaced per triggering action
	ErrEmailDelivery  = errors.New("email provider call failed")
	ErrPaymentGateway = errors.New("payment gateway call failed")

	// Malformed request bodies, mapped to 400 alongside validation errors
	ErrBadRequest = errors.New("bad request")
)
