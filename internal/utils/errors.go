package utils

import "errors"

// Common application errors used across services.
var (
	ErrPlanNotFound      = errors.New("PLAN_NOT_FOUND")
	ErrRateNotFound      = errors.New("RATE_NOT_FOUND")
	ErrDuplicatePlanName = errors.New("DUPLICATE_PLAN_NAME")
	ErrImmutableField    = errors.New("IMMUTABLE_FIELD")
	ErrEmptyCodes        = errors.New("EMPTY_CODES")
	ErrWizardNotFound    = errors.New("WIZARD_SESSION_NOT_FOUND")
	ErrWizardComplete    = errors.New("WIZARD_ALREADY_COMPLETE")
	ErrSubmitInFlight    = errors.New("SUBMIT_IN_FLIGHT")
	ErrMissingPlanName   = errors.New("MISSING_PLAN_NAME")
	ErrMissingCurrency   = errors.New("MISSING_CURRENCY")
	ErrZoneNotFound      = errors.New("ZONE_NOT_FOUND")
	ErrInvalidDeck       = errors.New("INVALID_DECK")
)
