package session

import (
	"errors"
)

// Rejection is the machine-readable reason a command was refused.
type Rejection string

const (
	RejectInsufficientFunds  Rejection = "insufficient_funds"
	RejectMissingBankLink    Rejection = "missing_bank_link"
	RejectInvalidAmount      Rejection = "invalid_amount"
	RejectInvalidBankDetails Rejection = "invalid_bank_details"
	RejectInvalidPlan        Rejection = "invalid_plan"
	RejectNoActivePlan       Rejection = "no_active_plan"
	RejectInvalidProfile     Rejection = "invalid_profile"
	RejectUnknownProduct     Rejection = "unknown_product"
	RejectInvalidEmail       Rejection = "invalid_email"
	RejectInvalidOTP         Rejection = "invalid_otp"
)

type rejection struct{ reason Rejection }

func (r *rejection) Error() string { return string(r.reason) }

// Typed rejections. Commands wrap them with detail, so match with errors.Is
// or recover the reason with ReasonOf.
var (
	ErrInsufficientFunds  error = &rejection{RejectInsufficientFunds}
	ErrMissingBankLink    error = &rejection{RejectMissingBankLink}
	ErrInvalidAmount      error = &rejection{RejectInvalidAmount}
	ErrInvalidBankDetails error = &rejection{RejectInvalidBankDetails}
	ErrInvalidPlan        error = &rejection{RejectInvalidPlan}
	ErrNoActivePlan       error = &rejection{RejectNoActivePlan}
	ErrInvalidProfile     error = &rejection{RejectInvalidProfile}
	ErrUnknownProduct     error = &rejection{RejectUnknownProduct}
	ErrInvalidEmail       error = &rejection{RejectInvalidEmail}
	ErrInvalidOTP         error = &rejection{RejectInvalidOTP}
)

// state errors
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrLoginRequired    = errors.New("login required before otp verification")
)

// ReasonOf extracts the rejection reason carried by err, if any.
func ReasonOf(err error) (Rejection, bool) {
	var r *rejection
	if errors.As(err, &r) {
		return r.reason, true
	}
	return "", false
}

// Reject builds a typed rejection for reasons owned by other packages, such
// as onboarding and settings validation.
func Reject(reason Rejection) error { return &rejection{reason} }
