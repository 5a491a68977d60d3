// Package validation holds the pure field validators used by the submission
// and contact flows. Every function is side-effect free: same inputs, same
// answer, with the static code-length table as the only configuration.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Field length bounds shared by the public forms.
const (
	MaxNameLen    = 80
	MaxPhoneLen   = 32
	MaxEmailLen   = 128
	MaxSubjectLen = 200
	MaxMessageLen = 2000
)

// Coupon count bounds for a single submission.
const (
	MinCoupons = 1
	MaxCoupons = 30
)

// CouponCodeLengths maps a normalized (lowercase) coupon type to the exact
// code length that type issues. 10 is the default for types whose issuers
// do not document a length.
var CouponCodeLengths = map[string]int{
	"toneofirst":  10,
	"transcash":   12,
	"paysafecard": 16,
	"neosurf":     10,
	"pcs":         10,
	"cashlib":     10,
	"flexepin":    10,
	"ecopayz":     10,
	// Gift cards
	"steam":       10,
	"google-play": 10,
	"itunes":      10,
	"amazon":      10,
	"paypal":      10,
	"netflix":     10,
	"spotify":     10,
}

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	amountPattern = regexp.MustCompile(`^\d+(?:[.,]\d+)?$`)
	codePattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

var (
	ErrEmailRequired = errors.New("email is required")
	ErrEmailFormat   = errors.New("invalid email format (example: name@domain.com)")
)

// IsEmail reports whether value looks like local-part@domain-with-dot.
// An empty value passes — required-ness is a separate rule.
func IsEmail(value string) bool {
	if value == "" {
		return true
	}
	return emailPattern.MatchString(value)
}

// ValidateEmail enforces both presence and shape, returning a distinct
// error for each failure mode.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !IsEmail(email) {
		return ErrEmailFormat
	}
	return nil
}

// IsNumericAmount accepts an empty string, or digits optionally followed by
// one decimal separator ('.' or ',') and more digits. No sign, no thousands
// separators, no scientific notation.
func IsNumericAmount(value string) bool {
	if value == "" {
		return true
	}
	return amountPattern.MatchString(value)
}

// ValidateCouponCode checks a code against the expected length for its type.
// This is a shape check only — real verification of the code is manual.
func ValidateCouponCode(code, couponType string) bool {
	if code == "" || couponType == "" {
		return false
	}
	expected, ok := CouponCodeLengths[strings.ToLower(couponType)]
	if !ok {
		return false
	}
	if len(code) != expected {
		return false
	}
	return codePattern.MatchString(code)
}

// CouponCodeErrorMessage returns the user-facing failure message for a code
// of the given type.
func CouponCodeErrorMessage(couponType string) string {
	expected, ok := CouponCodeLengths[strings.ToLower(couponType)]
	if !ok {
		return "unrecognized coupon type"
	}
	return fmt.Sprintf("code must contain exactly %d alphanumeric characters", expected)
}

// ParseAmount parses a user-entered amount, accepting either '.' or ',' as
// the decimal separator. Absent or unparsable values contribute zero.
func ParseAmount(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", "."))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ClampNumCoupons bounds a requested coupon count to [MinCoupons, MaxCoupons].
func ClampNumCoupons(n int) int {
	if n < MinCoupons {
		return MinCoupons
	}
	if n > MaxCoupons {
		return MaxCoupons
	}
	return n
}

// Resize reconciles a list against a target length: entries beyond target
// are truncated from the end, missing entries are appended as zero values.
// Retained entries keep their values.
func Resize[T any](list []T, target int) []T {
	if target < 0 {
		target = 0
	}
	if len(list) > target {
		return list[:target]
	}
	for len(list) < target {
		var empty T
		list = append(list, empty)
	}
	return list
}
