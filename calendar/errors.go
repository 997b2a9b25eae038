/*
errors.go - Centralized error types for the calendar core

PURPOSE:
  All error types in one place for consistency and discoverability.
  Provider implementations and the API layer wrap or classify these.

ERROR CATEGORIES:
  1. Input errors - Malformed dates, ranges, country codes
  2. Provider errors - Upstream holiday fetch failures

USAGE:
  Callers classify with errors.Is or the helpers below:

    if calendar.IsClientError(err) {
        // 400, the request was wrong
    }
    if errors.Is(err, calendar.ErrUnsupportedCountry) {
        // 404, the provider has no data for this country
    }

SEE ALSO:
  - business.go: Returns these errors
  - provider/nager: Produces ProviderError values
  - api/handlers.go: Maps them to HTTP statuses
*/
package calendar

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date string is malformed or names an
	// impossible day, such as 2023-02-29.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidCountry is returned when a country code is not two letters.
	ErrInvalidCountry = errors.New("invalid country code")

	// ErrNonPositiveDays is returned when a business-day walk is asked to
	// add fewer than one day.
	ErrNonPositiveDays = errors.New("days to add must be at least 1")

	// ErrCountryCount is returned when a comparison names fewer than two or
	// more than five countries.
	ErrCountryCount = errors.New("comparison requires between 2 and 5 countries")

	// ErrProviderFailure is returned when an upstream holiday fetch fails.
	ErrProviderFailure = errors.New("holiday provider failure")

	// ErrUnsupportedCountry is returned when the provider has no data for a
	// country. It counts as a provider failure for aggregation purposes.
	ErrUnsupportedCountry = fmt.Errorf("unsupported country: %w", ErrProviderFailure)
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidDateError reports the input that failed to parse.
type InvalidDateError struct {
	Input string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q, want YYYY-MM-DD", e.Input)
}

func (e *InvalidDateError) Unwrap() error {
	return ErrInvalidDate
}

// InvalidRangeError reports an inverted range.
type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: end %s before start %s", e.End, e.Start)
}

func (e *InvalidRangeError) Unwrap() error {
	return ErrInvalidRange
}

// InvalidCountryError reports a malformed country code.
type InvalidCountryError struct {
	Code string
}

func (e *InvalidCountryError) Error() string {
	return fmt.Sprintf("invalid country code %q, want two letters", e.Code)
}

func (e *InvalidCountryError) Unwrap() error {
	return ErrInvalidCountry
}

// ProviderError reports an upstream fetch failure for one country-year.
// Kind is ErrUnsupportedCountry when the source has no data for the country
// and ErrProviderFailure for everything else.
type ProviderError struct {
	Country string
	Year    int
	Status  int   // HTTP status when the source is remote, else 0
	Kind    error // sentinel this error unwraps to
	Cause   error // underlying transport or decode error, may be nil
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("holiday provider failed for %s/%d", e.Country, e.Year)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// NewProviderError wraps an upstream failure for one country-year.
func NewProviderError(country string, year, status int, cause error) *ProviderError {
	return &ProviderError{Country: country, Year: year, Status: status, Kind: ErrProviderFailure, Cause: cause}
}

// NewUnsupportedCountryError marks a country the source cannot serve.
func NewUnsupportedCountryError(country string, year int) *ProviderError {
	return &ProviderError{Country: country, Year: year, Kind: ErrUnsupportedCountry}
}

// =============================================================================
// COUNTRY CODES
// =============================================================================

// NormalizeCountry validates a two-letter country code and uppercases it.
// Input is case-insensitive: "us", "Us" and "US" all normalize to "US".
func NormalizeCountry(code string) (string, error) {
	if len(code) != 2 || !isLetter(code[0]) || !isLetter(code[1]) {
		return "", &InvalidCountryError{Code: code}
	}
	return strings.ToUpper(code), nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidCountry) ||
		errors.Is(err, ErrNonPositiveDays) ||
		errors.Is(err, ErrCountryCount)
}

// IsUnsupportedCountry returns true if the provider has no data for the
// requested country.
func IsUnsupportedCountry(err error) bool {
	return errors.Is(err, ErrUnsupportedCountry)
}

// IsProviderFailure returns true for any upstream fetch failure, including
// unsupported countries.
func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrProviderFailure)
}
