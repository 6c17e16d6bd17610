package bizcard

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the library.
var (
	// ErrClosed is returned when attempting to use a closed [Converter].
	ErrClosed = errors.New("bizcard: converter is closed")

	// ErrMissingUserContext is returned when a card is requested without a
	// user id. No fetch is issued.
	ErrMissingUserContext = errors.New("bizcard: user id not found")

	// ErrNoCardData is returned when an export is requested before any card
	// data was generated.
	ErrNoCardData = errors.New("bizcard: no card data available")

	// ErrFetchFailure matches any [*FetchError].
	ErrFetchFailure = errors.New("bizcard: fetch failed")

	// ErrCaptureFailure matches any [*CaptureError].
	ErrCaptureFailure = errors.New("bizcard: capture failed")

	// ErrAssemblyFailure matches any [*AssemblyError].
	ErrAssemblyFailure = errors.New("bizcard: assembly failed")

	// ErrInvalidColorFormat matches any [*ColorFormatError].
	ErrInvalidColorFormat = errors.New("bizcard: invalid color format")

	ErrUnknownVariant = errors.New("bizcard: unknown variant")
	ErrUnknownSide    = errors.New("bizcard: unknown side")
)

// ColorFormatError reports a theme color that is not a six digit hex value.
type ColorFormatError struct {
	Value string
}

func (e *ColorFormatError) Error() string {
	return fmt.Sprintf("bizcard: invalid color format %q: want #RRGGBB", e.Value)
}

func (e *ColorFormatError) Is(target error) bool { return target == ErrInvalidColorFormat }

// FetchError reports a failed remote call. Op names the call that failed.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("bizcard: fetching %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetchFailure }

// CaptureError reports a failed rasterization of one card face.
type CaptureError struct {
	Side Side
	Err  error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("bizcard: capturing %s face: %v", e.Side, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

func (e *CaptureError) Is(target error) bool { return target == ErrCaptureFailure }

// AssemblyError reports a failure while building the PDF document.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("bizcard: assembling document: %v", e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

func (e *AssemblyError) Is(target error) bool { return target == ErrAssemblyFailure }

// UserMessage returns the short, user-facing text for err. It is meant for
// toasts and HTTP error bodies, never for logs.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingUserContext):
		return "User ID not found. Please try logging in again."
	case errors.Is(err, ErrNoCardData):
		return "No card data available for PDF generation"
	case errors.Is(err, ErrFetchFailure):
		return "Failed to fetch data for business card. Please try again."
	case errors.Is(err, ErrInvalidColorFormat):
		return "The configured theme color is not a valid #RRGGBB value."
	case errors.Is(err, ErrUnknownVariant), errors.Is(err, ErrUnknownSide):
		return "Unknown card type or side."
	case errors.Is(err, ErrCaptureFailure), errors.Is(err, ErrAssemblyFailure):
		return "Failed to download PDF. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
