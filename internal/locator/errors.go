package locator

import "fmt"

// InvalidPostalCodeError is returned for input that is not a 4-digit Swiss
// postal code. It is detected before any network call.
type InvalidPostalCodeError struct {
	Input string
}

func (e *InvalidPostalCodeError) Error() string {
	return fmt.Sprintf("invalid postal code %q: expected 4 digits", e.Input)
}

func NewInvalidPostalCodeError(input string) *InvalidPostalCodeError {
	return &InvalidPostalCodeError{Input: input}
}

// GeocodingMalformedError is returned when the geocoder found a match whose
// coordinates are not finite numbers.
type GeocodingMalformedError struct {
	PostalCode string
	Lat        string
	Lon        string
	Err        error
}

func (e *GeocodingMalformedError) Error() string {
	return fmt.Sprintf("geocoding result for %s has malformed coordinates (lat=%q, lon=%q)", e.PostalCode, e.Lat, e.Lon)
}

func (e *GeocodingMalformedError) Unwrap() error {
	return e.Err
}

func NewGeocodingMalformedError(postalCode, lat, lon string, err error) *GeocodingMalformedError {
	return &GeocodingMalformedError{
		PostalCode: postalCode,
		Lat:        lat,
		Lon:        lon,
		Err:        err,
	}
}
