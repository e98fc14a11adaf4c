package geocode

import "fmt"

// GeocodingFailedError is returned when the geocoding service cannot be
// reached, answers with a non-2xx status or returns something that is not JSON.
type GeocodingFailedError struct {
	StatusCode int
	Err        error
}

func (e *GeocodingFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("geocoding failed: %v", e.Err)
	}
	return fmt.Sprintf("geocoding failed: HTTP %d", e.StatusCode)
}

func (e *GeocodingFailedError) Unwrap() error {
	return e.Err
}

func NewGeocodingFailedError(statusCode int, err error) *GeocodingFailedError {
	return &GeocodingFailedError{
		StatusCode: statusCode,
		Err:        err,
	}
}
