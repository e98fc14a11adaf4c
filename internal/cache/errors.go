package cache

import "fmt"

// DatasetUnavailableError is returned when the station dataset cannot be
// fetched, either because of a transport failure or a non-2xx response.
type DatasetUnavailableError struct {
	StatusCode int
	Excerpt    string
	Err        error
}

func (e *DatasetUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("station dataset unavailable: %v", e.Err)
	}
	return fmt.Sprintf("station dataset unavailable: HTTP %d: %s", e.StatusCode, e.Excerpt)
}

func (e *DatasetUnavailableError) Unwrap() error {
	return e.Err
}

// NewDatasetStatusError reports a non-2xx response. The body is truncated to
// keep logs readable.
func NewDatasetStatusError(statusCode int, body []byte) *DatasetUnavailableError {
	return &DatasetUnavailableError{
		StatusCode: statusCode,
		Excerpt:    excerpt(body, maxExcerptBytes),
	}
}

// NewDatasetTransportError wraps a failure that produced no usable response.
func NewDatasetTransportError(err error) *DatasetUnavailableError {
	return &DatasetUnavailableError{
		Err: err,
	}
}

const maxExcerptBytes = 200

func excerpt(body []byte, limit int) string {
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "…"
}
