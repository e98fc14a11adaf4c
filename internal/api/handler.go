package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"github.com/bbernstein/evfinder/backend-go/internal/cache"
	"github.com/bbernstein/evfinder/backend-go/internal/geocode"
	"github.com/bbernstein/evfinder/backend-go/internal/locator"
	"github.com/bbernstein/evfinder/backend-go/internal/mapview"
	"github.com/bbernstein/evfinder/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Status   models.LookupStatus    `json:"status"`
	Origin   *models.GeoPoint       `json:"origin,omitempty"`
	Stations []models.RankedStation `json:"stations"`
	Map      *mapview.Plan          `json:"map,omitempty"`
}

type FocusResponse struct {
	APIResponse
	Map mapview.Plan `json:"map"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

// NewStationsResponse attaches a map plan whenever the query point is known.
func NewStationsResponse(result *models.LocatorResult) *StationsResponse {
	resp := &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Status:      result.Status,
		Origin:      result.Origin,
		Stations:    result.Stations,
	}
	if resp.Stations == nil {
		resp.Stations = []models.RankedStation{}
	}
	if result.Origin != nil {
		plan := mapview.BuildPlan(result.Stations, *result.Origin)
		resp.Map = &plan
	}
	return resp
}

func NewFocusResponse(plan mapview.Plan) *FocusResponse {
	return &FocusResponse{
		APIResponse: APIResponse{ResponseType: "focus"},
		Map:         plan,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// FromError maps locator failures to a status code and a user facing message.
func FromError(err error) (events.APIGatewayProxyResponse, error) {
	var (
		invalidPostalCode *locator.InvalidPostalCodeError
		malformed         *locator.GeocodingMalformedError
		geocodingFailed   *geocode.GeocodingFailedError
		datasetErr        *cache.DatasetUnavailableError
	)

	switch {
	case errors.As(err, &invalidPostalCode):
		return Error("Please enter a valid 4-digit postal code", http.StatusBadRequest)
	case errors.As(err, &malformed):
		return Error("Geocoding returned invalid coordinates", http.StatusBadGateway)
	case errors.As(err, &geocodingFailed):
		return Error("Postal code lookup failed", http.StatusBadGateway)
	case errors.As(err, &datasetErr):
		return Error("Charging station dataset unavailable", http.StatusServiceUnavailable)
	default:
		return Error("Error finding stations", http.StatusInternalServerError)
	}
}

// Parameter parsing helpers

// ParseCoordinates reads a coordinate pair from the given keys. ok is false
// when neither key is present.
func ParseCoordinates(params map[string]string, latKey, lonKey string) (models.GeoPoint, bool, error) {
	latStr, hasLat := params[latKey]
	lonStr, hasLon := params[lonKey]

	if !hasLat && !hasLon {
		return models.GeoPoint{}, false, nil
	}
	if !hasLat || !hasLon {
		return models.GeoPoint{}, true, InvalidCoordinatesError{}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.GeoPoint{}, true, InvalidCoordinatesError{}
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return models.GeoPoint{}, true, InvalidCoordinatesError{}
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return models.GeoPoint{}, true, InvalidCoordinatesError{}
	}

	return models.GeoPoint{Latitude: lat, Longitude: lon}, true, nil
}

// ParseLimit returns the requested result size, or 0 to use the default.
func ParseLimit(params map[string]string) int {
	if limitStr, ok := params["limit"]; ok {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			return parsedLimit
		}
	}
	return 0
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}
