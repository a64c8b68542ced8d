package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/driftmarine/tidecast/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type ForecastResponse struct {
	APIResponse
	Forecast *models.TideForecast `json:"forecast"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewForecastResponse(forecast *models.TideForecast) *ForecastResponse {
	return &ForecastResponse{
		APIResponse: APIResponse{ResponseType: "forecast"},
		Forecast:    forecast,
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

// Parameter parsing helpers
func ParseLocation(params map[string]string) (models.Location, error) {
	lat, err := strconv.ParseFloat(params["lat"], 64)
	if err != nil {
		return models.Location{}, models.ErrInvalidLocation
	}

	lng, err := strconv.ParseFloat(params["lng"], 64)
	if err != nil {
		return models.Location{}, models.ErrInvalidLocation
	}

	loc := models.Location{Latitude: lat, Longitude: lng}
	if err := loc.Validate(); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

// ParseDays reads the forecast window length, defaulting when absent.
func ParseDays(params map[string]string, defaultDays int) (int, error) {
	str, ok := params["days"]
	if !ok {
		return defaultDays, nil
	}

	days, err := strconv.Atoi(str)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("invalid days parameter %q", str)
	}
	return days, nil
}
