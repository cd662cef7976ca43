package api

import (
	"net/http"

	"github.com/labstack/echo"
)

// errorBody is the uniform error payload of every endpoint
type errorBody struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func successResponse(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func badRequestResponse(c echo.Context, message string, details map[string]string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Message: message, Details: details})
}

func notFoundResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, errorBody{Message: message})
}

func tooManyRequestsResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusTooManyRequests, errorBody{Message: message})
}

func internalServerErrorResponse(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, errorBody{Message: message})
}

// handlePreflight answers CORS preflight requests with an empty success body
func handlePreflight(c echo.Context) error {
	return c.JSON(http.StatusOK, struct{}{})
}
