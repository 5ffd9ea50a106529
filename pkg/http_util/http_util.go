package http_util

import (
	"encoding/json"
	"fmt"

	"github.com/labstack/echo"
)

type ErrorResponse struct {
	Property string `json:"property"`
	Detail   string `json:"detail"`
}

type HTTPResponse[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type HTTPErrorResponse[T any] struct {
	HTTPResponse[T]
	Errors []ErrorResponse `json:"errors"`
}

func Encode[T any](c echo.Context, status int, v T) error {
	return c.JSON(status, v)
}

func Decode[T any](c echo.Context) (T, error) {
	var v T
	if err := c.Bind(&v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}

func DecodeBody[T any](body []byte, v T) (T, error) {
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("decode json: %w", err)
	}
	return v, nil
}
