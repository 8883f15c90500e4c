// Package handlers provides the gateway's HTTP handler implementations.
//
// This file defines the standard response utilities used across all
// endpoints: a structured error envelope and helpers for success responses.
// Every failure path, whether raised locally or normalized from an RPC
// status, emits the same envelope shape so clients never see a framework
// default page.
//
// Example error response:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "statusCode": 400,
//	  "code": "upstream_error",
//	  "message": "course already exists"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulab/go-course-platform/internal/http/middleware"
)

// ErrorResponse is the normalized error envelope returned by the gateway.
//
// Fields:
//   - RequestID: correlation id echoed from X-Request-ID, when present.
//   - StatusCode: the numeric HTTP status, duplicated in the body so
//     clients reading only the payload still see the outcome class.
//   - Code: stable machine-readable string (see errors.go constants).
//   - Message: human-readable description, safe to display.
type ErrorResponse struct {
	RequestID  string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	StatusCode int    `json:"statusCode" example:"400"`
	Code       string `json:"code" example:"bad_request"`
	Message    string `json:"message" example:"course id must be a positive integer"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID:  c.Writer.Header().Get("X-Request-ID"),
		StatusCode: status,
		Code:       code,
		Message:    msg,
	}

	// 5xx responses are logged with the request-scoped logger.
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("gateway error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail(), used by router fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
