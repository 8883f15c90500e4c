// Package middleware contains shared Gin middleware used by the gateway.
//
// This file provides RPCErrors, the last line of error normalization on the
// gateway side. Handlers render their own failures; this interceptor catches
// errors that were attached to the Gin context but never written, so no
// request can escape without the standard JSON envelope.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/status"
)

// RPCErrors returns a middleware that converts unwritten context errors into
// the normalized JSON error envelope.
//
// After the handler chain runs, if errors were collected via c.Error() and no
// response body has been written, the first error is rendered:
//
//   - a gRPC status error becomes 400 with the status message, matching how
//     handlers collapse backend failures by default
//   - anything else becomes a 500 with a generic message, never leaking the
//     underlying error text
//
// Place after Logger() so the rendered status is picked up by the access log.
func RPCErrors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		rid, _ := c.Get(requestIDKey)
		err := c.Errors[0].Err

		httpStatus := http.StatusInternalServerError
		code := "internal_error"
		msg := "internal server error"
		if st, ok := status.FromError(err); ok {
			httpStatus = http.StatusBadRequest
			code = "upstream_error"
			msg = st.Message()
		}

		c.JSON(httpStatus, gin.H{
			"request_id": asString(rid),
			"statusCode": httpStatus,
			"code":       code,
			"message":    msg,
		})
	}
}
