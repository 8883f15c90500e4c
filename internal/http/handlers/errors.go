// Package handlers defines HTTP-layer error codes used across the gateway.
//
// These symbolic constants supplement the numeric statusCode carried in every
// error envelope, giving clients a stable machine-readable taxonomy.
//
// Conventions:
//   - Codes are lowercase, snake_case, and mirror common HTTP semantics.
//   - The gateway deliberately collapses backend RPC failures into
//     ErrCodeUpstream at the dispatch layer; the numeric status stays in
//     the client-error class unless status-aware remapping is enabled.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeUpstream         = "upstream_error"
	ErrCodeBadGateway       = "bad_gateway"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
)
