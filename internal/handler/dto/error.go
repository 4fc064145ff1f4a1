// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse is the body returned for every failed request. Detail is
// always human-readable; internal stack traces never appear here.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}
