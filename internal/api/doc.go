// Package api contains the HTTP delivery layer: request/response models,
// handlers, and the error mapping that keeps internal error details out of
// client responses. Handlers validate input, delegate to the service layer,
// and translate service errors to HTTP status codes.
package api
