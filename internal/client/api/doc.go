// Package api contains the client-side boundary with the AgriTrack backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) covering
//     auth, product CRUD, tracking stages, dashboard stats, farms, and the
//     product event stream.
//  2. A concrete REST/JSON implementation (see RESTClient) that injects the
//     session's bearer token and a request id via an http.RoundTripper and
//     maps HTTP status codes to sentinel errors.
//
// # Error Handling
//
// Backend failures surface as the sentinel errors of internal/common, matched
// with errors.Is: ErrUnauthorized, ErrPermissionDenied, ErrNotFound,
// ErrValidation, ErrUnavailable, ErrInternal. Messages returned by the backend
// are wrapped around the sentinel so the user still sees them.
//
// All operations accept context.Context and honor cancellation/timeouts.
package api
