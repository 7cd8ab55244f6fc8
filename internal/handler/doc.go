// Package handler implements HTTP request handlers for the blogauto API.
//
// SurfaceHandler exposes editing sessions over REST: open a surface, feed it
// input and cursor moves, read its presence snapshot in JSON or YAML, manage
// collaborators and fetch the saved draft. WSHandler carries the same input
// over a WebSocket and streams the surface's events back.
//
// Errors are returned as JSON with an {error, details} structure and a status
// code derived from the domain sentinel errors.
//
// Middleware provides panic recovery, CORS and request logging.
package handler
