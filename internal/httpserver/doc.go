// Package httpserver wraps net/http.Server with a separate bind step so
// startup failures surface before the service reports itself as serving.
package httpserver
