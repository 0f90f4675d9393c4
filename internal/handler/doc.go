// Package handler implements the service's request handler: a fixed routing
// table with an identity route, a health route and a JSON 404 fallback, plus
// the instrumentation middleware that logs and measures each request.
package handler
