// Package healthcheck implements the client side of the service's liveness
// check. It is used by the healthcheck subcommand so container runtimes can
// probe the service without shipping curl.
package healthcheck
