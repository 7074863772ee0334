// Package server hosts the Fiber HTTP service: request-ID middleware, the
// catch-all route that hands every non-diagnostic path to the proxy handler,
// and the shared upstream http.Client. Keep exports narrow and accept explicit
// dependencies so main and tests can wire fakes.
package server
