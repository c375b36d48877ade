// Package http provides the chi-based delivery handlers for the shopgate
// pipeline: request dispatch, static asset serving with cache and
// compression policy, SPA shell serving, and the shared structured error
// responder.
package http
