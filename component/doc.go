// Package component defines the lifecycle contract shared by the parts of
// a running cryptokit service.
//
// A Registry starts components in registration order, stops them in
// reverse, and aggregates their health for the /health endpoint.
package component
