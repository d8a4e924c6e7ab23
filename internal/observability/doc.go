// Package observability builds the structured logger shared by the
// management API components.
package observability
