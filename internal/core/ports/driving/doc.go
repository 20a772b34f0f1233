// Package driving provides interfaces for application entry points
// (primary/inbound ports) implemented by core services.
package driving
