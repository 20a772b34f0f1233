package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates missing or invalid configuration.
	// Examples: a missing provider API key, or a query embedding whose
	// dimensionality does not match the indexed corpus. Fatal, never retried.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransport indicates a network or auth failure calling a provider.
	// A provider timeout surfaces as this same kind rather than as a
	// silent hang.
	ErrTransport = errors.New("transport error")

	// ErrParse indicates unreadable or malformed document content.
	// Recovered locally with a safe fallback; never fatal to a full load.
	ErrParse = errors.New("parse error")

	// ErrStream indicates a mid-stream decode failure or connection drop
	// during a completion. Distinct from normal end-of-stream so consumers
	// can offer a retry while keeping partial content already received.
	ErrStream = errors.New("stream error")

	// ErrSessionBusy indicates a chat session already has a message in flight.
	ErrSessionBusy = errors.New("session busy")

	// ErrNoCorpus indicates no embeddings artifact has been built yet.
	ErrNoCorpus = errors.New("no content indexed")
)
