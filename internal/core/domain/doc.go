// Package domain contains the core business entities for docuchat.
// Types here have no dependencies on adapters or infrastructure.
package domain
