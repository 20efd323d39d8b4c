// Package storage describes the local key/value store the record stores persist into.
// Values are opaque strings (JSON arrays in practice), keys are fixed per record kind.
package storage

import "context"

type KV interface {
	// GetItem returns ok=false when the key was never written.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
}

const (
	ShipmentsKey = "packageTrackerShipments"
	ContactsKey  = "phoneContacts"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)
