// Package common provides shared utilities for Argos
package common

import "time"

// Freshness TTLs for cached data
const (
	FreshnessDemoData = 24 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated, now time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return now.Sub(updated) < ttl
}
