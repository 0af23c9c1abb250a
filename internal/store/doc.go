// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduler's core logic. Implementations live under internal/platform.
package store
