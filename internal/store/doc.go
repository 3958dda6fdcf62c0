// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying storage mechanism from the
// application's core logic, so article and task handling stay independent
// of the specific database technology behind them.
package store
