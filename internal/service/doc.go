// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// The article service owns the lifecycle of an article: it creates the
// pending record, emits the event that schedules background generation, and
// exposes the operations the task layer uses to record progress and results.
// Transactional boundaries are applied where an operation touches more than
// one row or must stay atomic with a status change.
package service
