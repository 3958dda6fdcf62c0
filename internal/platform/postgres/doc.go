// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations use the pgx driver through database/sql
// and map driver errors onto the store package's error taxonomy.
package postgres
