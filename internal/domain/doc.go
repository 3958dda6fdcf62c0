// Package domain defines the core business entities of the service:
// articles generated from a topic brief, their sections, and the
// illustrations attached to them. Entities validate themselves and
// carry no knowledge of storage or external providers.
package domain
