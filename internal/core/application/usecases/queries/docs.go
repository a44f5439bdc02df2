// Package queries contains the read side of the service. Query handlers
// bypass the domain model and read directly from the database with raw SQL,
// returning flat read models shaped for the transport layer.
package queries
