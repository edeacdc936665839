// Copyright (c) 2026 Client Pulse. All rights reserved.
// Author: hello@manilee.dev

/*
Package uuid provides time-ordered unique identifiers for the service.

It wraps the standard UUID library to specifically generate Version 7 values.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Compact: 128-bit storage, standard string form.

Browser session identifiers and request correlation IDs are minted here.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUID: " + err.Error())
	}

	// Convert the UUID to a string
	return id.String()
}
