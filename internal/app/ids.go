package app

import (
	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
)

// newSessionID returns an opaque, URL-safe session identifier.
func newSessionID() string { return uuid.NewString() }

// newSessionName returns a human-friendly label such as "brave-otter".
func newSessionName() string { return petname.Generate(2, "-") }
