package orrery

import "errors"

var (
	// ErrUnknownBody indicates a body id that is not in the catalog.
	ErrUnknownBody = errors.New("orrery: unknown body")

	// ErrDegenerateViewport indicates a resize to a zero or negative size.
	ErrDegenerateViewport = errors.New("orrery: degenerate viewport")

	// ErrUnknownTheme indicates a theme name other than dark or light.
	ErrUnknownTheme = errors.New("orrery: unknown theme")
)
