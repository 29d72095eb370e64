package tui

import "errors"

// ErrMissingSelectionController is returned when the selection controller is not provided.
var ErrMissingSelectionController = errors.New("tui: selection controller is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
