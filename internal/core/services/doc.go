// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services never import adapters. Request IDs come from google/uuid and
// name suggestions from agnivade/levenshtein; everything else is pure Go.
package services
