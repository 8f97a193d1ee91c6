// Package component defines the lifecycle contract for the parts of a
// running service and an ordered registry that starts them in registration
// order and stops them in reverse.
package component
