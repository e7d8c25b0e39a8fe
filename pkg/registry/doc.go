// Package registry provides a generic, thread-safe name to item registry
// that remembers registration order. Task factories are registered here.
package registry
