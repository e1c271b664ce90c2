// Package app defines the runtime contract shared by cmd/* entrypoints.
package app

// Runner represents a runnable application component.
type Runner interface {
	Run() error
}
