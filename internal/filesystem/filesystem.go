// Package filesystem holds the swappable afero backend used for every file
// the tool reads.
package filesystem

import "github.com/spf13/afero"

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active filesystem.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the operating system filesystem.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches to an empty in-memory filesystem and returns it.
func SetMemMapFs() afero.Afero {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
	return backend
}
