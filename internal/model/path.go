// Package model defines the data structures shared across the harness.
package model

// Path represents a file system path.
type Path string

// File represents a discovered source file together with a stable
// fingerprint of its contents.
type File struct {
	Path Path   `yaml:"path"`
	Hash string `yaml:"hash"`
}
