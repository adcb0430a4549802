// Package storage defines the plugin data directory abstraction.
package storage

// Provider is the interface for data directory file operations.
// All paths are relative to the directory root.
type Provider interface {
	// List returns the names of the files directly under the root whose name
	// matches the glob pattern, in directory listing order.
	List(pattern string) ([]string, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Path returns the absolute path of a file.
	Path(path string) (string, error)
}
