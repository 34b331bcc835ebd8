// Package storage defines the diagram workspace file-system abstraction.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/starford/graphol/internal/models"
)

// Provider is the interface for workspace file operations.
type Provider interface {
	// List returns metadata for every diagram document under dir (relative to the workspace root).
	List(dir string) ([]models.DiagramMetadata, error)
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path (relative to the workspace root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to the workspace root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to the workspace root).
	Delete(path string) error
	// Move renames oldPath to newPath (both relative to the workspace root).
	Move(oldPath, newPath string) error
}

// IsDiagramFile reports whether name has a diagram document extension.
func IsDiagramFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Checksum returns the hex-encoded SHA-256 digest of data.
func Checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
