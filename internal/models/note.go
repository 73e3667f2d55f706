// Package models defines the value types exchanged by the vault graph engine.
package models

import (
	"encoding/json"

	"github.com/starford/vaultgraph/internal/apperr"
)

// NoteExt is the extension that marks a vault file as a note.
const NoteExt = ".md"

// Reference is one inline [[target]] or [[target|display]] occurrence.
type Reference struct {
	Target  string  `json:"target"`
	Display *string `json:"display,omitempty"`
	// Offset is the byte index of the opening "[[" in the source text.
	Offset int `json:"offset"`
}

// Document is a note as read from or written to the vault.
type Document struct {
	Path     string            `json:"path"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	// ModifiedAt is seconds since the epoch; nil when unknown.
	ModifiedAt *int64 `json:"modifiedAt,omitempty"`
}

// VaultConfig describes an opened vault.
type VaultConfig struct {
	RootPath     string `json:"rootPath"`
	Name         string `json:"name"`
	WatchEnabled bool   `json:"watchEnabled"`
}

// IndexStats summarises the search index.
type IndexStats struct {
	NumFiles int `json:"numFiles"`
	NumTerms int `json:"numTerms"`
}

// Encode serialises v into its field-named JSON record.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.Serialization("encode", err)
	}
	return data, nil
}

// Decode parses a JSON record produced by Encode into target.
func Decode(data []byte, target any) error {
	if err := json.Unmarshal(data, target); err != nil {
		return apperr.Serialization("decode", err)
	}
	return nil
}
