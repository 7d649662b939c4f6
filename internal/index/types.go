// Package index implements the symbol index backing search. Symbols are
// extracted from source files by a lightweight line scanner and stored
// in a Bleve full-text index; the package exposes the single-query
// search primitive the search core fans out over.
package index

import "fmt"

// Document is one indexed symbol.
type Document struct {
	// ID uniquely identifies the symbol within the index.
	ID string `json:"id"`

	// Path is the file the symbol was found in, relative to the project root.
	Path string `json:"path"`

	// Name is the symbol name.
	Name string `json:"name"`

	// Kind is the symbol kind: "function", "class", "type" or "method".
	Kind string `json:"kind"`

	// Language is the source language, e.g. "go" or "python".
	Language string `json:"language"`

	// Line is the 1-based line number of the symbol definition.
	Line int `json:"line"`

	// Content is the definition line plus a little surrounding context,
	// used for full-text matching.
	Content string `json:"content"`
}

// DocID builds the canonical document ID for a symbol occurrence.
func DocID(path string, line int, name string) string {
	return fmt.Sprintf("%s:%d:%s", path, line, name)
}
