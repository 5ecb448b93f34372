package content

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadDocument decodes a document from r.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return d, fmt.Errorf("decode document: %w", err)
	}
	return d, nil
}

// ReadDocumentFile reads a document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocument encodes a document as indented JSON to w.
func WriteDocument(d Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteDocumentFile writes a document to a JSON file.
func WriteDocumentFile(d Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteDocument(d, f)
}
