package resume

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Record is a single candidate resume: the document that gets attached to an
// application plus the plain text used for matching.
type Record struct {
	Filename string
	Path     string
	Text     string
}

// Collection holds resumes in a stable order. Iteration order is the sorted
// filename order, so "first resume" is deterministic across runs.
type Collection struct {
	Items []*Record
}

var documentExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// LoadDir scans dir for resume documents and builds a collection.
//
// The matching text for a document comes from a sidecar "<name>.txt" file when
// one exists (the usual case for pdf/doc exports), otherwise from the document
// itself when it is already plain text. Documents without any extractable text
// are kept so they can still be attached, just with empty matching text.
func LoadDir(dir string) (*Collection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading resumes dir %q: %w", dir, err)
	}

	collection := &Collection{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !documentExtensions[ext] {
			continue
		}

		// Sidecar text files are matching material, not standalone documents.
		if ext == ".txt" && hasSiblingDocument(entries, name) {
			continue
		}

		path := filepath.Join(dir, name)
		text, err := extractText(dir, name, ext)
		if err != nil {
			return nil, fmt.Errorf("extracting text for %q: %w", name, err)
		}

		collection.Items = append(collection.Items, &Record{
			Filename: name,
			Path:     path,
			Text:     text,
		})
	}

	sort.Slice(collection.Items, func(i, j int) bool {
		return collection.Items[i].Filename < collection.Items[j].Filename
	})

	return collection, nil
}

func hasSiblingDocument(entries []os.DirEntry, txtName string) bool {
	base := strings.TrimSuffix(txtName, ".txt")
	for _, entry := range entries {
		name := entry.Name()
		if name == txtName {
			continue
		}
		if strings.TrimSuffix(name, filepath.Ext(name)) == base {
			return true
		}
	}
	return false
}

func extractText(dir, name, ext string) (string, error) {
	if ext == ".txt" || ext == ".md" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(data)), nil
	}

	sidecar := filepath.Join(dir, strings.TrimSuffix(name, ext)+".txt")
	data, err := os.ReadFile(sidecar)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// First returns the first resume in collection order, or nil when empty.
func (c *Collection) First() *Record {
	if c.Len() == 0 {
		return nil
	}
	return c.Items[0]
}

// Find returns the record with the exact filename, or nil.
func (c *Collection) Find(filename string) *Record {
	for _, record := range c.Items {
		if record.Filename == filename {
			return record
		}
	}
	return nil
}

// FindFold returns the record whose filename matches case-insensitively, or nil.
func (c *Collection) FindFold(filename string) *Record {
	for _, record := range c.Items {
		if strings.EqualFold(record.Filename, filename) {
			return record
		}
	}
	return nil
}

func (c *Collection) Filenames() []string {
	names := make([]string, 0, c.Len())
	for _, record := range c.Items {
		names = append(names, record.Filename)
	}
	return names
}
