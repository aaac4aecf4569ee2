package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FlatFile returns the whole content of a plain text file.
type FlatFile struct {
	fsys fs.FS
	path string
}

// NewFlatFile creates a FlatFile source for path.
func NewFlatFile(path string) *FlatFile {
	return &FlatFile{path: path}
}

// NewFlatFileFS creates a FlatFile source that reads name from fsys.
func NewFlatFileFS(fsys fs.FS, name string) *FlatFile {
	return &FlatFile{fsys: fsys, path: name}
}

// MessageBody reads the file.
func (f *FlatFile) MessageBody(context.Context) (string, error) {
	return readFile(f.fsys, f.path)
}

// String names the source for logs.
func (f *FlatFile) String() string {
	return "file:" + f.path
}

// XMLFile returns the content of an XML file verbatim.
//
// The document is not parsed: the body is whatever the file holds, markup
// included. Use a FileReader with XMLFormat to extract <email><body>.
type XMLFile struct {
	fsys fs.FS
	path string
}

// NewXMLFile creates an XMLFile source for path.
func NewXMLFile(path string) *XMLFile {
	return &XMLFile{path: path}
}

// NewXMLFileFS creates an XMLFile source that reads name from fsys.
func NewXMLFileFS(fsys fs.FS, name string) *XMLFile {
	return &XMLFile{fsys: fsys, path: name}
}

// MessageBody reads the file.
func (x *XMLFile) MessageBody(context.Context) (string, error) {
	return readFile(x.fsys, x.path)
}

// String names the source for logs.
func (x *XMLFile) String() string {
	return "xml:" + x.path
}

// readFile reads path from the local filesystem, or from fsys when it is
// set. Reads through fsys report every lookup failure as ErrFileNotFound so
// that names outside the tree are indistinguishable from missing ones.
func readFile(fsys fs.FS, path string) (string, error) {
	if fsys != nil {
		return readFileFS(fsys, path)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

func readFileFS(fsys fs.FS, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}

	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrFileNotFound, name)
	}

	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}
