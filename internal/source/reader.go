package source

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"io/fs"
	"strings"
)

// FormatReader extracts a message body from raw file contents.
type FormatReader interface {
	// CanHandle reports whether the reader understands contents.
	CanHandle(contents string) bool
	// MessageBody extracts the body from contents.
	MessageBody(contents string) (string, error)
}

// FileReader reads a file and hands its contents to the first registered
// FormatReader that can handle them.
type FileReader struct {
	fsys     fs.FS
	path     string
	readers  []FormatReader
	fallback FormatReader
}

// NewFileReader creates a FileReader for path with no format readers.
func NewFileReader(path string) *FileReader {
	return &FileReader{path: path}
}

// NewAutoFileReader creates a FileReader that understands XML documents
// carrying an <email><body> element and falls back to the flat content.
func NewAutoFileReader(path string) *FileReader {
	r := NewFileReader(path)
	r.Register(XMLFormat{})
	r.RegisterDefault(FlatFormat{})
	return r
}

// NewAutoFileReaderFS is NewAutoFileReader reading name from fsys.
func NewAutoFileReaderFS(fsys fs.FS, name string) *FileReader {
	r := NewAutoFileReader(name)
	r.fsys = fsys
	return r
}

// Register appends a format reader. Readers are tried in registration order.
func (r *FileReader) Register(fr FormatReader) *FileReader {
	r.readers = append(r.readers, fr)
	return r
}

// RegisterDefault sets the reader used when no registered reader can handle
// the contents.
func (r *FileReader) RegisterDefault(fr FormatReader) *FileReader {
	r.fallback = fr
	return r
}

// MessageBody reads the file and parses it with the first matching reader.
// With no matching reader and no default the body is empty.
func (r *FileReader) MessageBody(context.Context) (string, error) {
	contents, err := readFile(r.fsys, r.path)
	if err != nil {
		return "", err
	}

	for _, fr := range r.readers {
		if fr.CanHandle(contents) {
			return fr.MessageBody(contents)
		}
	}
	if r.fallback != nil {
		return r.fallback.MessageBody(contents)
	}
	return "", nil
}

// String names the source for logs.
func (r *FileReader) String() string {
	return "auto:" + r.path
}

// FlatFormat handles any contents and returns them unchanged.
type FlatFormat struct{}

// CanHandle always returns true.
func (FlatFormat) CanHandle(string) bool { return true }

// MessageBody returns contents.
func (FlatFormat) MessageBody(contents string) (string, error) { return contents, nil }

// XMLFormat handles well-formed XML documents and returns the text of the
// email/body element found directly below the root element.
type XMLFormat struct{}

type xmlEnvelope struct {
	Email struct {
		Body *string `xml:"body"`
	} `xml:"email"`
}

// CanHandle reports whether contents is a well-formed XML document.
func (XMLFormat) CanHandle(contents string) bool {
	dec := xml.NewDecoder(strings.NewReader(contents))
	depth, roots := 0, 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return roots == 1 && depth == 0
		}
		if err != nil {
			return false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && strings.TrimSpace(string(t)) != "" {
				return false
			}
		}
	}
}

// MessageBody returns the text of email/body, or an empty string when the
// document has no such element.
func (XMLFormat) MessageBody(contents string) (string, error) {
	var env xmlEnvelope
	if err := xml.Unmarshal([]byte(contents), &env); err != nil {
		return "", err
	}
	if env.Email.Body == nil {
		return "", nil
	}
	return *env.Email.Body, nil
}
