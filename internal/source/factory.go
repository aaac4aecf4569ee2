package source

import (
	"fmt"
	"io/fs"
)

// Source kinds understood by Factory.
const (
	KindFile     = "file"
	KindXML      = "xml"
	KindAuto     = "auto"
	KindDatabase = "database"
	KindStored   = "stored"
	KindRedis    = "redis"
	KindStatic   = "static"
)

// Kinds lists every kind Factory can build.
var Kinds = []string{KindFile, KindXML, KindAuto, KindDatabase, KindStored, KindRedis, KindStatic}

// Factory builds sources by kind name. Store and Keys are optional; kinds
// that need them fail with ErrConnectionFailure when they are nil.
//
// A zero Factory reads file kinds from any local path. Use Confine for
// refs that come from untrusted callers.
type Factory struct {
	Store            BodyStore
	Keys             KeyReader
	ConnectionString string
	RedisPrefix      string

	confined bool
	files    fs.FS
}

// Confine returns a copy of f whose file kinds only read names inside
// files. Absolute names and names that climb out of the tree yield
// ErrFileNotFound. With a nil files the file kinds yield ErrKindDisabled.
func (f *Factory) Confine(files fs.FS) *Factory {
	c := *f
	c.confined = true
	c.files = files
	return &c
}

// New builds a source of the given kind. ref is the file path, connection
// string, stored message name, Redis key or static body.
func (f *Factory) New(kind, ref string) (Source, error) {
	switch kind {
	case KindFile, KindXML, KindAuto:
		return f.newFile(kind, ref)
	case KindDatabase:
		if ref == "" {
			ref = f.ConnectionString
		}
		return NewDatabase(ref), nil
	case KindStored:
		if f.Store == nil {
			return nil, fmt.Errorf("%w: database is not configured", ErrConnectionFailure)
		}
		return NewStoredMessage(f.Store, ref), nil
	case KindRedis:
		if f.Keys == nil {
			return nil, fmt.Errorf("%w: redis is not configured", ErrConnectionFailure)
		}
		return NewRedis(f.Keys, f.RedisPrefix+ref), nil
	case KindStatic:
		return Static(ref), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

func (f *Factory) newFile(kind, ref string) (Source, error) {
	if !f.confined {
		switch kind {
		case KindXML:
			return NewXMLFile(ref), nil
		case KindAuto:
			return NewAutoFileReader(ref), nil
		default:
			return NewFlatFile(ref), nil
		}
	}

	if f.files == nil {
		return nil, fmt.Errorf("%w: %q needs a files directory", ErrKindDisabled, kind)
	}
	if !fs.ValidPath(ref) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, ref)
	}
	switch kind {
	case KindXML:
		return NewXMLFileFS(f.files, ref), nil
	case KindAuto:
		return NewAutoFileReaderFS(f.files, ref), nil
	default:
		return NewFlatFileFS(f.files, ref), nil
	}
}
