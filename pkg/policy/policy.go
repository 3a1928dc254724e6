package policy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Delimiter follows every document in the joined policy text.
const Delimiter = "\n\n---\n\n"

// DefaultMaxSize caps a single document read through FromReader.
const DefaultMaxSize int64 = 5 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is one policy text with the name it was uploaded or loaded under.
type Document struct {
	Name    string
	Content string
}

// Skipped records a document left out of the joined text and why.
type Skipped struct {
	Name   string
	Reason string
}

// ObjectReader fetches remote documents by URI, e.g. s3://bucket/key.
type ObjectReader interface {
	Read(ctx context.Context, uri string) ([]byte, error)
}

// FromBytes decodes data as UTF-8 text. A leading byte order mark is dropped.
func FromBytes(name string, data []byte) (Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return Document{}, fmt.Errorf("%w: %s", ErrNotUTF8, name)
	}
	return Document{Name: name, Content: string(data)}, nil
}

// FromReader reads at most maxSize bytes from r and decodes them as UTF-8.
// A non-positive maxSize means DefaultMaxSize.
func FromReader(name string, r io.Reader, maxSize int64) (Document, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return Document{}, errors.Join(ErrReadFailed, fmt.Errorf("%s: %w", name, err))
	}
	if int64(len(data)) > maxSize {
		return Document{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, name, maxSize)
	}
	return FromBytes(name, data)
}

// Join concatenates document contents, each followed by Delimiter.
// An empty slice yields an empty string.
func Join(docs []Document) string {
	var b strings.Builder
	for _, d := range docs {
		b.WriteString(d.Content)
		b.WriteString(Delimiter)
	}
	return b.String()
}

// IsSkippable reports whether err only disqualifies the one document, as
// opposed to an I/O failure that should abort the whole load.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrNotUTF8) || errors.Is(err, ErrTooLarge)
}

// Loader reads policy documents from local paths and, when configured,
// from remote object storage.
type Loader struct {
	remote  ObjectReader
	maxSize int64
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithObjectReader enables s3:// sources.
func WithObjectReader(r ObjectReader) LoaderOption {
	return func(l *Loader) {
		l.remote = r
	}
}

// WithMaxSize sets the per-document size cap.
func WithMaxSize(n int64) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source in order. Documents that are not valid UTF-8 or
// exceed the size cap are skipped and reported; I/O failures abort the load.
func (l *Loader) Load(ctx context.Context, sources ...string) ([]Document, []Skipped, error) {
	docs := make([]Document, 0, len(sources))
	var skipped []Skipped

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		doc, err := l.load(ctx, src)
		switch {
		case err == nil:
			docs = append(docs, doc)
		case IsSkippable(err):
			skipped = append(skipped, Skipped{Name: src, Reason: err.Error()})
		default:
			return nil, nil, err
		}
	}

	return docs, skipped, nil
}

func (l *Loader) load(ctx context.Context, src string) (Document, error) {
	if IsRemote(src) {
		if l.remote == nil {
			return Document{}, fmt.Errorf("%w: %s", ErrRemoteDisabled, src)
		}
		data, err := l.remote.Read(ctx, src)
		if err != nil {
			return Document{}, errors.Join(ErrReadFailed, err)
		}
		if int64(len(data)) > l.maxSize {
			return Document{}, fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, src, l.maxSize)
		}
		return FromBytes(src, data)
	}

	f, err := os.Open(src)
	if err != nil {
		return Document{}, errors.Join(ErrReadFailed, err)
	}
	defer func() { _ = f.Close() }()

	return FromReader(filepath.Base(src), f, l.maxSize)
}

// IsRemote reports whether src names an object-storage location.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "s3://")
}
