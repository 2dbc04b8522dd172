package source

import (
	"fmt"
	"os"
	"path/filepath"

	"go.lsp.dev/uri"
)

// Context owns every file buffer opened for one CompilerInvocation (and, for
// a CompiledPreamble, for the life of the shared preamble). It assigns
// FileIDs and resolves #include search paths.
//
// Grounded on the teacher's pkg/sexp/source_file.go, which owns a single
// buffer for the life of a parse; generalized here to own many buffers
// (main file plus every transitively #include'd file) and to resolve
// include search paths, neither of which the teacher's single-file S-
// expression reader needs.
type Context struct {
	files       map[FileID]*File
	nextID      FileID
	includeDirs []string
	columns     ColumnEncoding
	finalized   bool
}

// NewContext constructs an empty SourceContext. columns selects UTF-8 or
// UTF-16 column counting for every file subsequently opened, per spec
// section 9's countUtf16Characters option.
func NewContext(columns ColumnEncoding, includeDirs ...string) *Context {
	return &Context{
		files:       make(map[FileID]*File),
		nextID:      firstUserFileID,
		includeDirs: includeDirs,
		columns:     columns,
	}
}

// OpenFromBuffer registers an in-memory buffer as a main-file translation
// unit and returns its FileID.
func (c *Context) OpenFromBuffer(name string, text string) FileID {
	return c.open(name, uri.File(name), []byte(text), true)
}

// OpenFromFile reads path from disk and registers it as a main-file
// translation unit. A missing or unreadable file yields NoFile rather than
// an exception, per spec section 4.2.
func (c *Context) OpenFromFile(path string) FileID {
	data, err := os.ReadFile(path)
	if err != nil {
		return NoFile
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return c.open(path, uri.File(abs), data, true)
}

// openInclude registers a file reached via #include; it is never itself a
// main file.
func (c *Context) openInclude(path string) (FileID, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NoFile, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return c.open(path, uri.File(abs), data, false), nil
}

func (c *Context) open(path string, docURI uri.URI, data []byte, isMain bool) FileID {
	if c.finalized {
		panic("source.Context: Open called after Finalize")
	}

	id := c.nextID
	c.nextID++
	c.files[id] = &File{
		id:      id,
		path:    path,
		uri:     docURI,
		runes:   decodeSource(data),
		isMain:  isMain,
		columns: c.columns,
	}

	return id
}

// File returns the buffer registered under id, or (nil, false) if id is not
// known to this context (including SystemPreambleFile/UserPreambleFile,
// which belong to a CompiledPreamble's own Context).
func (c *Context) File(id FileID) (*File, bool) {
	f, ok := c.files[id]
	return f, ok
}

// adopt registers a file owned by another Context (typically a
// CompiledPreamble's) under a reserved FileID, so lookups against this
// context succeed for preamble-originated tokens without copying the buffer.
func (c *Context) adopt(id FileID, f *File) {
	c.files[id] = f
}

// ResolveInclude resolves a header name referenced by a #include directive
// in fromFile. Quoted form ("foo.glsl") is resolved relative to fromFile's
// directory first, then falls back to the angled search path; angled form
// (<foo.glsl>) searches only the configured include directories.
func (c *Context) ResolveInclude(fromFile FileID, headerName string, quoted bool) (FileID, error) {
	var candidates []string

	if quoted {
		if f, ok := c.files[fromFile]; ok {
			candidates = append(candidates, filepath.Join(filepath.Dir(f.path), headerName))
		}
	}

	for _, dir := range c.includeDirs {
		candidates = append(candidates, filepath.Join(dir, headerName))
	}

	for _, path := range candidates {
		if id, err := c.openInclude(path); err == nil {
			return id, nil
		}
	}

	return NoFile, fmt.Errorf("cannot find include file %q", headerName)
}

// Finalize drops this context's ability to open further files. Buffers
// already opened remain valid and owned by the context for the remainder of
// its lifetime.
func (c *Context) Finalize() {
	c.finalized = true
}

// Columns reports the ColumnEncoding this context's files use.
func (c *Context) Columns() ColumnEncoding {
	return c.columns
}
