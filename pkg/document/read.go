package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/anchorlayout/pkg/errors"
)

// Parse decodes a document in the given format. Unknown keys are rejected
// so typos in anchor or option names do not silently fall back to
// defaults.
func Parse(data []byte, format string) (*Document, error) {
	var doc Document
	switch format {
	case FormatTOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errs.New(errs.ErrCodeInvalidDocument, "unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode json")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown document format %q (must be toml or json)", format)
	}
	return &doc, nil
}

// Read decodes a document from r.
func Read(r io.Reader, format string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read document")
	}
	return Parse(data, format)
}

// Load reads the document at path, inferring the format from its
// extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "open %s", path)
	}
	doc, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, errs.Wrap(errs.GetCode(err), err, "%s", path)
	}
	return doc, nil
}

// Canonical returns the compact JSON encoding of the document. Equal
// documents produce equal bytes regardless of their source format, which
// makes the encoding usable as a cache key.
func (d *Document) Canonical() ([]byte, error) {
	return json.Marshal(d)
}

// Marshal encodes the document in the given format.
func (d *Document) Marshal(format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(d); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode toml")
		}
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode json")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown document format %q (must be toml or json)", format)
	}
	return buf.Bytes(), nil
}
