package document

import (
	"encoding/json"
	"io"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/anchorlayout/pkg/errors"
	"github.com/matzehuels/anchorlayout/pkg/layout"
)

// FrameSet is the exported form of a solve.
type FrameSet struct {
	Container  string         `json:"container" toml:"container"`
	Stage      string         `json:"stage" toml:"stage"`
	Resolved   bool           `json:"resolved" toml:"resolved"`
	Unresolved []string       `json:"unresolved,omitempty" toml:"unresolved,omitempty"`
	Frames     []layout.Frame `json:"frames" toml:"frame"`
}

// NewFrameSet captures the exportable part of a result.
func NewFrameSet(res *layout.Result) FrameSet {
	fs := FrameSet{
		Stage:      res.Stage,
		Resolved:   res.Resolved,
		Unresolved: res.Unresolved,
		Frames:     res.Frames,
	}
	if len(res.Frames) > 0 {
		fs.Container = res.Frames[0].ID
	}
	return fs
}

// WriteFrames encodes fs in the given format.
func WriteFrames(w io.Writer, fs FrameSet, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fs); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "encode frames")
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(fs); err != nil {
			return errs.Wrap(errs.ErrCodeInternal, err, "encode frames")
		}
	default:
		return errs.New(errs.ErrCodeInvalidFormat, "unknown frame format %q (must be toml or json)", format)
	}
	return nil
}

// ReadFrames decodes a frame set written by [WriteFrames].
func ReadFrames(r io.Reader, format string) (FrameSet, error) {
	var fs FrameSet
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&fs); err != nil {
			return fs, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode frames")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&fs); err != nil {
			return fs, errs.Wrap(errs.ErrCodeInvalidDocument, err, "decode frames")
		}
	default:
		return fs, errs.New(errs.ErrCodeInvalidFormat, "unknown frame format %q (must be toml or json)", format)
	}
	return fs, nil
}
