package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter writes one JSON document per Format call.
type JSONFormatter struct {
	// Compact writes a single line, for streams of documents.
	Compact bool
}

// Format encodes data followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if !f.Compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(data)
}
