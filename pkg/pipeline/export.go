package pipeline

import (
	"fmt"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/render/framedot"
)

// Export generates output artifacts in the requested formats.
//
// JSON is the canonical serialization of the document and round-trips
// through [doc.UnmarshalDocument]. DOT and SVG are frame-tree diagrams
// for debugging layout output.
func Export(document *doc.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = doc.MarshalDocument(document)
		case FormatDOT:
			data = []byte(framedot.ToDOT(document, framedot.Options{Detailed: opts.Detailed}))
		case FormatSVG:
			dot := framedot.ToDOT(document, framedot.Options{Detailed: opts.Detailed})
			data, err = framedot.RenderSVG(dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("export %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
