package pipeline

import (
	"context"
	"os"

	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/manifest"
	"github.com/foliokit/folio/pkg/syntax"
)

// Source ids for span provenance. Manifest files are source 1, inline
// manifests source 2.
const (
	fileSource   syntax.SourceID = 1
	inlineSource syntax.SourceID = 2
)

// Load parses a manifest into typesetting inputs without caching.
func Load(ctx context.Context, opts Options) (*manifest.Loaded, error) {
	data, source, err := readManifest(opts)
	if err != nil {
		return nil, err
	}
	return manifest.Load(data, source)
}

// readManifest returns the raw manifest bytes and their source id.
// Inline content takes precedence over a manifest path.
func readManifest(opts Options) ([]byte, syntax.SourceID, error) {
	if opts.Manifest != "" {
		return []byte(opts.Manifest), inlineSource, nil
	}

	data, err := os.ReadFile(opts.ManifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", opts.ManifestPath)
		}
		return nil, 0, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read %s", opts.ManifestPath)
	}
	return data, fileSource, nil
}
