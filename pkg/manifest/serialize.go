package manifest

import (
	"encoding/json"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/fingerprint"
)

// loadedJSON is the cache serialization form of Loaded.
type loadedJSON struct {
	Content     *doc.Content       `json:"content"`
	Styles      doc.Styles         `json:"styles"`
	Title       string             `json:"title,omitempty"`
	Blocks      int                `json:"blocks"`
	Fingerprint fingerprint.Digest `json:"fingerprint"`
}

// MarshalLoaded serializes a loaded manifest for cache storage.
func MarshalLoaded(l *Loaded) ([]byte, error) {
	data, err := json.Marshal(loadedJSON{
		Content:     l.Content,
		Styles:      l.Styles,
		Title:       l.Title,
		Blocks:      l.Blocks,
		Fingerprint: l.Fingerprint,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize loaded manifest")
	}
	return data, nil
}

// UnmarshalLoaded deserializes a loaded manifest produced by
// [MarshalLoaded].
func UnmarshalLoaded(data []byte) (*Loaded, error) {
	var lj loadedJSON
	if err := json.Unmarshal(data, &lj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse loaded manifest")
	}
	if lj.Content == nil {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "loaded manifest without content")
	}
	return &Loaded{
		Content:     lj.Content,
		Styles:      lj.Styles,
		Title:       lj.Title,
		Blocks:      lj.Blocks,
		Fingerprint: lj.Fingerprint,
	}, nil
}
