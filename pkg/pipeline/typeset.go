package pipeline

import (
	"encoding/json"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/layout"
	"github.com/foliokit/folio/pkg/typeset"
)

// =============================================================================
// Typeset Stage
// =============================================================================

// TypesetContent runs the relayout loop over a content tree with the
// given style chain. This is the unified entry point for producing a
// document; callers that want caching go through
// [Runner.TypesetWithCacheInfo] instead.
func TypesetContent(content *doc.Content, styles doc.Styles, opts Options) (*typeset.Result, error) {
	world := typeset.NewStaticWorld(styles, layout.Library())
	return typeset.Run(world, content, typeset.Options{Logger: opts.Logger})
}

// =============================================================================
// Cache Serialization
// =============================================================================

// typesetEnvelope is the cache serialization form of a typeset result.
// The introspection index is not stored; it is rebuilt from the document
// on load.
type typesetEnvelope struct {
	Document  json.RawMessage `json:"document"`
	Passes    int             `json:"passes"`
	Converged bool            `json:"converged"`
}

// encodeTypesetting serializes a typeset result for cache storage.
func encodeTypesetting(res *typeset.Result) ([]byte, error) {
	docData, err := doc.MarshalDocument(res.Document)
	if err != nil {
		return nil, err
	}
	return json.Marshal(typesetEnvelope{
		Document:  docData,
		Passes:    res.Passes,
		Converged: res.Converged,
	})
}

// decodeTypesetting deserializes a typeset result produced by
// [encodeTypesetting], rebuilding the introspection index so cached
// results answer queries exactly like fresh ones.
func decodeTypesetting(data []byte) (*typeset.Result, error) {
	var env typesetEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	document, err := doc.UnmarshalDocument(env.Document)
	if err != nil {
		return nil, err
	}

	introspector := typeset.NewIntrospector()
	introspector.Update(document)

	return &typeset.Result{
		Document:     document,
		Passes:       env.Passes,
		Converged:    env.Converged,
		Introspector: introspector,
	}, nil
}
