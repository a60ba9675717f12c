package typeset

import (
	"sync"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/fingerprint"
	"github.com/foliokit/folio/pkg/geom"
)

// Match is one entry of the introspection index: a tagged node's identity
// and its content snapshot, location attached.
type Match struct {
	ID      doc.StableID
	Content *doc.Content
}

// query is a recorded locate call: the selector and the digest of the
// result it returned. Update re-runs the selector and compares digests to
// decide whether another pass is needed.
type query struct {
	selector doc.Selector
	key      string
	digest   fingerprint.Digest
}

// Introspector indexes the identity-tagged content of a laid-out document
// and answers selector queries over it.
//
// The driver owns one Introspector per typeset call. After each pass it
// calls Update, which rebuilds the node index from the fresh document and
// checks every query answered during the pass against that index. Layout
// code only ever reaches the read side through Context.Locate.
//
// The node index is immutable between Update calls, so Locate's filtering
// needs no lock. The query log is shared among concurrent layout call
// sites and is guarded by a mutex.
type Introspector struct {
	nodes []Match
	seen  map[doc.StableID]struct{}

	mu      sync.Mutex
	queries []query
}

// NewIntrospector creates an empty introspector. Until the first Update
// every locate answers with no matches.
func NewIntrospector() *Introspector {
	return &Introspector{seen: make(map[doc.StableID]struct{})}
}

// Update rebuilds the index from document and reports whether the pass
// that produced it was stable.
//
// It walks every page's frame tree depth-first, accumulating the affine
// transform of nested groups, and records each tagged node once (the first
// occurrence in walk order wins) with its content snapshot and resolved
// location. It then takes the queries recorded since the previous Update
// and re-evaluates each against the new index: any digest mismatch means
// a query answer handed out during the pass no longer holds, so Update
// returns false and the pass must be repeated. If all answers hold, the
// checked queries are kept as the baseline for the next comparison and
// Update returns true.
func (in *Introspector) Update(document *doc.Document) bool {
	in.nodes = in.nodes[:0]
	clear(in.seen)
	for i, page := range document.Pages {
		in.extract(page, i+1, geom.Identity())
	}

	in.mu.Lock()
	queries := in.queries
	in.queries = nil
	in.mu.Unlock()

	for _, q := range queries {
		if matchDigest(in.filter(q.selector)) != q.digest {
			return false
		}
	}

	in.mu.Lock()
	in.queries = queries
	in.mu.Unlock()
	return true
}

// extract walks one frame, with ts mapping the frame's coordinates to
// page coordinates.
func (in *Introspector) extract(frame *doc.Frame, page int, ts geom.Transform) {
	for _, placed := range frame.Items {
		switch item := placed.Item.(type) {
		case *doc.GroupItem:
			inner := ts.
				PreConcat(geom.Translate(placed.Pos.X, placed.Pos.Y)).
				PreConcat(item.Transform)
			in.extract(item.Frame, page, inner)
		case *doc.TagItem:
			if _, dup := in.seen[item.ID]; dup {
				continue
			}
			snapshot := item.Content.Clone()
			snapshot.SetLocation(doc.Location{Page: page, Pos: placed.Pos.Transform(ts)})
			in.seen[item.ID] = struct{}{}
			in.nodes = append(in.nodes, Match{ID: item.ID, Content: snapshot})
		}
	}
}

// Locate returns the indexed nodes matching selector, in index order.
// The first locate for a selector also records the digest of its result,
// committing the current answer as something the next Update must
// reproduce for the document to count as stable.
func (in *Introspector) Locate(selector doc.Selector) []Match {
	matches := in.filter(selector)

	key := selector.Key()
	in.mu.Lock()
	recorded := false
	for _, q := range in.queries {
		if q.key == key {
			recorded = true
			break
		}
	}
	if !recorded {
		in.queries = append(in.queries, query{
			selector: selector,
			key:      key,
			digest:   matchDigest(matches),
		})
	}
	in.mu.Unlock()

	// Callers get their own content snapshots so the index stays intact.
	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{ID: m.ID, Content: m.Content.Clone()}
	}
	return out
}

// filter returns the index entries matching selector, sharing content
// with the index.
func (in *Introspector) filter(selector doc.Selector) []Match {
	var matches []Match
	for _, m := range in.nodes {
		if selector.Matches(m.Content) {
			matches = append(matches, m)
		}
	}
	return matches
}

// Nodes returns the full index in walk order, with content snapshots
// cloned for the caller.
func (in *Introspector) Nodes() []Match {
	out := make([]Match, len(in.nodes))
	for i, m := range in.nodes {
		out[i] = Match{ID: m.ID, Content: m.Content.Clone()}
	}
	return out
}

// Fingerprint digests the full index, order included. Two introspectors
// with the same fingerprint answer every query identically, which makes
// the digest usable as a cache-key component for memoized layout work.
func (in *Introspector) Fingerprint() fingerprint.Digest {
	return matchDigest(in.nodes)
}

// matchDigest digests an ordered result list. Order participates: the
// same matches in a different order digest differently.
func matchDigest(matches []Match) fingerprint.Digest {
	h := fingerprint.NewHasher()
	for _, m := range matches {
		h.WriteDigest(m.ID.Fingerprint)
		h.WriteUint64(m.ID.Slot)
		h.WriteDigest(m.Content.Fingerprint())
	}
	return h.Sum()
}
