// Package typeset drives the relayout fixpoint: it lays content out
// repeatedly until everything that depends on layout results — page
// numbers, cross-references, outline entries — has stabilized, or a fixed
// pass budget is spent.
//
// # How a run works
//
// Layout output can feed back into layout input: a reference renders the
// page number of its target, but page numbers only exist once layout has
// run. The driver resolves this circularity iteratively. Each pass lays
// out the full document with a fresh [Context]; queries against placed
// content are answered from the previous pass's [Introspector] index.
// After the pass, [Introspector.Update] rebuilds the index from the new
// document and checks whether any answer handed out during the pass has
// changed. If so, another pass runs; if not, the document is final.
//
// Runs that never stabilize stop after [MaxPasses] passes and return the
// last document as-is. That outcome is not an error: a document whose
// references lag one pass behind is still a document. Layout failures, in
// contrast, abort the run immediately.
package typeset

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/observability"
)

// MaxPasses bounds the relayout loop. Five passes resolve every document
// whose layout-dependent content settles at all; a document still unstable
// after five is cyclic and would never settle.
const MaxPasses = 5

// Options configures a typeset run.
type Options struct {
	// Logger receives per-pass diagnostics at debug level. Nil means
	// silent.
	Logger *log.Logger
}

// Result carries the outcome of a typeset run.
type Result struct {
	// Document is the final layout result.
	Document *doc.Document

	// Passes is the number of layout passes that ran.
	Passes int

	// Converged reports whether the run stabilized within the pass
	// budget. A capped run returns the last document with Converged
	// false.
	Converged bool

	// Introspector is the index as of the last completed Update, kept
	// for post-run queries. For a capped run it reflects the pass before
	// the final one; call Update with Document to refresh it.
	Introspector *Introspector
}

// Typeset lays out content in the given world until layout-dependent
// queries stabilize, and returns the final document.
//
// A layout failure aborts immediately and is returned as-is. Running out
// of the pass budget does not fail; the last document is returned.
func Typeset(world World, content *doc.Content) (*doc.Document, error) {
	res, err := Run(world, content, Options{})
	if err != nil {
		return nil, err
	}
	return res.Document, nil
}

// Run executes the relayout loop and returns the full result, including
// pass diagnostics and the final introspection index.
func Run(world World, content *doc.Content, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	library := world.Library()
	styles := world.Styles()
	introspector := NewIntrospector()

	var document *doc.Document
	passes := 0
	converged := false

	for {
		provider := NewStabilityProvider()
		ctx := newContext(world, provider, introspector)

		passes++
		observability.Typeset().OnPassStart(passes)
		start := time.Now()

		d, err := library.Layout(ctx, content, styles)
		if err != nil {
			observability.Typeset().OnTypesetComplete(passes, false, err)
			return nil, err
		}
		document = d

		if passes >= MaxPasses {
			// The budget is spent; the result is accepted unchecked.
			observability.Typeset().OnPassComplete(passes, len(document.Pages), false, time.Since(start))
			logger.Debug("pass budget spent, accepting result",
				"passes", passes,
				"pages", len(document.Pages))
			break
		}

		stable := introspector.Update(document)
		observability.Typeset().OnPassComplete(passes, len(document.Pages), stable, time.Since(start))
		logger.Debug("typeset pass finished",
			"pass", passes,
			"pages", len(document.Pages),
			"stable", stable,
			"duration", time.Since(start))

		if stable {
			converged = true
			break
		}
	}

	observability.Typeset().OnTypesetComplete(passes, converged, nil)
	return &Result{
		Document:     document,
		Passes:       passes,
		Converged:    converged,
		Introspector: introspector,
	}, nil
}
