package typeset_test

import (
	"fmt"
	"strconv"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/geom"
	"github.com/foliokit/folio/pkg/typeset"
)

func ExampleRun() {
	// A layout routine whose output depends on its own result: the
	// reference renders the page its target landed on, which only the
	// previous pass can answer.
	library := &typeset.Library{
		Version: "example",
		Layout: func(ctx *typeset.Context, content *doc.Content, styles doc.Styles) (*doc.Document, error) {
			page := doc.NewFrame(geom.Size{W: 100, H: 100})

			heading := doc.NewContent("heading")
			heading.SetField("label", "intro")
			page.Push(geom.Pt(0, 0), &doc.TagItem{ID: ctx.Identify("intro"), Content: heading})

			target := "?"
			if matches := ctx.Locate(doc.SelectLabel("intro")); len(matches) > 0 {
				if loc, ok := matches[0].Content.Location(); ok {
					target = strconv.Itoa(loc.Page)
				}
			}
			page.Push(geom.Pt(0, 20), &doc.TextItem{Text: "see page " + target, Size: 11})

			return &doc.Document{Pages: []*doc.Frame{page}}, nil
		},
	}

	world := typeset.NewStaticWorld(doc.NewStyles(), library)
	res, err := typeset.Run(world, doc.NewContent("document"), typeset.Options{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	ref := res.Document.Pages[0].Items[1].Item.(*doc.TextItem)
	fmt.Println(ref.Text)
	fmt.Printf("passes=%d converged=%v\n", res.Passes, res.Converged)
	// Output:
	// see page 1
	// passes=2 converged=true
}

func ExampleIntrospector_Locate() {
	// Index a laid-out page, then query it by label.
	heading := doc.NewContent("heading")
	heading.SetField("label", "results")

	page := doc.NewFrame(geom.Size{W: 100, H: 100})
	page.Push(geom.Pt(10, 42), &doc.TagItem{
		ID:      doc.StableID{},
		Content: heading,
	})

	in := typeset.NewIntrospector()
	in.Update(&doc.Document{Pages: []*doc.Frame{page}})

	for _, m := range in.Locate(doc.SelectLabel("results")) {
		loc, _ := m.Content.Location()
		fmt.Printf("%s on page %d at (%.0f, %.0f)\n", m.Content.Elem(), loc.Page, loc.Pos.X, loc.Pos.Y)
	}
	// Output:
	// heading on page 1 at (10, 42)
}
