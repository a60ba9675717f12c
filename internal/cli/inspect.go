package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/typeset"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "inspect <layout.json>",
		Short: "Browse the nodes of a typeset document",
		Long: `Open an interactive browser over the identity-tagged nodes of a
typeset document, as exported by 'folio typeset --format json'.

Each node shows its element, label, page, and position on that page.
Press f to cycle a filter through the element names present in the
document, and q to quit.

With --plain (or when stdout is not a terminal) the same table is
printed statically instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print the node table without the interactive browser")

	return cmd
}

// runInspect loads an exported document and presents its node index.
func (c *CLI) runInspect(path string, plain bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	document, err := doc.UnmarshalDocument(data)
	if err != nil {
		return err
	}

	intro := typeset.NewIntrospector()
	intro.Update(document)
	nodes := intro.Nodes()

	if len(nodes) == 0 {
		printWarning("No labeled or queryable nodes in %s", filepath.Base(path))
		return nil
	}

	if plain || !c.interactive {
		printNodeTable(nodes)
		return nil
	}

	model := NewNodeListModel(nodes)
	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "node browser")
	}
	return nil
}

// printNodeTable renders the node index as a static table.
func printNodeTable(nodes []typeset.Match) {
	rows := make([][]string, 0, len(nodes))
	for _, match := range nodes {
		rows = append(rows, matchRow(match))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Element", "Label", "Page", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			}
			return lipgloss.NewStyle()
		})

	fmt.Println(t.Render())
}
