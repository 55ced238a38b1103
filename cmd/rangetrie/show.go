package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/nihei9/rangetrie/charclass"
	"github.com/nihei9/rangetrie/rangetrie"
	"github.com/nihei9/rangetrie/utf8"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	paths *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the byte range trie a character class compiles into",
		Example: `  rangetrie show 'a-z U+3040..U+309F'
  rangetrie show --paths '\p{Greek}'`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
	showFlags.paths = cmd.Flags().Bool("paths", false, "print the byte range sequence of every state instead of a tree")
	rootCmd.AddCommand(cmd)
}

type treeStyles struct {
	branch lipgloss.Style
	rng    lipgloss.Style
	final  lipgloss.Style
	header lipgloss.Style
}

func plainTreeStyles() *treeStyles {
	return &treeStyles{
		branch: lipgloss.NewStyle(),
		rng:    lipgloss.NewStyle(),
		final:  lipgloss.NewStyle(),
		header: lipgloss.NewStyle(),
	}
}

func colorTreeStyles() *treeStyles {
	return &treeStyles{
		branch: lipgloss.NewStyle().Foreground(lipgloss.Color("#525252")),
		rng:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4589ff")),
		final:  lipgloss.NewStyle().Foreground(lipgloss.Color("#42be65")).Bold(true),
		header: lipgloss.NewStyle().Bold(true),
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := charclass.Parse(args[0])
	if err != nil {
		return err
	}

	trie := rangetrie.New()
	err = charclass.Compile(c, trie)
	if err != nil {
		return err
	}
	log.Debug().Int("states", trie.Len()).Int("ranges", len(c.Ranges())).Msg("compiled")

	styles := plainTreeStyles()
	if isatty.IsTerminal(os.Stdout.Fd()) {
		styles = colorTreeStyles()
	}

	if *showFlags.paths {
		return writePaths(os.Stdout, trie, styles)
	}
	fmt.Fprintln(os.Stdout, styles.header.Render(c.String()))
	return writeTree(os.Stdout, trie, styles)
}

// writeTree writes the trie as a tree. Each line is a transition; `*` marks a final state.
func writeTree(w io.Writer, trie *rangetrie.Trie, styles *treeStyles) error {
	var b strings.Builder
	var write func(id rangetrie.StateID, indent string)
	write = func(id rangetrie.StateID, indent string) {
		trans := trie.Transitions(id)
		for i, tr := range trans {
			branch, next := "├─ ", "│  "
			if i == len(trans)-1 {
				branch, next = "└─ ", "   "
			}
			b.WriteString(styles.branch.Render(indent + branch))
			b.WriteString(styles.rng.Render(tr.Range.String()))
			if trie.IsFinal(tr.Next) {
				b.WriteString(" " + styles.final.Render("*"))
			}
			b.WriteString("\n")
			write(tr.Next, indent+next)
		}
	}
	if trie.IsFinal(rangetrie.Root) {
		b.WriteString(styles.final.Render("*") + "\n")
	}
	write(rangetrie.Root, "")

	_, err := io.WriteString(w, b.String())
	return err
}

// writePaths writes the sequence from the root to every state, one per line.
func writePaths(w io.Writer, trie *rangetrie.Trie, styles *treeStyles) error {
	return trie.Iter(func(seq utf8.Sequence, final bool) error {
		var line string
		if len(seq) == 0 {
			line = styles.branch.Render("(root)")
		} else {
			line = styles.rng.Render(seq.String())
		}
		if final {
			line += " " + styles.final.Render("*")
		}
		_, err := fmt.Fprintln(w, line)
		return err
	})
}
