package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	stdutf8 "unicode/utf8"

	"github.com/nihei9/rangetrie/charclass"
	"github.com/nihei9/rangetrie/dfa"
	"github.com/nihei9/rangetrie/rangetrie"
	"github.com/spf13/cobra"
)

var matchFlags = struct {
	all    *bool
	compLv *int
}{}

var errUnmatched = errors.New("some characters didn't match")

func init() {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Test which characters of a text a character class matches",
		Example: `  rangetrie match 'a-z' 'abc1'
  rangetrie match --all '\p{Hiragana}' 'あいう'`,
		Args: cobra.ExactArgs(2),
		RunE: runMatch,
	}
	matchFlags.all = cmd.Flags().Bool("all", false, "fail unless every character matches")
	matchFlags.compLv = cmd.Flags().IntP("compression-level", "c", dfa.CompressionLevelMax, "compression level of the table used for matching")
	rootCmd.AddCommand(cmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	c, err := charclass.Parse(args[0])
	if err != nil {
		return err
	}

	trie := rangetrie.New()
	err = charclass.Compile(c, trie)
	if err != nil {
		return err
	}
	tab, err := dfa.GenTransitionTable(trie)
	if err != nil {
		return err
	}
	tab, err = dfa.Compress(tab, *matchFlags.compLv)
	if err != nil {
		return err
	}
	log.Debug().Int("states", trie.Len()).Int("size", tab.Size()).Msg("compiled")

	unmatched, err := writeMatches(os.Stdout, tab, args[1])
	if err != nil {
		return err
	}
	if unmatched > 0 && *matchFlags.all {
		return fmt.Errorf("%w: %v", errUnmatched, unmatched)
	}
	return nil
}

// writeMatches reports whether the table accepts each character of text. The bytes of an
// ill-formed character are matched as they are. It returns the number of unmatched characters.
func writeMatches(w io.Writer, tab *dfa.TransitionTable, text string) (int, error) {
	unmatched := 0
	for len(text) > 0 {
		r, size := stdutf8.DecodeRuneInString(text)
		b := []byte(text[:size])
		text = text[size:]

		ok := tab.Match(b)
		if !ok {
			unmatched++
		}

		var label string
		if r == stdutf8.RuneError && size == 1 {
			label = fmt.Sprintf("%-8v ?", fmt.Sprintf("%%%02X", b[0]))
		} else {
			label = fmt.Sprintf("%-8v %q", fmt.Sprintf("U+%04X", r), r)
		}
		_, err := fmt.Fprintf(w, "%v\t% X\t%v\n", label, b, ok)
		if err != nil {
			return 0, err
		}
	}
	return unmatched, nil
}
