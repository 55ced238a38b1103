package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/rangetrie/charclass"
	"github.com/nihei9/rangetrie/dfa"
	verr "github.com/nihei9/rangetrie/error"
	"github.com/nihei9/rangetrie/rangetrie"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
	compLv *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile character classes into transition tables",
		Long: `compile reads one character class per line from a file or stdin and
generates a transition table over bytes for each of them.`,
		Example: `  rangetrie compile classes.txt -o classes.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compLv = cmd.Flags().IntP("compression-level", "c", dfa.CompressionLevelMax, "compression level")
	rootCmd.AddCommand(cmd)
}

type compiledClass struct {
	Source string               `json:"source"`
	States int                  `json:"states"`
	Table  *dfa.TransitionTable `json:"table"`
}

type compiledClasses struct {
	Classes []*compiledClass `json:"classes"`
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		var cErrs verr.ClassErrors
		if !errors.As(retErr, &cErrs) {
			return
		}
		for _, err := range cErrs {
			if path != "" {
				err.FilePath = path
				err.SourceName = path
			} else {
				err.SourceName = "stdin"
			}
		}
	}()

	if *compileFlags.compLv < dfa.CompressionLevelMin || *compileFlags.compLv > dfa.CompressionLevelMax {
		return fmt.Errorf("compression level must be %v..%v: %v", dfa.CompressionLevelMin, dfa.CompressionLevelMax, *compileFlags.compLv)
	}

	classes, err := readClasses(path)
	if err != nil {
		return err
	}
	log.Debug().Int("classes", len(classes)).Msg("parsed")

	out := &compiledClasses{}
	trie := rangetrie.New()
	for _, c := range classes {
		cc, err := compileClass(c, trie)
		if err != nil {
			return fmt.Errorf("cannot compile the class at line %v: %w", c.Row, err)
		}
		out.Classes = append(out.Classes, cc)
	}

	err = writeCompiledClasses(out, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("cannot write an output file: %w", err)
	}

	return nil
}

func readClasses(path string) ([]*charclass.Class, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open the class file %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	return charclass.ParseFile(r)
}

// compileClass compiles a class using trie as a scratch buffer. The trie is cleared first,
// so one trie serves every class of a file.
func compileClass(c *charclass.Class, trie *rangetrie.Trie) (*compiledClass, error) {
	err := charclass.Compile(c, trie)
	if err != nil {
		return nil, err
	}

	tab, err := dfa.GenTransitionTable(trie)
	if err != nil {
		return nil, err
	}
	uncompSize := tab.Size()
	tab, err = dfa.Compress(tab, *compileFlags.compLv)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("row", c.Row).
		Str("source", c.Source).
		Int("states", trie.Len()).
		Int("size", tab.Size()).
		Float64("ratio", float64(tab.Size())/float64(uncompSize)).
		Msg("compiled")

	return &compiledClass{
		Source: c.Source,
		States: trie.Len(),
		Table:  tab,
	}, nil
}

func writeCompiledClasses(cc *compiledClasses, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(cc)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))

	return nil
}
