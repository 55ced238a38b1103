package charclass

import (
	"bufio"
	"errors"
	"io"
	"strings"

	verr "github.com/nihei9/rangetrie/error"
)

// ParseFile parses one class expression per line. Blank lines and lines starting with `#`
// are skipped. ParseFile keeps parsing after a syntax error and returns all of them as
// verr.ClassErrors.
func ParseFile(r io.Reader) ([]*Class, error) {
	var classes []*Class
	var errs verr.ClassErrors
	s := bufio.NewScanner(r)
	row := 0
	for s.Scan() {
		row++
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := Parse(line)
		if err != nil {
			var cErr *verr.ClassError
			if !errors.As(err, &cErr) {
				return nil, err
			}
			cErr.Row = row
			if cErr.Col != 0 {
				cErr.Col += strings.Index(s.Text(), line)
			}
			errs = append(errs, cErr)
			continue
		}
		c.Row = row
		classes = append(classes, c)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return classes, nil
}
