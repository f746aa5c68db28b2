// Package shell implements the line-oriented storage calculator: it parses
// one request per line, feeds it to an estimator session and prints the
// results.
package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
)

// ErrInvalidInput is returned for lines that are neither a known command
// nor a well-formed image request.
var ErrInvalidInput = errors.New("invalid input")

const (
	groupKeyword = "g"
	quitKeyword  = "q"
)

// Kind identifies what a parsed line asks for.
type Kind int

const (
	KindEmpty Kind = iota
	KindCreate
	KindGroup
	KindQuit
)

// Command is one parsed input line.
type Command struct {
	Kind   Kind
	Format footprint.Format
	Width  uint64
	Height uint64
	IDs    []int
}

// Parse reads a single line. Input is case-insensitive.
//
//	<format> <width> <height>
//	g <id> <id> ...
//	q
//
// Tokens are separated by whitespace or commas, so "g 1, 2" and "g 1 2" are
// the same request. Group identifiers are read up to the first token that
// is not an integer.
func Parse(line string) (Command, error) {
	fields := strings.FieldsFunc(strings.ToLower(line), isSeparator)
	if len(fields) == 0 {
		return Command{Kind: KindEmpty}, nil
	}

	switch fields[0] {
	case quitKeyword:
		return Command{Kind: KindQuit}, nil
	case groupKeyword:
		ids := make([]int, 0, len(fields)-1)
		for _, f := range fields[1:] {
			id, err := strconv.Atoi(f)
			if err != nil {
				break
			}
			ids = append(ids, id)
		}
		return Command{Kind: KindGroup, IDs: ids}, nil
	}

	format, err := footprint.ParseFormat(fields[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(fields) < 3 {
		return Command{}, fmt.Errorf("%w: %s needs a width and a height", ErrInvalidInput, fields[0])
	}
	width, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w: width %q", ErrInvalidInput, fields[1])
	}
	height, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return Command{}, fmt.Errorf("%w: height %q", ErrInvalidInput, fields[2])
	}

	return Command{Kind: KindCreate, Format: format, Width: width, Height: height}, nil
}

func isSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}
