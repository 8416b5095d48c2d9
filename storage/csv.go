// Package storage persists grids as comma-separated 0/1 rows, one grid row per line.
package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-cgol/model"
)

const delimiter = ','

// ParseError reports malformed grid text. Line and Field are 1-based; Field is 0
// when the problem concerns a whole line.
type ParseError struct {
	Line  int
	Field int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("parse grid: %v", e.Err)
	case e.Field == 0:
		return fmt.Sprintf("parse grid: line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("parse grid: line %d, field %d (%q): %v", e.Line, e.Field, e.Token, e.Err)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

var (
	errEmpty      = errors.New("no rows")
	errFieldCount = errors.New("wrong number of fields")
	errNotNumber  = errors.New("not a finite number")
)

// Read parses a grid. Any numeric value is accepted; a cell is alive iff its
// value is nonzero. Blank and whitespace-only lines are skipped.
func Read(r io.Reader) (*model.Grid, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var rows [][]bool
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Line: csvErr.Line, Field: csvErr.Column, Err: csvErr.Err}
			}
			return nil, errors.Wrap(err, "[Read] failed to read grid")
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(rows) > 0 && len(record) != len(rows[0]) {
			return nil, &ParseError{
				Line: line,
				Err:  errors.Wrapf(errFieldCount, "got %d, want %d", len(record), len(rows[0])),
			}
		}

		row := make([]bool, len(record))
		for i, token := range record {
			token = strings.TrimSpace(token)
			v, err := strconv.ParseFloat(token, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: line, Field: i + 1, Token: token, Err: errNotNumber}
			}
			row[i] = v != 0
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, &ParseError{Err: errEmpty}
	}
	return model.FromRows(rows)
}

// Write serializes g as integer 0/1 values
func Write(w io.Writer, g *model.Grid) error {
	if g == nil {
		return errors.Wrap(model.ErrInvalidArgument, "[Write] nil grid")
	}
	bw := bufio.NewWriter(w)
	for r := range g.Rows() {
		for c := range g.Cols() {
			if c > 0 {
				bw.WriteByte(delimiter)
			}
			if g.Get(r, c) {
				bw.WriteByte('1')
			} else {
				bw.WriteByte('0')
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "[Write] failed to write grid")
	}
	return nil
}

// Load reads a grid from the file at path
func Load(path string) (*model.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to open file: %+v", path)
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[Load] failed to parse file: %+v", path)
	}
	return g, nil
}

// Save writes g to the file at path, replacing any existing content
func Save(path string, g *model.Grid) error {
	if g == nil {
		return errors.Wrap(model.ErrInvalidArgument, "[Save] nil grid")
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "[Save] failed to create file: %+v", path)
	}

	if err = Write(f, g); err != nil {
		f.Close()
		return errors.Wrapf(err, "[Save] failed to write file: %+v", path)
	}
	if err = f.Close(); err != nil {
		return errors.Wrapf(err, "[Save] failed to close file: %+v", path)
	}
	return nil
}
