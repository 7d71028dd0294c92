package journal

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrLoad marks a trade file that is missing or unreadable.
	ErrLoad = errors.New("load trades")

	// ErrSchema marks a table lacking one or more required columns.
	ErrSchema = errors.New("missing required columns")

	// ErrEmptyData marks a table with zero trades.
	ErrEmptyData = errors.New("no trade data loaded")

	// ErrBadTime marks a Time value that matches none of the accepted layouts.
	ErrBadTime = errors.New("unparseable time")
)

// SchemaError lists the required columns absent from a table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSchema, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// ParseError reports a field that could not be converted.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: column %s: bad value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// CheckColumns returns a *SchemaError if any required column is absent
// from columns.
func CheckColumns(columns []string) error {
	var missing []string
	for _, c := range RequiredColumns {
		if !slices.Contains(columns, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return &SchemaError{Missing: missing}
	}
	return nil
}

// Validate applies the checks every table must pass before any statistic
// is computed: it must hold trades, and it must carry the required columns.
func Validate(t *Table) error {
	if t.Empty() {
		return ErrEmptyData
	}
	return CheckColumns(t.Columns)
}
