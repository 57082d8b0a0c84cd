// Package symbols parses the packaging tool's text symbol output (R.txt)
// into a typed lookup table. The format is line oriented, one resource
// identifier per line:
//
//	int drawable icon 0x7f020000
//	int[] styleable Theme { 0x7f010000, 0x7f010001 }
//
// The first token carries the java type of the field, the rest of the line
// after type and name is the literal value exactly as the tool emitted it.
package symbols

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	orderedmap "github.com/elliotchance/orderedmap/v3"
)

// ValueType tells whether a symbol is a single integer or an integer array.
type ValueType int

const (
	ValueScalar ValueType = iota
	ValueArray
)

const (
	scalarToken = "int"
	arrayToken  = "int[]"
)

// JavaType returns the field type as it appears in generated source.
func (v ValueType) JavaType() string {
	if v == ValueArray {
		return arrayToken
	}
	return scalarToken
}

// Key identifies a symbol within one table.
type Key struct {
	Resource string
	Name     string
}

func (k Key) String() string {
	return k.Resource + "/" + k.Name
}

// Entry is one declared resource identifier. Value is kept verbatim - array
// literals must be reproduced in generated source exactly as the packaging
// tool wrote them.
type Entry struct {
	Key
	Type  ValueType
	Value string
}

// MalformedLineError reports a symbol line that does not match the expected
// shape. Any such line aborts the whole run - a symbol silently dropped here
// would surface much later as a runtime failure in generated code.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed symbol line %d (%s): %q", e.Line, e.Reason, e.Text)
}

// Table is the parsed base symbol table. It is built once per run and
// read-only afterwards. Key order is insertion order so that iteration is
// stable across runs over identical input.
type Table struct {
	entries *orderedmap.OrderedMap[Key, Entry]
}

func NewTable() *Table {
	return &Table{entries: orderedmap.NewOrderedMap[Key, Entry]()}
}

// Lookup finds an entry by resource type and name.
func (t *Table) Lookup(k Key) (Entry, bool) {
	return t.entries.Get(k)
}

func (t *Table) Len() int {
	return t.entries.Len()
}

// All iterates entries in insertion order.
func (t *Table) All() iter.Seq2[Key, Entry] {
	return t.entries.AllFromFront()
}

func (t *Table) add(e Entry) bool {
	if _, exists := t.entries.Get(e.Key); exists {
		return false
	}
	t.entries.Set(e.Key, e)
	return true
}

// ParseTable reads the base symbol table. The first line that does not match
// the grammar fails the whole parse, as does a duplicate (resource, name)
// pair.
func ParseTable(r io.Reader) (*Table, error) {
	t := NewTable()
	err := scanLines(r, func(lineNo int, line string, e Entry) error {
		if !t.add(e) {
			return &MalformedLineError{Line: lineNo, Text: line, Reason: "duplicate symbol"}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseRefs reads an own-symbol-list: same grammar as the base table, but
// only the (resource, name) pairs matter. The value field is still required
// to be present so that a truncated or corrupted list is rejected instead of
// silently resolving to fewer symbols. Order of keys is file order.
func ParseRefs(r io.Reader) ([]Key, error) {
	var keys []Key
	err := scanLines(r, func(_ int, _ string, e Entry) error {
		keys = append(keys, e.Key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func scanLines(r io.Reader, emit func(lineNo int, line string, e Entry) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, reason := scanLine(line)
		if reason != "" {
			return &MalformedLineError{Line: lineNo, Text: line, Reason: reason}
		}
		if err := emit(lineNo, line, e); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("unable to read symbol input: %w", err)
	}
	return nil
}

// scanLine splits one line into its four fields. Fields are separated by
// single spaces, the value field is the remainder of the line and may itself
// contain spaces. Returns a non-empty reason when the line does not match.
func scanLine(line string) (Entry, string) {
	typeTok, rest, hasRest := strings.Cut(line, " ")

	// classify the first token before checking how many fields follow it
	var vt ValueType
	switch typeTok {
	case scalarToken:
		vt = ValueScalar
	case arrayToken:
		vt = ValueArray
	default:
		return Entry{}, "unknown java type token"
	}
	if !hasRest {
		return Entry{}, "missing resource type"
	}

	resTok, rest, ok := strings.Cut(rest, " ")
	if !ok {
		return Entry{}, "missing symbol name"
	}
	if !isIdentifier(resTok) {
		return Entry{}, "invalid resource type"
	}

	nameTok, value, ok := strings.Cut(rest, " ")
	if !ok || value == "" {
		return Entry{}, "missing value"
	}
	if !isIdentifier(nameTok) {
		return Entry{}, "invalid symbol name"
	}

	return Entry{
		Key:   Key{Resource: resTok, Name: nameTok},
		Type:  vt,
		Value: value,
	}, ""
}

func isIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
