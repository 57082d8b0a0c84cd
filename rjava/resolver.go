// Package rjava synthesizes per-package R.java sources from the packaging
// tool's symbol table output.
package rjava

import (
	"iter"

	orderedmap "github.com/elliotchance/orderedmap/v3"

	"resgen/symbols"
)

// Model is the per-package render input: resource types in first-seen order,
// each with its fields in own-symbol-list order. That order governs the
// layout of the generated file and must be stable across runs over identical
// input.
type Model struct {
	types *orderedmap.OrderedMap[string, []symbols.Entry]
}

func NewModel() *Model {
	return &Model{types: orderedmap.NewOrderedMap[string, []symbols.Entry]()}
}

func (m *Model) add(e symbols.Entry) {
	fields, _ := m.types.Get(e.Resource)
	m.types.Set(e.Resource, append(fields, e))
}

// Types iterates resource types with their fields, in model order.
func (m *Model) Types() iter.Seq2[string, []symbols.Entry] {
	return m.types.AllFromFront()
}

func (m *Model) Len() int {
	return m.types.Len()
}

// Resolve builds the render model for one package by looking every
// referenced (resource, name) pair up in the base table. A miss is fatal.
func Resolve(tbl *symbols.Table, pkg string, keys []symbols.Key) (*Model, error) {
	m := NewModel()
	for _, k := range keys {
		e, ok := tbl.Lookup(k)
		if !ok {
			return nil, &UnresolvedSymbolError{Resource: k.Resource, Name: k.Name, Package: pkg}
		}
		m.add(e)
	}
	return m, nil
}
