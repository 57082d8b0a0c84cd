package rjava

import (
	"strings"

	"resgen/symbols"
)

const generatedHeader = "/* AUTO-GENERATED FILE.  DO NOT MODIFY. */"

const indentStep = "    "

// classFile is the render tree for one generated source: the outer R class,
// one nested class per resource type and one field per symbol. The writer
// walking it must produce byte-identical output for identical trees -
// downstream build checks diff generated sources across builds.
type classFile struct {
	pkg    string
	shared bool
	types  []typeClass
}

type typeClass struct {
	name   string
	fields []field
}

type field struct {
	name  string
	typ   symbols.ValueType
	value string
}

func newClassFile(pkg string, shared bool, m *Model) classFile {
	f := classFile{pkg: pkg, shared: shared}
	for name, entries := range m.Types() {
		tc := typeClass{name: name, fields: make([]field, 0, len(entries))}
		for _, e := range entries {
			tc.fields = append(tc.fields, field{name: e.Name, typ: e.Type, value: e.Value})
		}
		f.types = append(f.types, tc)
	}
	return f
}

// javaWriter emits indented source lines. Indentation is tracked explicitly
// so nesting mistakes show up as diffs in tests rather than as drift between
// template and output.
type javaWriter struct {
	buf   strings.Builder
	depth int
}

func (w *javaWriter) line(s string) {
	if s != "" {
		for range w.depth {
			w.buf.WriteString(indentStep)
		}
		w.buf.WriteString(s)
	}
	w.buf.WriteByte('\n')
}

func (w *javaWriter) in()  { w.depth++ }
func (w *javaWriter) out() { w.depth-- }

func (f classFile) render() []byte {
	w := &javaWriter{}

	w.line(generatedHeader)
	w.line("")
	w.line("package " + f.pkg + ";")
	w.line("")
	w.line("public final class R {")
	w.in()

	modifier := "public static final "
	if f.shared {
		// shared resource library ids are patched at load time, fields
		// cannot be compile-time constants
		modifier = "public static "
	}
	for _, tc := range f.types {
		w.line("public static final class " + tc.name + " {")
		w.in()
		for _, fld := range tc.fields {
			w.line(modifier + fld.typ.JavaType() + " " + fld.name + " = " + fld.value + ";")
		}
		w.out()
		w.line("}")
	}

	if f.shared {
		f.renderPatchRoutine(w)
	}

	w.out()
	w.line("}")

	return []byte(w.buf.String())
}

// renderPatchRoutine emits onResourcesLoaded(packageId). At load time the
// host application assigns the true package id and every identifier gets its
// top byte replaced: newValue = (oldValue & 0x00ffffff) | (packageId << 24).
// The 8-bit-package-id / 24-bit-payload split is the resource identifier
// layout convention and must not change.
func (f classFile) renderPatchRoutine(w *javaWriter) {
	w.line("public static void onResourcesLoaded(int packageId) {")
	w.in()
	for _, tc := range f.types {
		for _, fld := range tc.fields {
			ref := tc.name + "." + fld.name
			if fld.typ == symbols.ValueArray {
				w.line("for(int i = 0; i < " + ref + ".length; ++i) {")
				w.in()
				w.line(ref + "[i] =")
				w.in()
				w.in()
				w.line("(" + ref + "[i] & 0x00ffffff)")
				w.line("| (packageId << 24);")
				w.out()
				w.out()
				w.out()
				w.line("}")
			} else {
				w.line(ref + " =")
				w.in()
				w.in()
				w.line("(" + ref + " & 0x00ffffff)")
				w.line("| (packageId << 24);")
				w.out()
				w.out()
			}
		}
	}
	w.out()
	w.line("}")
}
