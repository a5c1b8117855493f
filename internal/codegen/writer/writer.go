// Package writer is the indentation-aware text buffer every emitter
// renders into.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source with a current indentation level
type Writer struct {
	sb          strings.Builder
	indent      string
	level       int
	needsIndent bool
}

// NewWriter creates a writer that indents with the given unit (e.g. "\t")
func NewWriter(indent string) *Writer {
	return &Writer{indent: indent, needsIndent: true}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.level++
}

// Dedent decreases the indentation level, stopping at zero
func (w *Writer) Dedent() {
	if w.level > 0 {
		w.level--
	}
}

// IndentLevel returns the current indentation level
func (w *Writer) IndentLevel() int {
	return w.level
}

// Write writes s, indenting first if s starts a line
func (w *Writer) Write(s string) {
	if s == "" {
		return
	}
	if w.needsIndent {
		w.sb.WriteString(strings.Repeat(w.indent, w.level))
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef writes a formatted string without a newline
func (w *Writer) Writef(format string, args ...any) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes s followed by a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted line
func (w *Writer) WriteLinef(format string, args ...any) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.sb.WriteByte('\n')
	w.needsIndent = true
}

// BlankLine emits an empty line unless the output is empty or already
// ends with one.
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

// WriteBlock writes opener, the indented content and closer
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single // comment line
func (w *Writer) WriteComment(comment string) {
	w.WriteLinef("// %s", comment)
}

// WriteDocComment writes doc as // lines; empty doc writes nothing
func (w *Writer) WriteDocComment(doc string) {
	for _, line := range docLines(doc) {
		if line == "" {
			w.WriteLine("//")
			continue
		}
		w.WriteComment(line)
	}
}

// WriteJSDoc writes doc as a /** ... */ block; empty doc writes nothing
func (w *Writer) WriteJSDoc(doc string) {
	lines := docLines(doc)
	switch len(lines) {
	case 0:
		return
	case 1:
		w.WriteLinef("/** %s */", lines[0])
		return
	}

	w.WriteLine("/**")
	for _, line := range lines {
		if line == "" {
			w.WriteLine(" *")
			continue
		}
		w.WriteLinef(" * %s", line)
	}
	w.WriteLine(" */")
}

func docLines(doc string) []string {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return lines
}

// String returns the generated text
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the generated text as bytes
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

// Reset clears content and indentation
func (w *Writer) Reset() {
	w.sb.Reset()
	w.level = 0
	w.needsIndent = true
}
