package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithTabSize sets the tab size used for whitespace columns.
func WithTabSize(size int) Option {
	return func(b *Buffer) {
		if size > 0 {
			b.tabSize = size
		}
	}
}

// WithReadOnly marks the buffer read-only from the start.
func WithReadOnly(readOnly bool) Option {
	return func(b *Buffer) {
		b.readOnly = readOnly
	}
}

// WithSyntax attaches language support used by smart indent and comment
// toggling.
func WithSyntax(s SyntaxSupport) Option {
	return func(b *Buffer) {
		b.syntax = s
	}
}

// WithHistoryLimit caps the number of undo entries.
func WithHistoryLimit(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.historyLimit = n
		}
	}
}

// SyntaxSupport supplies language-specific editing hints.
type SyntaxSupport interface {
	// LineComment returns the line comment token, or "" if the language
	// has none.
	LineComment() string

	// IndentAfter reports whether a line following line should be indented
	// one level deeper.
	IndentAfter(line string) bool

	// OutdentLine reports whether line should sit one level shallower than
	// the line above it (for example a closing brace).
	OutdentLine(line string) bool
}
