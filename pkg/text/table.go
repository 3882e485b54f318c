package text

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
)

// FormatTables re-renders every pipe table in the markdown with aligned
// column widths. Tables are located via the goldmark AST, so pipes inside
// code blocks are left alone. Non-table content is returned byte-identical.
func FormatTables(markdown string) string {
	source := []byte(markdown)

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(gtext.NewReader(source))

	type span struct {
		start, stop int
		text        string
	}

	var spans []span

	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || n.Kind() != east.KindTable {
			return ast.WalkContinue, nil
		}

		start, stop, ok := tableSpan(n, source)

		if !ok {
			return ast.WalkSkipChildren, nil
		}

		spans = append(spans, span{
			start: start,
			stop:  stop,
			text:  renderTable(n, source),
		})

		return ast.WalkSkipChildren, nil
	})

	if len(spans) == 0 {
		return markdown
	}

	var builder strings.Builder
	cursor := 0

	for _, s := range spans {
		builder.WriteString(markdown[cursor:s.start])
		builder.WriteString(s.text)
		cursor = s.stop
	}

	builder.WriteString(markdown[cursor:])

	return builder.String()
}

// tableSpan computes the byte range of the table in the source, expanded to
// whole lines so the delimiter row between header and body is covered.
func tableSpan(table ast.Node, source []byte) (int, int, bool) {
	start := -1
	stop := -1

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			lines := cell.Lines()

			for i := 0; i < lines.Len(); i++ {
				segment := lines.At(i)

				if start < 0 || segment.Start < start {
					start = segment.Start
				}

				if segment.Stop > stop {
					stop = segment.Stop
				}
			}
		}
	}

	if start < 0 {
		return 0, 0, false
	}

	for start > 0 && source[start-1] != '\n' {
		start--
	}

	for stop < len(source) && source[stop] != '\n' {
		stop++
	}

	return start, stop, true
}

func renderTable(table ast.Node, source []byte) string {
	var rows [][]string
	var alignments []east.Alignment

	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string

		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, cellText(cell, source))

			if row.Kind() == east.KindTableHeader {
				alignment := east.AlignNone

				if c, ok := cell.(*east.TableCell); ok {
					alignment = c.Alignment
				}

				alignments = append(alignments, alignment)
			}
		}

		rows = append(rows, cells)
	}

	widths := make([]int, len(alignments))

	for i := range widths {
		widths[i] = 3
	}

	for _, cells := range rows {
		for i, cell := range cells {
			if i < len(widths) && utf8.RuneCountInString(cell) > widths[i] {
				widths[i] = utf8.RuneCountInString(cell)
			}
		}
	}

	var builder strings.Builder

	for index, cells := range rows {
		builder.WriteString("|")

		for i := range widths {
			cell := ""

			if i < len(cells) {
				cell = cells[i]
			}

			builder.WriteString(" ")
			builder.WriteString(cell)
			builder.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			builder.WriteString(" |")
		}

		builder.WriteString("\n")

		if index == 0 {
			builder.WriteString("|")

			for i := range widths {
				builder.WriteString(" ")
				builder.WriteString(delimiter(alignments[i], widths[i]))
				builder.WriteString(" |")
			}

			builder.WriteString("\n")
		}
	}

	return strings.TrimRight(builder.String(), "\n")
}

// cellText returns the raw source of a cell so inline markup survives the
// rewrite untouched.
func cellText(cell ast.Node, source []byte) string {
	lines := cell.Lines()

	if lines.Len() == 0 {
		return string(cell.Text(source))
	}

	var builder strings.Builder

	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		builder.Write(line.Value(source))
	}

	return strings.TrimSpace(builder.String())
}

func delimiter(alignment east.Alignment, width int) string {
	switch alignment {
	case east.AlignLeft:
		return ":" + strings.Repeat("-", width-1)

	case east.AlignRight:
		return strings.Repeat("-", width-1) + ":"

	case east.AlignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"

	default:
		return strings.Repeat("-", width)
	}
}
