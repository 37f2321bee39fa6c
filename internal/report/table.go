package report

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // Fixed-width terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps "ascii"/"table" and "markdown"/"md" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "ascii", "table":
		return ASCII, true
	case "markdown", "md":
		return Markdown, true
	}
	return ASCII, false
}

// tableBuilder wraps a go-pretty writer rendered in a fixed Mode.
type tableBuilder struct {
	writer table.Writer
	mode   Mode
}

func newTable(m Mode, title string) *tableBuilder {
	w := table.NewWriter()
	style := table.StyleDefault
	if m == ASCII {
		style = table.StyleLight
	}
	// Headers keep their case; labels such as DÉCROCHAGE are already upper.
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	w.SetStyle(style)
	if title != "" {
		w.SetTitle(title)
	}
	return &tableBuilder{writer: w, mode: m}
}

func (b *tableBuilder) header(cols ...any) {
	b.writer.AppendHeader(table.Row(cols))
}

func (b *tableBuilder) row(vals ...any) {
	b.writer.AppendRow(table.Row(vals))
}

func (b *tableBuilder) footer(vals ...any) {
	b.writer.AppendFooter(table.Row(vals))
}

// rightAlign right-aligns the given 1-based columns.
func (b *tableBuilder) rightAlign(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, n := range cols {
		cfgs[i] = table.ColumnConfig{Number: n, Align: text.AlignRight, AlignHeader: text.AlignRight}
	}
	b.writer.SetColumnConfigs(cfgs)
}

func (b *tableBuilder) String() string {
	if b.mode == Markdown {
		return b.writer.RenderMarkdown()
	}
	return b.writer.Render()
}
