package mdtokens

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

const minValueWidth = 8

// PrintOption configures Fprint.
type PrintOption func(*printConfig)

type printConfig struct {
	width  int
	styles Styles
}

// WithWidth truncates quoted values so lines fit width columns. Zero disables truncation.
func WithWidth(width int) PrintOption {
	return func(cfg *printConfig) {
		cfg.width = width
	}
}

// WithTheme styles the output. The default is uncolored.
func WithTheme(theme Theme) PrintOption {
	return func(cfg *printConfig) {
		if theme != nil {
			cfg.styles = theme.Styles()
		}
	}
}

// Fprint writes an indented outline of the tree: one line per node with its type, text
// value, props, attached tokens and marker identifier.
//
//	root tokens=[draft]
//	└─ paragraph tokens=[note]
//	   └─ text "hello"
func Fprint(w io.Writer, n *Node, opts ...PrintOption) error {
	var cfg printConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	bw := bufio.NewWriter(w)
	p := printer{w: bw, cfg: cfg}
	p.node(n, "", "")
	if p.err != nil {
		return p.err
	}
	return bw.Flush()
}

// Sprint returns the outline written by Fprint.
func Sprint(n *Node, opts ...PrintOption) string {
	var b strings.Builder
	_ = Fprint(&b, n, opts...)
	return b.String()
}

type printer struct {
	w   *bufio.Writer
	cfg printConfig
	err error
}

func (p *printer) node(n *Node, guide, childGuide string) {
	if n == nil || p.err != nil {
		return
	}
	st := p.cfg.styles
	var line strings.Builder
	line.WriteString(st.Guide.Render(guide))
	line.WriteString(st.Type.Render(n.Type))
	plainWidth := ansi.PrintableRuneWidth(guide) + ansi.PrintableRuneWidth(n.Type)
	if n.Shape() == ShapeText {
		quoted := p.fit(strconv.Quote(n.Value), plainWidth+1)
		line.WriteByte(' ')
		line.WriteString(st.Text.Render(quoted))
	}
	for _, k := range sortedKeys(n.Props) {
		if k == "position" {
			continue
		}
		line.WriteByte(' ')
		line.WriteString(st.Props.Render(k + "=" + p.fit(propString(n.Props[k]), plainWidth+len(k)+2)))
	}
	if ids := n.Tokens(); ids != nil {
		line.WriteByte(' ')
		line.WriteString(st.Tokens.Render("tokens=[" + strings.Join(ids, " ") + "]"))
	}
	if id := MarkerID(n); id != "" {
		line.WriteByte(' ')
		line.WriteString(st.Marker.Render("token=" + id))
	}
	line.WriteByte('\n')
	if _, err := p.w.WriteString(line.String()); err != nil {
		p.err = err
		return
	}
	for i, child := range n.Children {
		if i == len(n.Children)-1 {
			p.node(child, childGuide+"└─ ", childGuide+"   ")
		} else {
			p.node(child, childGuide+"├─ ", childGuide+"│  ")
		}
	}
}

// fit truncates s to the columns left after used, keeping a minimum readable width.
func (p *printer) fit(s string, used int) string {
	if p.cfg.width <= 0 {
		return s
	}
	limit := p.cfg.width - used
	if limit < minValueWidth {
		limit = minValueWidth
	}
	if ansi.PrintableRuneWidth(s) <= limit {
		return s
	}
	return truncate.StringWithTail(s, uint(limit), "…")
}

func propString(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case nil:
		return "null"
	default:
		return fmt.Sprint(val)
	}
}
