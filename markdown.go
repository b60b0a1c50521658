package mdtokens

import (
	"strings"
)

// ReadMarkdown builds a block level mdast tree from Markdown source. It recognizes front
// matter, ATX and setext headings, fenced code and thematic breaks; every other block
// becomes a paragraph holding a single text node. Inline syntax is kept as literal text,
// so the result is meant for token recognition, not for rendering.
func ReadMarkdown(src []byte) (*Node, error) {
	if err := ValidateInput(src); err != nil {
		return nil, err
	}
	src = trimBOM(src)
	root := NewContainer(TypeRoot)
	if fm, body, ok := splitFrontMatter(src); ok {
		root.Children = append(root.Children, NewLeaf(fm.typ, map[string]any{"value": string(fm.value)}))
		src = body
	}
	r := blockReader{root: root}
	for _, line := range strings.Split(string(src), "\n") {
		r.line(strings.TrimSuffix(line, "\r"))
	}
	r.closeFence()
	r.flush()
	return root, nil
}

type blockReader struct {
	root  *Node
	para  []string
	fence *fence
}

type fence struct {
	marker byte
	size   int
	indent int
	info   string
	lines  []string
}

func (r *blockReader) line(line string) {
	if r.fence != nil {
		if r.fence.closedBy(line) {
			r.closeFence()
			return
		}
		r.fence.lines = append(r.fence.lines, stripIndent(line, r.fence.indent))
		return
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		r.flush()
		return
	}
	if leadingSpaces(line) > 3 {
		r.para = append(r.para, trimmed)
		return
	}
	if f, ok := openFence(line); ok {
		r.flush()
		r.fence = f
		return
	}
	if depth, ok := setextDepth(trimmed); ok && len(r.para) > 0 {
		text := strings.Join(r.para, "\n")
		r.para = nil
		r.add(heading(depth, text))
		return
	}
	if isThematicBreak(trimmed) {
		r.flush()
		r.add(NewLeaf("thematicBreak", nil))
		return
	}
	if depth, text, ok := atxHeading(trimmed); ok {
		r.flush()
		r.add(heading(depth, text))
		return
	}
	r.para = append(r.para, trimmed)
}

func (r *blockReader) add(n *Node) {
	r.root.Children = append(r.root.Children, n)
}

func (r *blockReader) flush() {
	if len(r.para) == 0 {
		return
	}
	text := strings.Join(r.para, "\n")
	r.para = nil
	r.add(NewContainer(TypeParagraph, NewText(text)))
}

func (r *blockReader) closeFence() {
	if r.fence == nil {
		return
	}
	props := map[string]any{"value": strings.Join(r.fence.lines, "\n")}
	if r.fence.info != "" {
		lang, meta, _ := strings.Cut(r.fence.info, " ")
		props["lang"] = lang
		if meta = strings.TrimSpace(meta); meta != "" {
			props["meta"] = meta
		}
	}
	r.fence = nil
	r.add(NewLeaf("code", props))
}

func heading(depth int, text string) *Node {
	n := NewContainer("heading")
	if text != "" {
		n.Children = append(n.Children, NewText(text))
	}
	n.Props = map[string]any{"depth": int64(depth)}
	return n
}

func openFence(line string) (*fence, bool) {
	indent := leadingSpaces(line)
	rest := line[indent:]
	if len(rest) < 3 || (rest[0] != '`' && rest[0] != '~') {
		return nil, false
	}
	marker := rest[0]
	size := 0
	for size < len(rest) && rest[size] == marker {
		size++
	}
	if size < 3 {
		return nil, false
	}
	info := strings.TrimSpace(rest[size:])
	if marker == '`' && strings.IndexByte(info, '`') >= 0 {
		return nil, false
	}
	return &fence{marker: marker, size: size, indent: indent, info: info}, true
}

func (f *fence) closedBy(line string) bool {
	indent := leadingSpaces(line)
	if indent > 3 {
		return false
	}
	rest := strings.TrimRight(line[indent:], " \t")
	if len(rest) < f.size {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != f.marker {
			return false
		}
	}
	return true
}

func setextDepth(trimmed string) (int, bool) {
	switch {
	case strings.Trim(trimmed, "=") == "":
		return 1, true
	case strings.Trim(trimmed, "-") == "":
		return 2, true
	}
	return 0, false
}

func isThematicBreak(trimmed string) bool {
	var marker rune
	count := 0
	for _, r := range trimmed {
		switch r {
		case ' ', '\t':
			continue
		case '-', '*', '_':
			if marker != 0 && r != marker {
				return false
			}
			marker = r
			count++
		default:
			return false
		}
	}
	return count >= 3
}

func atxHeading(trimmed string) (int, string, bool) {
	depth := 0
	for depth < len(trimmed) && trimmed[depth] == '#' {
		depth++
	}
	if depth == 0 || depth > 6 {
		return 0, "", false
	}
	rest := trimmed[depth:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return 0, "", false
	}
	text := strings.TrimSpace(rest)
	if closed := strings.TrimRight(text, "#"); closed == "" {
		text = ""
	} else if closed != text && (strings.HasSuffix(closed, " ") || strings.HasSuffix(closed, "\t")) {
		text = strings.TrimSpace(closed)
	}
	return depth, text, true
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

func stripIndent(line string, indent int) string {
	n := leadingSpaces(line)
	if n > indent {
		n = indent
	}
	return line[n:]
}
