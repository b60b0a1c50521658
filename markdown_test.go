package mdtokens

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func headingNode(depth int64, children ...*Node) *Node {
	n := NewContainer("heading", children...)
	n.Props = map[string]any{"depth": depth}
	return n
}

func TestReadMarkdownBlocks(t *testing.T) {
	src := strings.Join([]string{
		"---",
		"title: Post",
		"---",
		"",
		"# Hello #",
		"",
		"Para line one",
		"line two",
		"",
		"Setext",
		"======",
		"",
		"***",
		"",
		"~~~js extra",
		"let a = 1;",
		"~~~",
		"",
		"    indented",
		"",
		"###### six",
		"####### seven",
	}, "\n")
	got, err := ReadMarkdown([]byte(src))
	if err != nil {
		t.Fatalf("ReadMarkdown: %v", err)
	}
	want := root(
		NewLeaf("yaml", map[string]any{"value": "title: Post"}),
		headingNode(1, text("Hello")),
		para(text("Para line one\nline two")),
		headingNode(1, text("Setext")),
		NewLeaf("thematicBreak", nil),
		NewLeaf("code", map[string]any{"value": "let a = 1;", "lang": "js", "meta": "extra"}),
		para(text("indented")),
		headingNode(6, text("six")),
		para(text("####### seven")),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMarkdownSetextAndBreaks(t *testing.T) {
	got, err := ReadMarkdown([]byte("Title\n---\n\n---\n\n#\n\n#notheading\n"))
	if err != nil {
		t.Fatalf("ReadMarkdown: %v", err)
	}
	want := root(
		headingNode(2, text("Title")),
		NewLeaf("thematicBreak", nil),
		headingNode(1),
		para(text("#notheading")),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMarkdownUnclosedFence(t *testing.T) {
	got, err := ReadMarkdown([]byte("```\ncode :^x:\n\nmore"))
	if err != nil {
		t.Fatalf("ReadMarkdown: %v", err)
	}
	want := root(NewLeaf("code", map[string]any{"value": "code :^x:\n\nmore"}))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReadMarkdownFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantType string
		wantVal  string
	}{
		{
			name:     "yaml",
			src:      "---\ntitle: Post\ndate: 2026-02-09\n---\n\n# Hello\n\nBody.\n",
			wantType: "yaml",
			wantVal:  "title: Post\ndate: 2026-02-09",
		},
		{
			name:     "toml",
			src:      "+++\ntitle = \"Post\"\n+++\n\n# Hello\n",
			wantType: "toml",
			wantVal:  "title = \"Post\"",
		},
		{
			name:     "json",
			src:      ";;;\n{\"title\": \"Post\"}\n;;;\n\n# Hello\n",
			wantType: "json",
			wantVal:  "{\"title\": \"Post\"}",
		},
		{
			name:     "crlf with bom",
			src:      "\xef\xbb\xbf---\r\ntitle: Post\r\n---\r\n\r\n# Hello\r\n",
			wantType: "yaml",
			wantVal:  "title: Post",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadMarkdown([]byte(tc.src))
			if err != nil {
				t.Fatalf("ReadMarkdown: %v", err)
			}
			if len(got.Children) < 2 {
				t.Fatalf("expected front matter and heading:\n%s", Sprint(got))
			}
			fm := got.Children[0]
			if fm.Type != tc.wantType || fm.Props["value"] != tc.wantVal {
				t.Fatalf("front matter = %s %q, want %s %q", fm.Type, fm.Props["value"], tc.wantType, tc.wantVal)
			}
			if got.Children[1].Type != "heading" {
				t.Fatalf("expected heading after front matter, got %s", got.Children[1].Type)
			}
		})
	}
}

func TestReadMarkdownKeepsNonFrontMatter(t *testing.T) {
	tests := []string{
		"---\n\n# Hello\n",
		"---\ntitle: never closed\n# Hello\n",
		"Intro\n---\ntitle: x\n---\n",
	}
	for _, src := range tests {
		got, err := ReadMarkdown([]byte(src))
		if err != nil {
			t.Fatalf("ReadMarkdown(%q): %v", src, err)
		}
		for _, child := range got.Children {
			if child.Type == "yaml" {
				t.Fatalf("unexpected front matter for %q:\n%s", src, Sprint(got))
			}
		}
	}
}
