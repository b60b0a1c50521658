package mdtokens

import (
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// frag is a comparable view of a Fragment. Markers show up as <id> in Text.
type frag struct {
	Text   []string
	Before []string
	After  []string
	SB, SA bool
}

func viewFragment(f Fragment) frag {
	var v frag
	for _, child := range f.Children {
		if id := MarkerID(child); id != "" {
			v.Text = append(v.Text, "<"+id+">")
			continue
		}
		v.Text = append(v.Text, child.Value)
	}
	v.Before = f.Before
	v.After = f.After
	v.SB = f.SpaceBefore
	v.SA = f.SpaceAfter
	return v
}

func scanAll(text string) []frag {
	var out []frag
	for f := range Scan(text) {
		out = append(out, viewFragment(f))
	}
	return out
}

func TestScanFragments(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []frag
	}{
		{
			name: "before at end",
			src:  "a :^b:",
			want: []frag{{Text: []string{"a"}}, {Before: []string{"b"}}},
		},
		{
			name: "two befores",
			src:  ":^b: :^c:",
			want: []frag{{Before: []string{"b"}, SB: true, SA: true}, {Before: []string{"c"}}},
		},
		{
			name: "after between words",
			src:  "x :b^: y",
			want: []frag{{Text: []string{"x"}}, {After: []string{"b"}, SB: true, SA: true}, {Text: []string{"y"}}},
		},
		{
			name: "after without leading space",
			src:  "x:b^: y",
			want: []frag{{Text: []string{"x"}}, {After: []string{"b"}}, {Text: []string{"y"}}},
		},
		{
			name: "neutral keeps surrounding space",
			src:  "see :tag: here",
			want: []frag{{Text: []string{"see "}}, {Text: []string{"<tag>"}}, {Text: []string{" here"}}},
		},
		{
			name: "malformed stays text",
			src:  "a :: b :^: c :^a^: d",
			want: []frag{{Text: []string{"a :: b :^: c :^a^: d"}}},
		},
		{
			name: "colons around neutral",
			src:  "::a::",
			want: []frag{{Text: []string{":"}}, {Text: []string{"<a>"}}, {Text: []string{":"}}},
		},
		{
			name: "neutral wins at its colon",
			src:  ":a:^b:",
			want: []frag{{Text: []string{"<a>"}}, {Text: []string{"^b:"}}},
		},
		{
			name: "unicode identifiers",
			src:  "日本 :^タグ:",
			want: []frag{{Text: []string{"日本"}}, {Before: []string{"タグ"}}},
		},
		{
			name: "trailing whitespace is not reused as leading",
			src:  ":^a:  :b^:",
			want: []frag{{Before: []string{"a"}, SB: true, SA: true}, {After: []string{"b"}}},
		},
		{
			name: "empty",
			src:  "",
			want: nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scanAll(tc.src)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("Scan(%q) mismatch (-want +got):\n%s", tc.src, diff)
			}
		})
	}
}

var tokenPattern = regexp.MustCompile(`\s*:\^[^\s:^]+:\s*|\s*:[^\s:^]+\^:\s*|:[^\s:^]+:`)

// stripAssignments removes assignment syntax the way a regular expression engine would,
// keeping neutral tokens in place.
func stripAssignments(src string) string {
	return tokenPattern.ReplaceAllStringFunc(src, func(m string) string {
		if strings.Contains(m, "^") {
			return ""
		}
		return m
	})
}

func TestScanCoverage(t *testing.T) {
	inputs := []string{
		"a :^b: c",
		":x: and :y^: z",
		"a::b",
		":^a^:",
		"tail :b^:",
		"  :^lead: text",
		"x:y:z:w",
		"line one\n:^n:\nline two",
		"no tokens here",
		":a::b::c:",
	}
	for _, src := range inputs {
		var b strings.Builder
		for f := range Scan(src) {
			for _, child := range f.Children {
				b.WriteString(child.Value)
			}
		}
		if want := stripAssignments(src); b.String() != want {
			t.Fatalf("coverage for %q: got %q want %q", src, b.String(), want)
		}
	}
}

func TestScanStopsEarly(t *testing.T) {
	count := 0
	for range Scan("a :b: c :d: e") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Fatalf("expected to stop after 2 fragments, got %d", count)
	}
}

func TestIsIdentifier(t *testing.T) {
	for id, want := range map[string]bool{
		"ok":     true,
		"a-b_c9": true,
		"":       false,
		"a b":    false,
		"a:b":    false,
		"^a":     false,
	} {
		if got := IsIdentifier(id); got != want {
			t.Fatalf("IsIdentifier(%q)=%v want %v", id, got, want)
		}
	}
}
