package mdtokens

import "bytes"

const maxFrontMatterProbeBytes = 64 * 1024

var frontMatterTypes = map[string]string{
	"---": "yaml",
	"+++": "toml",
	";;;": "json",
}

// frontMatter is a metadata block found at the very start of a document.
type frontMatter struct {
	typ   string
	value []byte
}

// splitFrontMatter lifts a leading front matter block off src. ok is false when src does
// not open with a delimiter followed by something that looks like metadata, or when the
// block is never closed within the probe window.
func splitFrontMatter(src []byte) (fm frontMatter, body []byte, ok bool) {
	openLine, openNext, found := nextLine(src, 0)
	if !found {
		return frontMatter{}, src, false
	}
	delim, isFrontMatter := parseOpeningFrontMatterDelimiter(openLine)
	if !isFrontMatter {
		return frontMatter{}, src, false
	}
	secondLine, _, found := nextLine(src, openNext)
	if !found || !frontMatterMetadataLikely(secondLine) {
		return frontMatter{}, src, false
	}
	closeStart, closeNext, found := findClosingFrontMatterDelimiter(src, openNext, delim)
	if !found || closeStart > maxFrontMatterProbeBytes {
		return frontMatter{}, src, false
	}
	value := bytes.TrimRight(src[openNext:closeStart], "\r\n")
	return frontMatter{typ: frontMatterTypes[string(delim)], value: value}, src[closeNext:], true
}

func nextLine(src []byte, start int) ([]byte, int, bool) {
	if start >= len(src) {
		return nil, 0, false
	}
	i := bytes.IndexByte(src[start:], '\n')
	if i < 0 {
		return trimCR(src[start:]), len(src), true
	}
	lineEnd := start + i
	return trimCR(src[start:lineEnd]), lineEnd + 1, true
}

func parseOpeningFrontMatterDelimiter(line []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(line)
	if _, ok := frontMatterTypes[string(trimmed)]; ok {
		return trimmed, true
	}
	return nil, false
}

func frontMatterMetadataLikely(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return false
	}
	if bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("[")) {
		return true
	}
	if bytes.Contains(trimmed, []byte(":")) || bytes.Contains(trimmed, []byte("=")) {
		return true
	}
	return false
}

// findClosingFrontMatterDelimiter returns the offset of the closing delimiter line and the
// offset just past it.
func findClosingFrontMatterDelimiter(src []byte, start int, delim []byte) (int, int, bool) {
	for idx := start; idx < len(src); {
		line, next, ok := nextLine(src, idx)
		if !ok {
			return 0, 0, false
		}
		if bytes.Equal(bytes.TrimSpace(line), delim) {
			return idx, next, true
		}
		idx = next
	}
	return 0, 0, false
}

func trimCR(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\r' {
		return b[:len(b)-1]
	}
	return b
}

func trimBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}
