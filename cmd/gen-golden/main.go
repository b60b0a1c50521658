package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/mdtokens"
)

func main() {
	root := flag.String("dir", "testdata", "directory holding the markdown samples")
	flag.Parse()

	var paths []string
	err := filepath.WalkDir(*root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", *root, err)
	}
	if len(paths) == 0 {
		fatalf("no markdown files found under %s", *root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		tree, err := mdtokens.ReadMarkdown(src)
		if err != nil {
			fatalf("read markdown %s: %v", path, err)
		}
		if _, err := mdtokens.ParseTokens(tree); err != nil {
			fatalf("parse tokens %s: %v", path, err)
		}
		var out bytes.Buffer
		if err := mdtokens.EncodeTree(&out, tree, mdtokens.FormatJSON); err != nil {
			fatalf("encode %s: %v", path, err)
		}
		goldenPath := goldenTreePath(path)
		if err := os.WriteFile(goldenPath, out.Bytes(), 0o644); err != nil {
			fatalf("write %s: %v", goldenPath, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
	}
}

func goldenTreePath(mdPath string) string {
	return strings.TrimSuffix(mdPath, ".md") + ".golden.json"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
