package mdtokens

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// FetchRequest configures FetchTree.
type FetchRequest struct {
	URL    string
	Client *http.Client
	Format Format
}

// FetchTree fetches a document over HTTP(S) and decodes it. With FormatAuto a JSON or
// YAML content type selects that codec before sniffing the body.
func FetchTree(ctx context.Context, req FetchRequest) (*Node, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("fetch tree: URL is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch tree: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return nil, fmt.Errorf("fetch tree: unsupported scheme %q", httpReq.URL.Scheme)
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch tree: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch tree: status %s", resp.Status)
	}
	format := req.Format
	if format == FormatAuto {
		format = FormatFromContentType(resp.Header.Get("Content-Type"))
	}
	n, err := DecodeTree(resp.Body, format)
	if err != nil {
		return nil, fmt.Errorf("fetch tree: %w", err)
	}
	return n, nil
}

// FormatFromContentType maps a MIME type to a Format, FormatAuto when unknown.
func FormatFromContentType(contentType string) Format {
	mediaType, _, _ := strings.Cut(contentType, ";")
	switch strings.ToLower(strings.TrimSpace(mediaType)) {
	case "application/json", "application/vnd.mdast+json":
		return FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml":
		return FormatYAML
	case "text/markdown", "text/x-markdown":
		return FormatMarkdown
	default:
		return FormatAuto
	}
}
