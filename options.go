package mdtokens

// Option configures ParseTokens.
type Option func(*parseConfig)

type parseConfig struct {
	collapsible string
	maxDepth    int
}

func newParseConfig(opts []Option) parseConfig {
	cfg := parseConfig{collapsible: TypeParagraph}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithCollapsibleType sets the block type that is dissolved when all of its content was
// assignment tokens. The default is "paragraph".
func WithCollapsibleType(typ string) Option {
	return func(cfg *parseConfig) {
		if typ != "" {
			cfg.collapsible = typ
		}
	}
}

// WithMaxDepth bounds container nesting. Zero or less means unlimited.
func WithMaxDepth(depth int) Option {
	return func(cfg *parseConfig) {
		cfg.maxDepth = depth
	}
}
