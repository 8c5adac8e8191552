// SPDX-License-Identifier: MIT

package source

// Default NA tokens for text sources.
var DefaultNATokens = []string{"", "NA", "NaN", "null"}

// Option configures a loader.
type Option func(*config)

type config struct {
	key       string
	delimiter rune // 0 → by extension
	na        map[string]struct{}
}

// WithKey designates the key attribute of the loaded table.
func WithKey(name string) Option {
	return func(c *config) { c.key = name }
}

// WithDelimiter overrides the field delimiter (default: ',' or '\t' for ".tsv").
func WithDelimiter(r rune) Option {
	return func(c *config) { c.delimiter = r }
}

// WithNATokens replaces the set of cell values read as missing.
func WithNATokens(tokens ...string) Option {
	return func(c *config) {
		c.na = make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			c.na[t] = struct{}{}
		}
	}
}

func gatherOptions(opts ...Option) *config {
	c := &config{}
	WithNATokens(DefaultNATokens...)(c)
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *config) isNA(s string) bool {
	_, ok := c.na[s]
	return ok
}
