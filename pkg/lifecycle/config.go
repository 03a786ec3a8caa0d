package lifecycle

import "gopkg.in/yaml.v3"

const (
	DefaultPath    = "example.txt"
	DefaultContent = "Hello, File System!"
	DefaultSuffix  = "\nAppending some text."
)

// Config configures the default pipeline.
type Config struct {
	// Path is the file the stages operate on, relative to the working
	// directory unless absolute.
	// Default: "example.txt"
	Path string `mapstructure:"path" validate:"required" yaml:"path"`

	// Content is written by the write stage.
	// Default: "Hello, File System!"
	Content string `mapstructure:"content" yaml:"content"`

	// Suffix is added by the append stage.
	// Default: "\nAppending some text."
	Suffix string `mapstructure:"suffix" yaml:"suffix"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Content == "" {
		c.Content = DefaultContent
	}
	if c.Suffix == "" {
		c.Suffix = DefaultSuffix
	}
}

// MarshalYAML writes Content and Suffix as double-quoted scalars. A block
// scalar would not keep the suffix's leading newline through a reload.
func (c Config) MarshalYAML() (any, error) {
	return struct {
		Path    string       `yaml:"path"`
		Content quotedString `yaml:"content"`
		Suffix  quotedString `yaml:"suffix"`
	}{c.Path, quotedString(c.Content), quotedString(c.Suffix)}, nil
}

type quotedString string

func (s quotedString) MarshalYAML() (any, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: string(s),
	}, nil
}
