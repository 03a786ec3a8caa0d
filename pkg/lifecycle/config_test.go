package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfig_YAMLKeepsWhitespace(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"defaults", Config{Path: DefaultPath, Content: DefaultContent, Suffix: DefaultSuffix}},
		{"trailing newline", Config{Path: "a.txt", Content: "line\n", Suffix: "\n\tindented "}},
		{"empty", Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(tt.cfg)
			require.NoError(t, err)
			assert.NotContains(t, string(data), "|")

			var got Config
			require.NoError(t, yaml.Unmarshal(data, &got))
			assert.Equal(t, tt.cfg, got)
		})
	}
}

func TestConfig_YAMLSuffixIsQuoted(t *testing.T) {
	data, err := yaml.Marshal(Config{Path: DefaultPath, Content: DefaultContent, Suffix: DefaultSuffix})
	require.NoError(t, err)
	assert.Contains(t, string(data), `suffix: "\nAppending some text."`)
}
