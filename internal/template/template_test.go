package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeSubstitute(t *testing.T) {
	params := map[string]string{"n": "3", "name": "Armor", "_x1": "y"}

	tests := []struct {
		name string
		text string
		want string
	}{
		{"braced", "Block_${n}", "Block_3"},
		{"bare", "Block_$n", "Block_3"},
		{"bare stops at non ident", "$name-LOD", "Armor-LOD"},
		{"bare is greedy", "$nx", "$nx"},
		{"underscore ident", "$_x1!", "y!"},
		{"escape", "cost $$5", "cost $5"},
		{"unknown left verbatim", "${missing}_$other", "${missing}_$other"},
		{"stray dollar", "a $ b", "a $ b"},
		{"trailing dollar", "end$", "end$"},
		{"unterminated brace", "${n", "${n"},
		{"invalid braced", "${1n}", "${1n}"},
		{"empty braced", "${}", "${}"},
		{"no placeholders", "plain", "plain"},
		{"mixed", "$$${n}$n", "$33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeSubstitute(tt.text, params))
		})
	}
}

func TestSafeSubstitute_NilParams(t *testing.T) {
	assert.Equal(t, "Block_${n}", SafeSubstitute("Block_${n}", nil))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"n", "name"}, Placeholders("$n ${name} $$n ${n}"))
	assert.Empty(t, Placeholders("no $$ names $"))
}
