package cops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMethodLength(t *testing.T) {
	const longMethod = "def foo\n  a\n  b\n  c\n  d\nend\n"

	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{
			name:    "too long",
			input:   longMethod,
			options: map[string]any{"Max": 3},
			want:    []string{"Method has too many lines. [4/3]"},
		},
		{
			name:    "at the limit",
			input:   longMethod,
			options: map[string]any{"Max": 4},
			want:    []string{},
		},
		{
			name:    "blank and comment lines are skipped",
			input:   "def foo\n  a\n  # note\n  b\n\n  c\nend\n",
			options: map[string]any{"Max": 3},
			want:    []string{},
		},
		{
			name:    "comments counted when configured",
			input:   "def foo\n  a\n  # note\n  b\n\n  c\nend\n",
			options: map[string]any{"Max": 3, "CountComments": true},
			want:    []string{"Method has too many lines. [4/3]"},
		},
		{
			name:    "define_method",
			input:   "define_method(:foo) do\n  a\n  b\n  c\n  d\nend\n",
			options: map[string]any{"Max": 3},
			want:    []string{"Method has too many lines. [4/3]"},
		},
		{
			name:    "allowed method",
			input:   longMethod,
			options: map[string]any{"Max": 3, "AllowedMethods": []any{"foo"}},
			want:    []string{},
		},
		{
			name:    "allowed pattern",
			input:   longMethod,
			options: map[string]any{"Max": 3, "AllowedPatterns": []any{`\Af`}},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewMethodLength(), tt.options, tt.input)
			assert.Equal(t, tt.want, messages(offenses))
			for _, o := range offenses {
				assert.Equal(t, position{1, 0}, position{o.Line, o.Column})
			}
		})
	}
}

func TestParameterLists(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		options map[string]any
		want    []string
	}{
		{
			name:    "too many",
			input:   "def foo(a, b, c)\nend\n",
			options: map[string]any{"Max": 2},
			want:    []string{"Avoid parameter lists longer than 2 parameters. [3/2]"},
		},
		{
			name:  "within default limit",
			input: "def foo(a, b, c)\nend\n",
			want:  []string{},
		},
		{
			name:    "block parameter excluded",
			input:   "def foo(a, b, &blk)\nend\n",
			options: map[string]any{"Max": 2},
			want:    []string{},
		},
		{
			name:    "keyword arguments counted",
			input:   "def foo(a, b:, c:)\nend\n",
			options: map[string]any{"Max": 2},
			want:    []string{"Avoid parameter lists longer than 2 parameters. [3/2]"},
		},
		{
			name:    "keyword arguments ignored",
			input:   "def foo(a, b:, c:)\nend\n",
			options: map[string]any{"Max": 2, "CountKeywordArgs": false},
			want:    []string{},
		},
		{
			name:    "too many optional",
			input:   "def foo(a = 1, b = 2)\nend\n",
			options: map[string]any{"MaxOptionalParameters": 1},
			want:    []string{"Method has too many optional parameters. [2/1]"},
		},
		{
			name:    "block parameters",
			input:   "foo { |a, b, c| a }\n",
			options: map[string]any{"Max": 2},
			want:    []string{"Avoid parameter lists longer than 2 parameters. [3/2]"},
		},
		{
			name:    "struct members",
			input:   "Struct.new(:a) do |a, b, c|\nend\n",
			options: map[string]any{"Max": 2},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewParameterLists(), tt.options, tt.input)
			assert.Equal(t, tt.want, messages(offenses))
		})
	}
}
