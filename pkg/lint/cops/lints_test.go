package cops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/lint"
)

func TestSyntax(t *testing.T) {
	t.Run("valid source", func(t *testing.T) {
		assert.Empty(t, lintWith(t, NewSyntax(), nil, "def foo\n  1\nend\n"))
	})

	t.Run("unterminated definition", func(t *testing.T) {
		offenses := lintWith(t, NewSyntax(), nil, "def foo(\n")
		require.NotEmpty(t, offenses)
		for _, o := range offenses {
			assert.Equal(t, lint.SyntaxCopName, o.CopName)
			assert.Equal(t, config.SeverityFatal, o.Severity)
		}
	})
}

func TestUselessMethodDefinition(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []position
	}{
		{name: "bare super", input: "def foo\n  super\nend\n", want: []position{{1, 0}}},
		{name: "same arguments", input: "def foo(a, b)\n  super(a, b)\nend\n", want: []position{{1, 0}}},
		{name: "reordered arguments", input: "def foo(a, b)\n  super(b, a)\nend\n", want: []position{}},
		{name: "optional parameter", input: "def foo(a = 1)\n  super\nend\n", want: []position{}},
		{name: "rest parameter", input: "def foo(*args)\n  super\nend\n", want: []position{}},
		{name: "more statements", input: "def foo\n  super\n  bar\nend\n", want: []position{}},
		{name: "empty body", input: "def foo\nend\n", want: []position{}},
		{name: "visibility argument", input: "private def foo\n  super\nend\n", want: []position{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewUselessMethodDefinition(), nil, tt.input)
			assert.Equal(t, tt.want, positions(offenses))
			for _, o := range offenses {
				assert.Equal(t, "Useless method definition detected.", o.Message)
			}
		})
	}
}

func TestDebugger(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "binding.pry", input: "binding.pry\n", want: []string{"Remove debugger entry point `binding.pry`."}},
		{name: "byebug", input: "byebug\n", want: []string{"Remove debugger entry point `byebug`."}},
		{name: "qualified", input: "Kernel.binding.irb\n", want: []string{"Remove debugger entry point `Kernel.binding.irb`."}},
		{name: "other receiver", input: "foo.pry\n", want: []string{}},
		{name: "safe navigation", input: "binding&.pry\n", want: []string{}},
		{name: "plain call", input: "puts 1\n", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewDebugger(), nil, tt.input)
			assert.Equal(t, tt.want, messages(offenses))
		})
	}

	t.Run("configured methods", func(t *testing.T) {
		options := map[string]any{"DebuggerMethods": map[string]any{"Custom": []any{"trace_me"}}}
		offenses := lintWith(t, NewDebugger(), options, "trace_me\nbinding.pry\n")
		assert.Equal(t, []position{{1, 0}}, positions(offenses))
	})
}

func TestBooleanSymbol(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "true symbol", input: "x = :true\n", want: []string{"Symbol with a boolean name - you probably meant to use `true`."}},
		{name: "false symbol", input: "x = :false\n", want: []string{"Symbol with a boolean name - you probably meant to use `false`."}},
		{name: "boolean literal", input: "x = true\n", want: []string{}},
		{name: "symbol array", input: "x = %i[true false]\n", want: []string{}},
		{name: "other symbol", input: "x = :truthy\n", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewBooleanSymbol(), nil, tt.input)
			assert.Equal(t, tt.want, messages(offenses))
		})
	}
}

func TestDuplicateMethods(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		pos   []position
	}{
		{
			name:  "instance methods",
			input: "class A\n  def foo; end\n  def foo; end\nend\n",
			want:  []string{"Method `A#foo` is defined at both lib/example.rb:2 and lib/example.rb:3."},
			pos:   []position{{3, 2}},
		},
		{
			name:  "instance and singleton differ",
			input: "class A\n  def self.foo; end\n  def foo; end\nend\n",
			want:  []string{},
			pos:   []position{},
		},
		{
			name:  "singleton class and self",
			input: "class A\n  class << self\n    def foo; end\n  end\n  def self.foo; end\nend\n",
			want:  []string{"Method `A.foo` is defined at both lib/example.rb:3 and lib/example.rb:5."},
			pos:   []position{{5, 2}},
		},
		{
			name:  "reopened nested class",
			input: "module M\n  class A\n    def x; end\n  end\n  class A\n    def x; end\n  end\nend\n",
			want:  []string{"Method `M::A#x` is defined at both lib/example.rb:3 and lib/example.rb:6."},
			pos:   []position{{6, 4}},
		},
		{
			name:  "conditional definitions",
			input: "if c\n  def foo; end\nelse\n  def foo; end\nend\n",
			want:  []string{},
			pos:   []position{},
		},
		{
			name:  "top level",
			input: "def foo; end\ndef foo; end\n",
			want:  []string{"Method `Object#foo` is defined at both lib/example.rb:1 and lib/example.rb:2."},
			pos:   []position{{2, 0}},
		},
		{
			name:  "different classes",
			input: "class A\n  def foo; end\nend\nclass B\n  def foo; end\nend\n",
			want:  []string{},
			pos:   []position{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offenses := lintWith(t, NewDuplicateMethods(), nil, tt.input)
			assert.Equal(t, tt.want, messages(offenses))
			assert.Equal(t, tt.pos, positions(offenses))
		})
	}
}

func TestRedundantCopDisableDirective(t *testing.T) {
	newRegistry := func() *lint.Registry {
		registry := lint.NewRegistry()
		registry.MustRegister(NewLineLength(), NewRedundantCopDisableDirective(registry))
		return registry
	}
	const input = "# rubocop:disable Layout/LineLength\nx = 1\n"

	t.Run("disabled cop", func(t *testing.T) {
		cfg := newTestConfig(t, map[string]any{"Layout/LineLength": map[string]any{"Enabled": false}})
		offenses := runRegistry(t, newRegistry(), cfg, "lib/example.rb", input, lint.Options{})
		require.Len(t, offenses, 1)
		assert.Equal(t, "Lint/RedundantCopDisableDirective", offenses[0].CopName)
		assert.Equal(t, "Unnecessary disabling of Layout/LineLength.", offenses[0].Message)
		assert.Equal(t, position{1, 18}, positions(offenses)[0])
	})

	t.Run("cop that ran", func(t *testing.T) {
		offenses := runRegistry(t, newRegistry(), newTestConfig(t, nil), "lib/example.rb", input, lint.Options{})
		assert.Empty(t, offenses)
	})

	t.Run("unknown and wildcard names", func(t *testing.T) {
		src := "# rubocop:disable Foo/Bar\n# rubocop:disable all\nx = 1\n"
		offenses := runRegistry(t, newRegistry(), newTestConfig(t, nil), "lib/example.rb", src, lint.Options{})
		assert.Empty(t, offenses)
	})

	t.Run("filtered run", func(t *testing.T) {
		cfg := newTestConfig(t, nil)
		opts := lint.Options{Filter: config.Filter{Except: []string{"Layout/LineLength"}}}
		offenses := runRegistry(t, newRegistry(), cfg, "lib/example.rb", input, opts)
		assert.Empty(t, offenses)
	})
}
