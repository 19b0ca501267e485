package directive_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/turbocop/pkg/lint/directive"
	"github.com/yaklabco/turbocop/pkg/parser/treesitter"
	"github.com/yaklabco/turbocop/pkg/source"
)

func scanText(t *testing.T, code string) ([]directive.Directive, *directive.Oracle) {
	t.Helper()
	return directive.Scan(source.New("t.rb", []byte(code)), nil)
}

func TestScan_Grammar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   string
		kind   directive.Kind
		cops   []string
		reason string
	}{
		{
			name: "single cop",
			code: "# rubocop:disable Layout/LineLength\n",
			kind: directive.KindDisable,
			cops: []string{"Layout/LineLength"},
		},
		{
			name: "list with spaces around commas",
			code: "# rubocop:disable Layout/LineLength ,  Style/StringLiterals,Lint/Debugger\n",
			kind: directive.KindDisable,
			cops: []string{"Layout/LineLength", "Style/StringLiterals", "Lint/Debugger"},
		},
		{
			name:   "reason suffix",
			code:   "# rubocop:todo Style/GlobalVars -- legacy code\n",
			kind:   directive.KindTodo,
			cops:   []string{"Style/GlobalVars"},
			reason: "legacy code",
		},
		{
			name: "loose spacing",
			code: "#rubocop : enable all\n",
			kind: directive.KindEnable,
			cops: []string{"all"},
		},
		{
			name: "department",
			code: "# rubocop:disable Layout\n",
			kind: directive.KindDisable,
			cops: []string{"Layout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			directives, _ := scanText(t, tt.code)
			require.Len(t, directives, 1)

			d := directives[0]
			assert.Equal(t, tt.kind, d.Kind)
			assert.Equal(t, tt.reason, d.Reason)
			assert.False(t, d.Inline)

			names := make([]string, 0, len(d.Cops))
			for _, ref := range d.Cops {
				names = append(names, ref.Name)
			}
			assert.Equal(t, tt.cops, names)
		})
	}
}

func TestScan_IgnoresNonDirectives(t *testing.T) {
	t.Parallel()

	directives, oracle := scanText(t, "# rubocop is great\n# rubocop:disabled Foo/Bar\nx = 1\n")
	assert.Empty(t, directives)
	assert.True(t, oracle.Empty())
}

func TestScan_NameColumns(t *testing.T) {
	t.Parallel()

	directives, _ := scanText(t, "def foo; end # rubocop:disable Lint/UselessMethodDefinition, Style/Foo\n")
	require.Len(t, directives, 1)

	d := directives[0]
	assert.True(t, d.Inline)
	assert.Equal(t, 13, d.Column)
	require.Len(t, d.Cops, 2)
	assert.Equal(t, 31, d.Cops[0].Column)
	assert.Equal(t, 1, d.Cops[0].Line)
	assert.Equal(t, 31+len("Lint/UselessMethodDefinition, "), d.Cops[1].Column)
}

func TestOracle_InlineScopesToLine(t *testing.T) {
	t.Parallel()

	_, oracle := scanText(t, "a = 1 # rubocop:disable Style/Foo\nb = 2\n")
	assert.True(t, oracle.IsSuppressed("Style/Foo", 1))
	assert.False(t, oracle.IsSuppressed("Style/Foo", 2))
	assert.False(t, oracle.IsSuppressed("Style/Bar", 1))
}

func TestOracle_BlockScope(t *testing.T) {
	t.Parallel()

	code := "a = 1\n" +
		"# rubocop:disable Style/Foo\n" +
		"b = 2\n" +
		"# rubocop:enable Style/Foo\n" +
		"c = 3\n"
	_, oracle := scanText(t, code)

	assert.False(t, oracle.IsSuppressed("Style/Foo", 1))
	assert.True(t, oracle.IsSuppressed("Style/Foo", 2))
	assert.True(t, oracle.IsSuppressed("Style/Foo", 3))
	assert.True(t, oracle.IsSuppressed("Style/Foo", 4))
	assert.False(t, oracle.IsSuppressed("Style/Foo", 5))
}

func TestOracle_UnclosedRegionRunsToEOF(t *testing.T) {
	t.Parallel()

	_, oracle := scanText(t, "# rubocop:todo Layout/LineLength\nx\ny\n")
	assert.True(t, oracle.IsSuppressed("Layout/LineLength", 3))
	assert.True(t, oracle.IsSuppressed("Layout/LineLength", 1000))
}

func TestOracle_DepartmentCoversCops(t *testing.T) {
	t.Parallel()

	_, oracle := scanText(t, "# rubocop:disable Layout\nx\n# rubocop:enable Layout\ny\n")
	assert.True(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 2))
	assert.True(t, oracle.IsSuppressed("Layout/LineLength", 2))
	assert.False(t, oracle.IsSuppressed("Style/StringLiterals", 2))
	assert.False(t, oracle.IsSuppressed("Layout/LineLength", 4))
}

func TestOracle_DepartmentEnableClosesCop(t *testing.T) {
	t.Parallel()

	code := "# rubocop:disable Layout/TrailingWhitespace\n" + // 1
		"x = 1   \n" + // 2
		"# rubocop:enable Layout\n" + // 3
		"y = 2  \n" // 4
	_, oracle := scanText(t, code)

	assert.True(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 2))
	assert.False(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 4))
}

func TestOracle_CopEnabledInsideDepartment(t *testing.T) {
	t.Parallel()

	code := "# rubocop:disable Layout\n" + // 1
		"a\n" + // 2
		"# rubocop:enable Layout/TrailingWhitespace\n" + // 3
		"b\n" + // 4
		"# rubocop:disable Layout/TrailingWhitespace\n" + // 5
		"c\n" + // 6
		"# rubocop:enable Layout\n" + // 7
		"d\n" // 8
	_, oracle := scanText(t, code)

	assert.True(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 2))
	assert.False(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 4))
	assert.True(t, oracle.IsSuppressed("Layout/LineLength", 4))
	assert.True(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 6))
	assert.False(t, oracle.IsSuppressed("Layout/TrailingWhitespace", 8))
	assert.False(t, oracle.IsSuppressed("Layout/LineLength", 8))
}

func TestOracle_DepartmentEnabledInsideAll(t *testing.T) {
	t.Parallel()

	code := "# rubocop:disable all\n" + // 1
		"a\n" + // 2
		"# rubocop:enable Layout\n" + // 3
		"b\n" // 4
	_, oracle := scanText(t, code)

	assert.True(t, oracle.IsSuppressed("Layout/LineLength", 2))
	assert.False(t, oracle.IsSuppressed("Layout/LineLength", 4))
	assert.True(t, oracle.IsSuppressed("Style/Foo", 4))
}

func TestOracle_AllWithReenabledCop(t *testing.T) {
	t.Parallel()

	code := "# rubocop:disable all\n" + // 1
		"a\n" + // 2
		"# rubocop:enable Style/Foo\n" + // 3
		"b\n" + // 4
		"# rubocop:disable Style/Foo\n" + // 5
		"c\n" + // 6
		"# rubocop:enable all\n" + // 7
		"d\n" // 8
	_, oracle := scanText(t, code)

	assert.True(t, oracle.IsSuppressed("Style/Foo", 2))
	assert.True(t, oracle.IsSuppressed("Anything/Unknown", 2))
	assert.False(t, oracle.IsSuppressed("Style/Foo", 4))
	assert.True(t, oracle.IsSuppressed("Style/Bar", 4))
	assert.True(t, oracle.IsSuppressed("Style/Foo", 6))
	assert.False(t, oracle.IsSuppressed("Style/Foo", 8))
	assert.False(t, oracle.IsSuppressed("Style/Bar", 8))
}

func TestScan_UsesParserComments(t *testing.T) {
	t.Parallel()

	code := "x = \"# rubocop:disable Style/Foo\"\n" +
		"y = 1 # rubocop:disable Style/Bar\n"
	src := source.New("t.rb", []byte(code))
	result, err := treesitter.New().Parse(context.Background(), src)
	require.NoError(t, err)

	directives, oracle := directive.Scan(src, result.Comments)
	require.Len(t, directives, 1)
	assert.Equal(t, 2, directives[0].Line)
	assert.True(t, directives[0].Inline)
	assert.False(t, oracle.IsSuppressed("Style/Foo", 1))
	assert.True(t, oracle.IsSuppressed("Style/Bar", 2))
}

type fakeRegistry map[string]bool

func (f fakeRegistry) Has(name string) bool { return f[name] }

func TestRedundant(t *testing.T) {
	t.Parallel()

	registry := fakeRegistry{
		"Lint/UselessMethodDefinition": true,
		"Layout/LineLength":            true,
		"Style/StringLiterals":         true,
	}
	code := "def foo; end # rubocop:disable Lint/UselessMethodDefinition\n" +
		"# rubocop:disable Layout/LineLength, Metrics/LineLength, Custom/Thing, Layout, Style/StringLiterals\n" +
		"# rubocop:disable all\n" +
		"# rubocop:enable Layout/LineLength\n"
	directives, _ := scanText(t, code)

	ran := map[string]bool{"Style/StringLiterals": true}
	findings := directive.Redundant(directives, ran, registry, false)

	require.Len(t, findings, 3)
	assert.Equal(t, "Lint/UselessMethodDefinition", findings[0].Cop)
	assert.Equal(t, "Unnecessary disabling of Lint/UselessMethodDefinition.", findings[0].Message)
	assert.Equal(t, 1, findings[0].Line)
	assert.Equal(t, 31, findings[0].Column)

	assert.Equal(t, "Layout/LineLength", findings[1].Cop)
	assert.Equal(t, 2, findings[1].Line)

	assert.Equal(t, "Metrics/LineLength", findings[2].Cop)
	assert.Equal(t,
		"Unnecessary disabling of Metrics/LineLength (Metrics/LineLength has been renamed to Layout/LineLength).",
		findings[2].Message)
}

func TestRedundant_SkippedWhenFiltered(t *testing.T) {
	t.Parallel()

	directives, _ := scanText(t, "x # rubocop:disable Style/Foo\n")
	assert.Nil(t, directive.Redundant(directives, nil, fakeRegistry{"Style/Foo": true}, true))
}

func TestObsoletion(t *testing.T) {
	t.Parallel()

	why, ok := directive.Obsoletion("Style/TrailingWhitespace")
	require.True(t, ok)
	assert.Equal(t, "Style/TrailingWhitespace has been renamed to Layout/TrailingWhitespace", why)

	_, ok = directive.Obsoletion("Layout/TrailingWhitespace")
	assert.False(t, ok)
}
