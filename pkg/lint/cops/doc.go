// Package cops provides the built-in cops of turbocop.
//
// # Departments
//
//   - Layout: TrailingWhitespace, EndOfLine, LineLength, TrailingEmptyLines,
//     IndentationStyle, EmptyLines
//   - Style: FrozenStringLiteralComment, StringLiterals, NilComparison,
//     HashSyntax, NegatedIf, DoubleNegation, GlobalVars
//   - Lint: Syntax, UselessMethodDefinition, Debugger, BooleanSymbol,
//     DuplicateMethods, RedundantCopDisableDirective
//   - Metrics: MethodLength, ParameterLists
//   - Naming: MethodName
//   - Rails (rubocop-rails): Output
//   - Performance (rubocop-performance): ReverseEach
//   - RSpec (rubocop-rspec): Focus
//
// Messages, positions, and option names follow the reference linter so
// that output can be compared byte for byte.
//
// # Usage
//
// Importing the package registers every cop with lint.DefaultRegistry:
//
//	import _ "github.com/yaklabco/turbocop/pkg/lint/cops"
//
// Or register into a custom registry:
//
//	registry := lint.NewRegistry()
//	cops.RegisterAll(registry)
package cops
