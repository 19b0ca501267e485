package config

// renamedCops maps obsolete cop names to their current names.
//
//nolint:gochecknoglobals // Static lookup table.
var renamedCops = map[string]string{
	"Layout/AlignArguments":            "Layout/ArgumentAlignment",
	"Layout/Tab":                       "Layout/IndentationStyle",
	"Layout/TrailingBlankLines":        "Layout/TrailingEmptyLines",
	"Lint/BlockAlignment":              "Layout/BlockAlignment",
	"Lint/Eval":                        "Security/Eval",
	"Lint/HandleExceptions":            "Lint/SuppressedException",
	"Lint/UnneededCopDisableDirective": "Lint/RedundantCopDisableDirective",
	"Lint/UnneededDisable":             "Lint/RedundantCopDisableDirective",
	"Lint/UselessComparison":           "Lint/BinaryOperatorWithIdenticalOperands",
	"Metrics/LineLength":               "Layout/LineLength",
	"Naming/PredicateName":             "Naming/PredicatePrefix",
	"Style/EndOfLine":                  "Layout/EndOfLine",
	"Style/MethodName":                 "Naming/MethodName",
	"Style/Tab":                        "Layout/IndentationStyle",
	"Style/TrailingBlankLines":         "Layout/TrailingEmptyLines",
	"Style/TrailingWhitespace":         "Layout/TrailingWhitespace",
	"Style/UnneededInterpolation":      "Style/RedundantInterpolation",
}

// RenamedCop returns the current name of an obsolete cop name.
func RenamedCop(name string) (string, bool) {
	newName, ok := renamedCops[name]
	return newName, ok
}
