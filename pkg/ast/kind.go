package ast

// Kind is the byte tag identifying a node kind. Tag values are stable
// within a build and index the registry's dispatch table.
type Kind uint8

// Node kinds. The set mirrors the prism node vocabulary that cops are
// written against.
const (
	KindUnknown Kind = iota
	KindError

	// Structure.
	KindProgram
	KindStatements
	KindParentheses
	KindBegin
	KindRescue
	KindRescueModifier
	KindEnsure
	KindElse
	KindEmbeddedStatements

	// Definitions.
	KindClass
	KindSingletonClass
	KindModule
	KindDef
	KindParameters
	KindRequiredParameter
	KindOptionalParameter
	KindRestParameter
	KindKeywordParameter
	KindKeywordRestParameter
	KindBlockParameter
	KindBlockParameters
	KindAlias
	KindUndef

	// Calls.
	KindCall
	KindArguments
	KindBlock
	KindLambda
	KindBlockArgument
	KindSplat
	KindSuper
	KindForwardingSuper
	KindYield
	KindDefined

	// Control flow.
	KindIf
	KindUnless
	KindWhile
	KindUntil
	KindFor
	KindCase
	KindCaseMatch
	KindWhen
	KindIn
	KindAnd
	KindOr
	KindNot
	KindReturn
	KindBreak
	KindNext
	KindRedo
	KindRetry

	// Constants.
	KindConstantRead
	KindConstantPath
	KindConstantWrite

	// Variables.
	KindLocalVariableRead
	KindLocalVariableWrite
	KindInstanceVariableRead
	KindInstanceVariableWrite
	KindClassVariableRead
	KindClassVariableWrite
	KindGlobalVariableRead
	KindGlobalVariableWrite
	KindMultiWrite
	KindOperatorWrite
	KindIndexWrite

	// Literals.
	KindString
	KindInterpolatedString
	KindXString
	KindSymbol
	KindInterpolatedSymbol
	KindRegularExpression
	KindInteger
	KindFloat
	KindRational
	KindImaginary
	KindTrue
	KindFalse
	KindNil
	KindSelf
	KindRange
	KindArray
	KindHash
	KindKeywordHash
	KindAssoc
	KindAssocSplat

	// kindCount must stay last.
	kindCount
)

// KindCount is the number of defined kinds.
const KindCount = int(kindCount)

var kindNames = [...]string{
	KindUnknown:               "unknown",
	KindError:                 "error",
	KindProgram:               "program",
	KindStatements:            "statements",
	KindParentheses:           "parentheses",
	KindBegin:                 "begin",
	KindRescue:                "rescue",
	KindRescueModifier:        "rescue_modifier",
	KindEnsure:                "ensure",
	KindElse:                  "else",
	KindEmbeddedStatements:    "embedded_statements",
	KindClass:                 "class",
	KindSingletonClass:        "singleton_class",
	KindModule:                "module",
	KindDef:                   "def",
	KindParameters:            "parameters",
	KindRequiredParameter:     "required_parameter",
	KindOptionalParameter:     "optional_parameter",
	KindRestParameter:         "rest_parameter",
	KindKeywordParameter:      "keyword_parameter",
	KindKeywordRestParameter:  "keyword_rest_parameter",
	KindBlockParameter:        "block_parameter",
	KindBlockParameters:       "block_parameters",
	KindAlias:                 "alias",
	KindUndef:                 "undef",
	KindCall:                  "call",
	KindArguments:             "arguments",
	KindBlock:                 "block",
	KindLambda:                "lambda",
	KindBlockArgument:         "block_argument",
	KindSplat:                 "splat",
	KindSuper:                 "super",
	KindForwardingSuper:       "forwarding_super",
	KindYield:                 "yield",
	KindDefined:               "defined",
	KindIf:                    "if",
	KindUnless:                "unless",
	KindWhile:                 "while",
	KindUntil:                 "until",
	KindFor:                   "for",
	KindCase:                  "case",
	KindCaseMatch:             "case_match",
	KindWhen:                  "when",
	KindIn:                    "in",
	KindAnd:                   "and",
	KindOr:                    "or",
	KindNot:                   "not",
	KindReturn:                "return",
	KindBreak:                 "break",
	KindNext:                  "next",
	KindRedo:                  "redo",
	KindRetry:                 "retry",
	KindConstantRead:          "constant_read",
	KindConstantPath:          "constant_path",
	KindConstantWrite:         "constant_write",
	KindLocalVariableRead:     "local_variable_read",
	KindLocalVariableWrite:    "local_variable_write",
	KindInstanceVariableRead:  "instance_variable_read",
	KindInstanceVariableWrite: "instance_variable_write",
	KindClassVariableRead:     "class_variable_read",
	KindClassVariableWrite:    "class_variable_write",
	KindGlobalVariableRead:    "global_variable_read",
	KindGlobalVariableWrite:   "global_variable_write",
	KindMultiWrite:            "multi_write",
	KindOperatorWrite:         "operator_write",
	KindIndexWrite:            "index_write",
	KindString:                "string",
	KindInterpolatedString:    "interpolated_string",
	KindXString:               "x_string",
	KindSymbol:                "symbol",
	KindInterpolatedSymbol:    "interpolated_symbol",
	KindRegularExpression:     "regular_expression",
	KindInteger:               "integer",
	KindFloat:                 "float",
	KindRational:              "rational",
	KindImaginary:             "imaginary",
	KindTrue:                  "true",
	KindFalse:                 "false",
	KindNil:                   "nil",
	KindSelf:                  "self",
	KindRange:                 "range",
	KindArray:                 "array",
	KindHash:                  "hash",
	KindKeywordHash:           "keyword_hash",
	KindAssoc:                 "assoc",
	KindAssocSplat:            "assoc_splat",
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// KindSet is a compact membership set over kinds.
type KindSet [4]uint64

// NewKindSet builds a set containing kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var set KindSet
	for _, k := range kinds {
		set[k>>6] |= 1 << (k & 63)
	}
	return set
}

// Add inserts k into the set.
func (s *KindSet) Add(k Kind) {
	s[k>>6] |= 1 << (k & 63)
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	return s[k>>6]&(1<<(k&63)) != 0
}

// IsLiteral reports whether k is a literal value kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case KindString, KindInterpolatedString, KindXString, KindSymbol,
		KindInterpolatedSymbol, KindRegularExpression, KindInteger, KindFloat,
		KindRational, KindImaginary, KindTrue, KindFalse, KindNil, KindRange,
		KindArray, KindHash:
		return true
	default:
		return false
	}
}

// IsVariableWrite reports whether k assigns a variable or constant.
func (k Kind) IsVariableWrite() bool {
	switch k {
	case KindLocalVariableWrite, KindInstanceVariableWrite, KindClassVariableWrite,
		KindGlobalVariableWrite, KindConstantWrite:
		return true
	default:
		return false
	}
}
