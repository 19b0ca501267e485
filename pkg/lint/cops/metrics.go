package cops

import (
	"fmt"
	"strings"

	"github.com/yaklabco/turbocop/pkg/ast"
	"github.com/yaklabco/turbocop/pkg/lint"
)

// MethodLength reports methods with too many lines of code.
type MethodLength struct {
	lint.BaseCop
}

// NewMethodLength creates the Metrics/MethodLength cop.
func NewMethodLength() *MethodLength {
	return &MethodLength{
		BaseCop: lint.NewBaseCop("Metrics/MethodLength", "Avoid methods longer than 10 lines of code."),
	}
}

const defaultMaxMethodLength = 10

// InterestedNodeTypes implements lint.NodeChecker.
func (c *MethodLength) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindDef, ast.KindCall}
}

// CheckNode implements lint.NodeChecker.
func (c *MethodLength) CheckNode(ctx *lint.Context, node *ast.Node) {
	name := node.Name
	body := node
	if node.Kind == ast.KindCall {
		// define_method(:name) { ... } counts like a def.
		if node.Name != "define_method" || node.Receiver != nil || node.Block == nil {
			return
		}
		args := node.ArgumentList()
		if len(args) == 0 {
			return
		}
		name = args[0].Name
		body = node.Block
	}

	if allowedMethod(ctx, name) {
		return
	}

	maxLength := ctx.OptionInt("Max", defaultMaxMethodLength)
	length := lint.BodyLineCount(ctx.Source, body, ctx.OptionBool("CountComments", false))
	if length <= maxLength {
		return
	}
	ctx.AddNode(node, fmt.Sprintf("Method has too many lines. [%d/%d]", length, maxLength))
}

// allowedMethod checks the AllowedMethods and AllowedPatterns options.
func allowedMethod(ctx *lint.Context, name string) bool {
	for _, allowed := range ctx.OptionStrings("AllowedMethods") {
		if allowed == name {
			return true
		}
	}
	return matchesAny(compilePatterns(ctx.OptionStrings("AllowedPatterns")), []byte(name))
}

// ParameterLists reports methods and blocks with too many parameters.
type ParameterLists struct {
	lint.BaseCop
}

// NewParameterLists creates the Metrics/ParameterLists cop.
func NewParameterLists() *ParameterLists {
	return &ParameterLists{
		BaseCop: lint.NewBaseCop("Metrics/ParameterLists", "Avoid parameter lists longer than three or four parameters."),
	}
}

const (
	defaultMaxParams         = 5
	defaultMaxOptionalParams = 3
)

// InterestedNodeTypes implements lint.NodeChecker.
func (c *ParameterLists) InterestedNodeTypes() []ast.Kind {
	return []ast.Kind{ast.KindParameters, ast.KindBlockParameters}
}

// CheckNode implements lint.NodeChecker.
func (c *ParameterLists) CheckNode(ctx *lint.Context, node *ast.Node) {
	if owner := node.Parent; owner.Is(ast.KindBlock) && isStructBlock(owner.Parent) {
		return
	}

	countKeywords := ctx.OptionBool("CountKeywordArgs", true)
	count, optional := 0, 0
	for _, p := range node.Children {
		switch p.Kind {
		case ast.KindBlockParameter:
			continue
		case ast.KindKeywordParameter, ast.KindKeywordRestParameter:
			if !countKeywords {
				continue
			}
		case ast.KindOptionalParameter:
			optional++
		}
		count++
	}

	maxParams := ctx.OptionInt("Max", defaultMaxParams)
	if count > maxParams {
		ctx.AddNode(node, fmt.Sprintf("Avoid parameter lists longer than %d parameters. [%d/%d]", maxParams, count, maxParams))
	}

	if node.Kind != ast.KindParameters || !node.Parent.Is(ast.KindDef) {
		return
	}
	maxOptional := ctx.OptionInt("MaxOptionalParameters", defaultMaxOptionalParams)
	if optional > maxOptional {
		ctx.AddNode(node, fmt.Sprintf("Method has too many optional parameters. [%d/%d]", optional, maxOptional))
	}
}

// isStructBlock matches Struct.new and Data.define, whose block
// parameters are member names.
func isStructBlock(call *ast.Node) bool {
	if !call.Is(ast.KindCall) || call.Receiver == nil {
		return false
	}
	switch strings.TrimPrefix(lint.ConstName(call.Receiver), "::") {
	case "Struct":
		return call.Name == "new"
	case "Data":
		return call.Name == "define"
	}
	return false
}
