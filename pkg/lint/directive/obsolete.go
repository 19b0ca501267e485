package directive

import "github.com/yaklabco/turbocop/pkg/config"

// removedCops lists cop names that no longer exist and have no successor.
//
//nolint:gochecknoglobals // Static lookup table.
var removedCops = map[string]string{
	"Lint/InvalidCharacterLiteral": "has been removed since it was never being actually triggered",
	"Style/MethodMissing":          "has been split into Style/MissingRespondToMissing and Lint/MissingSuper",
}

// Obsoletion returns the explanation for an outdated cop name, such as
// "Metrics/LineLength has been renamed to Layout/LineLength".
func Obsoletion(name string) (string, bool) {
	if newName, ok := config.RenamedCop(name); ok {
		return name + " has been renamed to " + newName, true
	}
	if reason, ok := removedCops[name]; ok {
		return name + " " + reason, true
	}
	return "", false
}
