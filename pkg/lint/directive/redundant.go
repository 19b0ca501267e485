package directive

import "fmt"

// RedundantCopName is the cop that reports unnecessary disables.
const RedundantCopName = "Lint/RedundantCopDisableDirective"

// Lookup is the subset of the cop registry the redundancy check needs.
type Lookup interface {
	Has(name string) bool
}

// Finding is one unnecessary disable.
type Finding struct {
	// Line and Column locate the cop name inside the directive.
	Line   int
	Column int

	// Cop is the name the directive disables.
	Cop string

	Message string
}

// Redundant reports disable and todo directives that cannot suppress
// anything. ran holds the cops that actually ran on the file.
//
// Only specific cop names are checked: "all" and department names are
// never flagged. Unknown names are left alone since they may belong to a
// plugin or a project-local cop. Renamed or removed names are always
// flagged. When the run was narrowed by --only or --except, nothing is
// reported because cops were filtered outside the configuration.
func Redundant(directives []Directive, ran map[string]bool, registry Lookup, filterActive bool) []Finding {
	if filterActive {
		return nil
	}

	var findings []Finding
	for _, d := range directives {
		if !d.Suppresses() {
			continue
		}
		for _, ref := range d.Cops {
			if ref.Name == AllCops || ref.IsDepartment() || ref.Name == RedundantCopName {
				continue
			}

			if why, obsolete := Obsoletion(ref.Name); obsolete {
				findings = append(findings, newFinding(ref, fmt.Sprintf("Unnecessary disabling of %s (%s).", ref.Name, why)))
				continue
			}
			if !registry.Has(ref.Name) {
				continue
			}
			if !ran[ref.Name] {
				findings = append(findings, newFinding(ref, fmt.Sprintf("Unnecessary disabling of %s.", ref.Name)))
			}
		}
	}
	return findings
}

func newFinding(ref CopRef, message string) Finding {
	return Finding{Line: ref.Line, Column: ref.Column, Cop: ref.Name, Message: message}
}
