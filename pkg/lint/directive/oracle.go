package directive

import (
	"math"
	"strings"

	"github.com/yaklabco/turbocop/pkg/config"
)

// lineRange is an inclusive range of 1-based lines.
type lineRange struct {
	from, to int
}

func inAny(ranges []lineRange, line int) bool {
	for _, r := range ranges {
		if line >= r.from && line <= r.to {
			return true
		}
	}
	return false
}

// Oracle answers whether a cop is suppressed on a line. Keys are cop
// names, department names, and "all".
type Oracle struct {
	regions map[string][]lineRange

	// holes are ranges where a cop or department was re-enabled inside a
	// wider region.
	holes map[string][]lineRange
}

// inDepartment reports whether key names a cop of dept.
func inDepartment(key, dept string) bool {
	return strings.Contains(key, "/") && config.Department(key) == dept
}

// oracleBuilder tracks the regions and holes still open while directives
// are replayed.
type oracleBuilder struct {
	*Oracle

	open     map[string]int
	holeOpen map[string]int
}

func (b *oracleBuilder) closeRegions(line int, match func(string) bool) {
	for k, start := range b.open {
		if match(k) {
			b.regions[k] = append(b.regions[k], lineRange{start, line})
			delete(b.open, k)
		}
	}
}

func (b *oracleBuilder) closeHoles(line int, match func(string) bool) {
	for k, start := range b.holeOpen {
		if match(k) {
			if start <= line {
				b.holes[k] = append(b.holes[k], lineRange{start, line})
			}
			delete(b.holeOpen, k)
		}
	}
}

func (b *oracleBuilder) openHole(key string, line int) {
	if _, ok := b.holeOpen[key]; !ok {
		b.holeOpen[key] = line
	}
}

// covers matches key itself, and every cop of key when key is a
// department.
func covers(key string) func(string) bool {
	return func(k string) bool {
		return k == key || inDepartment(k, key)
	}
}

func everything(string) bool { return true }

func (b *oracleBuilder) disable(key string, line int) {
	if _, isOpen := b.open[key]; !isOpen {
		b.open[key] = line
	}
	if key == AllCops {
		b.closeHoles(line-1, everything)
		return
	}
	b.closeHoles(line-1, covers(key))
}

func (b *oracleBuilder) enable(key string, line int) {
	if key == AllCops {
		b.closeRegions(line, everything)
		b.closeHoles(line, everything)
		return
	}

	b.closeRegions(line, covers(key))
	b.closeHoles(line, func(k string) bool { return inDepartment(k, key) })

	_, allOpen := b.open[AllCops]
	_, deptOpen := b.open[config.Department(key)]
	if allOpen || (strings.Contains(key, "/") && deptOpen) {
		b.openHole(key, line+1)
	}
}

// buildOracle replays directives in source order. Free-standing disables
// open a region that a matching enable (or EOF) closes. An enable of a
// department closes its cops too; an enable of a cop inside a department
// or "all" region opens a hole until the next covering disable. Inline
// directives cover their own line.
func buildOracle(directives []Directive) *Oracle {
	b := &oracleBuilder{
		Oracle: &Oracle{
			regions: make(map[string][]lineRange),
			holes:   make(map[string][]lineRange),
		},
		open:     make(map[string]int),
		holeOpen: make(map[string]int),
	}

	for _, d := range directives {
		if d.Inline {
			if d.Suppresses() {
				for _, ref := range d.Cops {
					b.regions[ref.Name] = append(b.regions[ref.Name], lineRange{d.Line, d.Line})
				}
			}
			continue
		}

		for _, ref := range d.Cops {
			if d.Suppresses() {
				b.disable(ref.Name, d.Line)
			} else {
				b.enable(ref.Name, d.Line)
			}
		}
	}

	b.closeRegions(math.MaxInt, everything)
	b.closeHoles(math.MaxInt, everything)
	return b.Oracle
}

// IsSuppressed reports whether cop is disabled on line.
func (o *Oracle) IsSuppressed(cop string, line int) bool {
	if o == nil {
		return false
	}
	if inAny(o.regions[cop], line) {
		return true
	}
	dept := config.Department(cop)
	copHole := inAny(o.holes[cop], line)
	if inAny(o.regions[dept], line) && !copHole {
		return true
	}
	if !inAny(o.regions[AllCops], line) {
		return false
	}
	return !copHole && !inAny(o.holes[dept], line)
}

// Empty reports whether no region was recorded.
func (o *Oracle) Empty() bool {
	return o == nil || len(o.regions) == 0
}
