// Package analysis aggregates a run's offenses into per-cop and per-file
// views for the summary and SARIF formats.
package analysis

import (
	"cmp"
	"slices"
	"strings"

	"github.com/yaklabco/turbocop/pkg/config"
	"github.com/yaklabco/turbocop/pkg/runner"
)

// analysisContext holds temporary state during analysis.
type analysisContext struct {
	copMap    map[string]*CopAnalysis
	fileMap   map[string]*FileAnalysis
	copFiles  map[string]map[string]bool
	fileCops  map[string]map[string]bool
	fileOrder []string
}

func newAnalysisContext() *analysisContext {
	return &analysisContext{
		copMap:   make(map[string]*CopAnalysis),
		fileMap:  make(map[string]*FileAnalysis),
		copFiles: make(map[string]map[string]bool),
		fileCops: make(map[string]map[string]bool),
	}
}

func (ctx *analysisContext) file(path string) *FileAnalysis {
	if fa, ok := ctx.fileMap[path]; ok {
		return fa
	}
	fa := &FileAnalysis{Path: path}
	ctx.fileMap[path] = fa
	ctx.fileCops[path] = make(map[string]bool)
	ctx.fileOrder = append(ctx.fileOrder, path)
	return fa
}

func (ctx *analysisContext) cop(name string) *CopAnalysis {
	if ca, ok := ctx.copMap[name]; ok {
		return ca
	}
	department, _, _ := strings.Cut(name, "/")
	ca := &CopAnalysis{CopName: name, Department: department}
	ctx.copMap[name] = ca
	ctx.copFiles[name] = make(map[string]bool)
	return ca
}

// Analyze transforms a runner.Result into a Report in a single pass over
// its offenses.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Totals: Totals{BySeverity: make(map[config.Severity]int)}}
	if result == nil {
		return report
	}

	report.Totals.Files = len(result.Files)
	ctx := newAnalysisContext()

	for _, offense := range result.Offenses {
		report.Totals.Offenses++
		report.Totals.BySeverity[offense.Severity]++
		if offense.Corrected {
			report.Totals.Corrected++
		}

		fa := ctx.file(offense.Path)
		fa.Offenses++
		fa.MaxSeverity = max(fa.MaxSeverity, offense.Severity)
		ctx.fileCops[offense.Path][offense.CopName] = true

		ca := ctx.cop(offense.CopName)
		ca.Offenses++
		ca.MaxSeverity = max(ca.MaxSeverity, offense.Severity)
		ctx.copFiles[offense.CopName][offense.Path] = true
	}
	report.Totals.FilesWithOffenses = len(ctx.fileMap)

	if opts.IncludeOffenses {
		report.Offenses = result.Offenses
	}

	if opts.IncludeByCop {
		report.ByCop = ctx.buildByCop(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = ctx.buildByFile(opts)
	}
	return report
}

func (ctx *analysisContext) buildByCop(opts Options) []CopAnalysis {
	out := make([]CopAnalysis, 0, len(ctx.copMap))
	for name, ca := range ctx.copMap {
		ca.Files = sortedKeys(ctx.copFiles[name])
		out = append(out, *ca)
	}
	slices.SortFunc(out, func(left, right CopAnalysis) int {
		return compareEntries(opts, left.CopName, right.CopName, left.Offenses, right.Offenses, left.MaxSeverity, right.MaxSeverity)
	})
	return out
}

func (ctx *analysisContext) buildByFile(opts Options) []FileAnalysis {
	out := make([]FileAnalysis, 0, len(ctx.fileOrder))
	for _, path := range ctx.fileOrder {
		fa := ctx.fileMap[path]
		fa.Cops = sortedKeys(ctx.fileCops[path])
		out = append(out, *fa)
	}
	slices.SortFunc(out, func(left, right FileAnalysis) int {
		return compareEntries(opts, left.Path, right.Path, left.Offenses, right.Offenses, left.MaxSeverity, right.MaxSeverity)
	})
	return out
}

// compareEntries orders two rows by the requested field and breaks ties by
// name so the output is stable.
func compareEntries(opts Options, leftName, rightName string, leftCount, rightCount int, leftSev, rightSev config.Severity) int {
	var result int
	switch opts.SortBy {
	case SortByAlpha:
	case SortBySeverity:
		result = cmp.Compare(rightSev, leftSev)
		if result == 0 {
			result = cmp.Compare(rightCount, leftCount)
		}
	default:
		result = cmp.Compare(leftCount, rightCount)
		if opts.SortDesc {
			result = -result
		}
	}
	if result == 0 {
		result = cmp.Compare(leftName, rightName)
	}
	return result
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
