package web2pdf

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// BuildMergePlan orders the documents of a merge: successful conversion
// outputs in input order, then the PDFs already in workDir, sorted by
// name. Local files that are also conversion outputs, and mergedName
// itself, are left out so every path appears once and re-running a merge
// does not fold the previous result into the next one.
//
// A directory scan error is returned alongside the plan of converted
// outputs; callers may log it and merge what they have.
func BuildMergePlan(results []ConversionResult, workDir, mergedName string) (MergePlan, error) {
	local, err := ScanLocalPDFs(workDir, mergedName)
	return planMerge(results, local), err
}

// ScanLocalPDFs lists the .pdf files of dir (any case), sorted by name,
// as paths joined with dir. The file named exclude is skipped, compared
// case-insensitively so "Merged.PDF" is not folded into "merged.pdf".
func ScanLocalPDFs(dir, exclude string) ([]string, error) {
	names, err := fileutil.ListPDFs(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		if exclude != "" && strings.EqualFold(name, exclude) {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// planMerge is the pure part of BuildMergePlan.
func planMerge(results []ConversionResult, local []string) MergePlan {
	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, func(a, b ConversionResult) int {
		return a.Index - b.Index
	})

	var plan MergePlan
	seen := make(map[string]bool, len(ordered)+len(local))

	// Title collisions can give two results the same path; the later
	// write won on disk, so the file is planned once.
	for _, r := range ordered {
		if !r.Succeeded() || r.OutputPath == "" {
			continue
		}
		key := pathKey(r.OutputPath)
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.Entries = append(plan.Entries, PlanEntry{Path: r.OutputPath, Source: SourceConverted})
	}

	for _, p := range local {
		key := pathKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		plan.Entries = append(plan.Entries, PlanEntry{Path: p, Source: SourceLocal})
	}

	return plan
}

// pathKey normalizes a path for identity checks.
func pathKey(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
