// Package naming derives default CSV names from query text for single-query
// runs, where no spreadsheet row supplies one.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var tablePattern = regexp.MustCompile(`(?i)(?:FROM|JOIN)\s+([a-zA-Z0-9_."]+)`)

// Derive infers an output name from the identifiers following FROM/JOIN:
// quoting and schema qualification stripped, lowercased, deduplicated,
// sorted, joined with underscores. Pure — the same query always yields the
// same name. Returns "result" when the query names no tables.
func Derive(query string) string {
	matches := tablePattern.FindAllStringSubmatch(query, -1)
	seen := make(map[string]struct{})
	for _, m := range matches {
		t := strings.ToLower(strings.ReplaceAll(m[1], `"`, ""))
		if i := strings.LastIndex(t, "."); i >= 0 {
			t = t[i+1:]
		}
		if t != "" {
			seen[t] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return "result"
	}
	tables := make([]string, 0, len(seen))
	for t := range seen {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return strings.Join(tables, "_")
}

// EnsureUnique appends _1, _2, ... until <name>.csv does not exist in dir,
// so a repeated single-query run never clobbers an earlier export.
func EnsureUnique(name, dir string) string {
	candidate := name
	for i := 1; exists(filepath.Join(dir, candidate+".csv")); i++ {
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
	return candidate
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
