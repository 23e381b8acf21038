// Package resolver implements component C2 (spec section 4.2): import
// resolution, scope construction, C3 linearisation of contract inheritance,
// using-for binding sets, and overload-set construction.
package resolver

import (
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ImportMap is a prefix-longest rewrite table, e.g. {"@openzeppelin/" ->
// "/vendor/openzeppelin/"}, consulted for every specifier that does not
// start with "./" or "../", before falling back to SearchPaths.
type ImportMap map[string]string

// Resolve turns an import specifier written in fromFile into an absolute
// (or root-relative) path. A "./"/"../" specifier resolves relative to
// fromFile's directory; any other specifier tries the import map's longest
// matching prefix, then joins onto the first search path. Only the first
// search path is used: later ones are never tried.
func Resolve(spec, fromFile string, importMap ImportMap, searchPaths []string) (string, bool) {
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") {
		rel := filepath.Join(filepath.Dir(fromFile), spec)
		return filepath.Clean(rel), true
	}

	if target, ok := longestPrefixMatch(spec, importMap); ok {
		return target, true
	}

	for _, root := range searchPaths {
		candidate := path.Join(root, spec)
		return filepath.Clean(candidate), true // search-path membership is verified by the caller's filesystem read
	}

	return "", false
}

// longestPrefixMatch finds the import-map key with the longest matching
// prefix of spec, rewriting spec's matched prefix to the mapped target.
func longestPrefixMatch(spec string, importMap ImportMap) (string, bool) {
	var bestKey string
	for k := range importMap {
		if strings.HasPrefix(spec, k) && len(k) > len(bestKey) {
			bestKey = k
		}
	}
	if bestKey == "" {
		return "", false
	}
	return filepath.Clean(importMap[bestKey] + strings.TrimPrefix(spec, bestKey)), true
}

// SortedImportMapKeys returns importMap's keys ordered longest-first, for
// diagnostic messages that want to show which prefix rule would fire.
func SortedImportMapKeys(importMap ImportMap) []string {
	keys := make([]string, 0, len(importMap))
	for k := range importMap {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })
	return keys
}
