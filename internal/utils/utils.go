// Package utils contains general helper functions used across the folderforge tool.
package utils

import (
	"path/filepath"
	"strings"
)

// directoryPatternSuffix marks an ignore pattern that applies to directories only.
const directoryPatternSuffix = "/"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// ShouldIgnoreEntry reports whether a directory entry should be excluded from
// export. Patterns are globs matched against the entry's basename; a pattern
// with a trailing slash matches directories only. Ignoring a directory prunes
// its entire subtree because traversal never descends into it.
func ShouldIgnoreEntry(entryName string, isDirectory bool, ignorePatterns []string) bool {
	for _, patternValue := range ignorePatterns {
		if strings.HasSuffix(patternValue, directoryPatternSuffix) {
			if !isDirectory {
				continue
			}
			trimmedPattern := strings.TrimSuffix(patternValue, directoryPatternSuffix)
			if isMatched, matchError := filepath.Match(trimmedPattern, entryName); matchError == nil && isMatched {
				return true
			}
			continue
		}
		if isMatched, matchError := filepath.Match(patternValue, entryName); matchError == nil && isMatched {
			return true
		}
	}
	return false
}
