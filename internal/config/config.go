// Package config loads ignore-pattern files and application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/folderforge/folderforge/internal/utils"
)

// commentPrefix starts a comment line in an ignore-pattern file.
const commentPrefix = "#"

// LoadIgnoreFilePatterns reads a pattern file and returns its glob patterns,
// one per line. Blank lines and lines starting with # are skipped. A missing
// file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// CombineIgnorePatterns merges patterns from an optional pattern file, the
// configuration file, and command line flags, in that order, removing
// duplicates while preserving first occurrence.
func CombineIgnorePatterns(ignoreFilePath string, configuredPatterns []string, flagPatterns []string) ([]string, error) {
	var combinedPatterns []string

	if ignoreFilePath != "" {
		filePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf("loading ignore patterns from %s: %w", ignoreFilePath, loadError)
		}
		combinedPatterns = append(combinedPatterns, filePatterns...)
	}

	combinedPatterns = append(combinedPatterns, configuredPatterns...)

	for _, pattern := range flagPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		combinedPatterns = append(combinedPatterns, trimmedPattern)
	}

	return utils.DeduplicatePatterns(combinedPatterns), nil
}
