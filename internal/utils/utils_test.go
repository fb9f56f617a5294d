package utils_test

import (
	"reflect"
	"testing"

	"github.com/folderforge/folderforge/internal/utils"
)

// TestDeduplicatePatterns verifies that DeduplicatePatterns removes duplicate patterns.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		input    []string
		expected []string
	}{
		{testName: "NoDuplicates", input: []string{"*.tmp", "node_modules/"}, expected: []string{"*.tmp", "node_modules/"}},
		{testName: "PreservesFirstOccurrence", input: []string{"*.tmp", "*.log", "*.tmp"}, expected: []string{"*.tmp", "*.log"}},
		{testName: "Empty", input: nil, expected: []string{}},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subtestInstance *testing.T) {
			actual := utils.DeduplicatePatterns(testCase.input)
			if !reflect.DeepEqual(actual, testCase.expected) {
				subtestInstance.Errorf("unexpected result: got %v want %v", actual, testCase.expected)
			}
		})
	}
}

// TestContainsString verifies membership checks.
func TestContainsString(testingInstance *testing.T) {
	if !utils.ContainsString([]string{"a", "b"}, "b") {
		testingInstance.Error("expected b to be found")
	}
	if utils.ContainsString([]string{"a", "b"}, "c") {
		testingInstance.Error("did not expect c to be found")
	}
}

// TestShouldIgnoreEntry verifies glob matching against basenames.
func TestShouldIgnoreEntry(testingInstance *testing.T) {
	testCases := []struct {
		testName    string
		entryName   string
		isDirectory bool
		patterns    []string
		expected    bool
	}{
		{testName: "FileMatchesGlob", entryName: "scratch.tmp", isDirectory: false, patterns: []string{"*.tmp"}, expected: true},
		{testName: "DirectoryMatchesGlob", entryName: "cache.tmp", isDirectory: true, patterns: []string{"*.tmp"}, expected: true},
		{testName: "NoMatch", entryName: "keep.txt", isDirectory: false, patterns: []string{"*.tmp"}, expected: false},
		{testName: "DirectoryOnlyPatternMatchesDirectory", entryName: "build", isDirectory: true, patterns: []string{"build/"}, expected: true},
		{testName: "DirectoryOnlyPatternSparesFile", entryName: "build", isDirectory: false, patterns: []string{"build/"}, expected: false},
		{testName: "ExactName", entryName: "node_modules", isDirectory: true, patterns: []string{"node_modules"}, expected: true},
		{testName: "NoPatterns", entryName: "anything", isDirectory: false, patterns: nil, expected: false},
		{testName: "InvalidPatternIgnored", entryName: "keep.txt", isDirectory: false, patterns: []string{"["}, expected: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subtestInstance *testing.T) {
			actual := utils.ShouldIgnoreEntry(testCase.entryName, testCase.isDirectory, testCase.patterns)
			if actual != testCase.expected {
				subtestInstance.Errorf("unexpected result: got %v want %v", actual, testCase.expected)
			}
		})
	}
}
