package commands_test

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/folderforge/folderforge/internal/commands"
	"github.com/folderforge/folderforge/internal/types"
)

// assertDirectory fails unless the path exists and is a directory.
func assertDirectory(testingHandle *testing.T, directoryPath string) {
	testingHandle.Helper()
	pathInfo, statError := os.Stat(directoryPath)
	if statError != nil {
		testingHandle.Fatalf("expected directory %s: %v", directoryPath, statError)
	}
	if !pathInfo.IsDir() {
		testingHandle.Fatalf("expected %s to be a directory", directoryPath)
	}
}

// assertFile fails unless the path exists and is a plain file.
func assertFile(testingHandle *testing.T, filePath string) {
	testingHandle.Helper()
	pathInfo, statError := os.Stat(filePath)
	if statError != nil {
		testingHandle.Fatalf("expected file %s: %v", filePath, statError)
	}
	if pathInfo.IsDir() {
		testingHandle.Fatalf("expected %s to be a file", filePath)
	}
}

// assertAbsent fails if the path exists.
func assertAbsent(testingHandle *testing.T, targetPath string) {
	testingHandle.Helper()
	if _, statError := os.Stat(targetPath); !os.IsNotExist(statError) && !errors.Is(statError, syscall.ENOTDIR) {
		testingHandle.Fatalf("expected %s to be absent, stat returned %v", targetPath, statError)
	}
}

// listDirectoryNames returns the sorted names inside a directory.
func listDirectoryNames(testingHandle *testing.T, directoryPath string) []string {
	testingHandle.Helper()
	directoryEntries, readError := os.ReadDir(directoryPath)
	if readError != nil {
		testingHandle.Fatalf("failed to read %s: %v", directoryPath, readError)
	}
	names := make([]string, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		names = append(names, directoryEntry.Name())
	}
	return names
}

// TestCreateTree verifies directory and file creation from structure text.
func TestCreateTree(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	builder := commands.NewTreeBuilder()
	if createError := builder.CreateTree(sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}
	assertFile(testingInstance, filepath.Join(targetDirectory, "README.md"))
	assertDirectory(testingInstance, filepath.Join(targetDirectory, "src"))
	assertFile(testingInstance, filepath.Join(targetDirectory, "src", "main.py"))
}

// TestCreateTreeIdempotence verifies that a second run changes nothing.
func TestCreateTreeIdempotence(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	builder := commands.NewTreeBuilder()
	if createError := builder.CreateTree(sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("first CreateTree failed: %v", createError)
	}
	markerPath := filepath.Join(targetDirectory, "src", "main.py")
	if writeError := os.WriteFile(markerPath, []byte("content"), 0o644); writeError != nil {
		testingInstance.Fatalf("failed to write marker content: %v", writeError)
	}
	if createError := builder.CreateTree(sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("second CreateTree failed: %v", createError)
	}
	markerContent, readError := os.ReadFile(markerPath)
	if readError != nil {
		testingInstance.Fatalf("failed to read marker file: %v", readError)
	}
	if string(markerContent) != "content" {
		testingInstance.Errorf("existing file was rewritten: %q", markerContent)
	}
}

// TestCreateTreeRootHeader verifies that a root header nests the structure.
func TestCreateTreeRootHeader(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	builder := commands.NewTreeBuilder()
	if createError := builder.CreateTree("project/\n"+sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}
	assertDirectory(testingInstance, filepath.Join(targetDirectory, "project"))
	assertFile(testingInstance, filepath.Join(targetDirectory, "project", "README.md"))
	assertFile(testingInstance, filepath.Join(targetDirectory, "project", "src", "main.py"))
}

// TestCreateTreeStripRoot verifies that the root header can be ignored.
func TestCreateTreeStripRoot(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	builder := commands.NewTreeBuilder()
	builder.StripRoot = true
	if createError := builder.CreateTree("project/\n"+sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}
	assertAbsent(testingInstance, filepath.Join(targetDirectory, "project"))
	assertFile(testingInstance, filepath.Join(targetDirectory, "README.md"))
}

// TestCreateTreeMalformedCreatesNothing verifies the all-or-nothing policy.
func TestCreateTreeMalformedCreatesNothing(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	malformedText := "├─ top/\n" +
		"│     └─ orphan.txt\n"
	builder := commands.NewTreeBuilder()
	createError := builder.CreateTree(malformedText, targetDirectory)
	var specError *types.MalformedSpecError
	if !errors.As(createError, &specError) {
		testingInstance.Fatalf("expected MalformedSpecError, got %v", createError)
	}
	if names := listDirectoryNames(testingInstance, targetDirectory); len(names) != 0 {
		testingInstance.Errorf("expected no entries created, found %v", names)
	}
}

// TestCreateTreeConflictFails verifies the fail policy on kind conflicts.
func TestCreateTreeConflictFails(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	if writeError := os.WriteFile(filepath.Join(targetDirectory, "src"), []byte("occupied"), 0o644); writeError != nil {
		testingInstance.Fatalf("failed to pre-create file: %v", writeError)
	}
	builder := commands.NewTreeBuilder()
	createError := builder.CreateTree(sampleRootText, targetDirectory)
	var existsError *types.TargetExistsError
	if !errors.As(createError, &existsError) {
		testingInstance.Fatalf("expected TargetExistsError, got %v", createError)
	}
	if existsError.ExpectedType != types.NodeTypeDirectory {
		testingInstance.Errorf("unexpected expected type: %s", existsError.ExpectedType)
	}
}

// TestCreateTreeConflictSkip verifies the skip policy leaves the subtree alone.
func TestCreateTreeConflictSkip(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	occupiedPath := filepath.Join(targetDirectory, "src")
	if writeError := os.WriteFile(occupiedPath, []byte("occupied"), 0o644); writeError != nil {
		testingInstance.Fatalf("failed to pre-create file: %v", writeError)
	}
	builder := commands.NewTreeBuilder()
	builder.ConflictPolicy = types.ConflictPolicySkip
	if createError := builder.CreateTree(sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}
	assertFile(testingInstance, filepath.Join(targetDirectory, "README.md"))
	occupiedContent, readError := os.ReadFile(occupiedPath)
	if readError != nil {
		testingInstance.Fatalf("failed to read occupied file: %v", readError)
	}
	if string(occupiedContent) != "occupied" {
		testingInstance.Errorf("conflicting file was rewritten: %q", occupiedContent)
	}
	assertAbsent(testingInstance, filepath.Join(occupiedPath, "main.py"))
}

// TestCreateTreeLeavesUnrelatedEntries verifies pre-existing siblings survive.
func TestCreateTreeLeavesUnrelatedEntries(testingInstance *testing.T) {
	targetDirectory := testingInstance.TempDir()
	unrelatedPath := filepath.Join(targetDirectory, "unrelated.txt")
	if writeError := os.WriteFile(unrelatedPath, []byte("keep"), 0o644); writeError != nil {
		testingInstance.Fatalf("failed to write unrelated file: %v", writeError)
	}
	builder := commands.NewTreeBuilder()
	if createError := builder.CreateTree(sampleRootText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}
	unrelatedContent, readError := os.ReadFile(unrelatedPath)
	if readError != nil {
		testingInstance.Fatalf("failed to read unrelated file: %v", readError)
	}
	if string(unrelatedContent) != "keep" {
		testingInstance.Errorf("unrelated file was modified: %q", unrelatedContent)
	}
}

// TestExportCreateRoundTrip verifies that create(export(T)) reproduces T's structure.
func TestExportCreateRoundTrip(testingInstance *testing.T) {
	sourceDirectory := buildSampleRoot(testingInstance)
	makeTestDirectory(testingInstance, filepath.Join(sourceDirectory, "docs", "api"))
	writeTestFile(testingInstance, filepath.Join(sourceDirectory, "docs", "api", "index.md"))
	makeTestDirectory(testingInstance, filepath.Join(sourceDirectory, "empty"))

	exporter := commands.NewTreeExporter()
	structureText, exportError := exporter.ExportTree(sourceDirectory)
	if exportError != nil {
		testingInstance.Fatalf("ExportTree failed: %v", exportError)
	}

	targetDirectory := testingInstance.TempDir()
	builder := commands.NewTreeBuilder()
	if createError := builder.CreateTree(structureText, targetDirectory); createError != nil {
		testingInstance.Fatalf("CreateTree failed: %v", createError)
	}

	reExportedText, reExportError := exporter.ExportTree(targetDirectory)
	if reExportError != nil {
		testingInstance.Fatalf("re-export failed: %v", reExportError)
	}
	if reExportedText != structureText {
		testingInstance.Errorf("round trip diverged:\n got %q\nwant %q", reExportedText, structureText)
	}
}
