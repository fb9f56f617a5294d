package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/folderforge/folderforge/internal/treetext"
	"github.com/folderforge/folderforge/internal/types"
)

const (
	// warningConflictSkippedFormat is used when a conflicting target is skipped.
	warningConflictSkippedFormat = "Warning: skipping %s: %v\n"

	// errorCreateDirectoryFormat is used when a directory cannot be created.
	errorCreateDirectoryFormat = "creating directory %s: %w"
	// errorCreateFileFormat is used when a file cannot be created.
	errorCreateFileFormat = "creating file %s: %w"
	// errorStatTargetFormat is used when a target path cannot be inspected.
	errorStatTargetFormat = "inspecting %s: %w"
	// errorEntryPathFormat attaches the offending line to an apply failure.
	errorEntryPathFormat = "line %d: %w"

	createdDirectoryPermissions = 0o755
	createdFilePermissions      = 0o644

	// skippedAncestorMarker occupies an ancestor stack slot for a directory
	// that was skipped under the skip conflict policy.
	skippedAncestorMarker = ""
)

// TreeBuilder reconstructs a directory hierarchy from a parsed structure text.
type TreeBuilder struct {
	ConflictPolicy string
	StripRoot      bool
	Logger         *zap.Logger
}

// NewTreeBuilder returns a builder that fails on conflicting targets.
func NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{ConflictPolicy: types.ConflictPolicyFail, Logger: zap.NewNop()}
}

// CreateTree parses specText and materializes the described hierarchy under
// targetRootPath. The text is validated in full before the first filesystem
// mutation, so a malformed structure creates nothing. Directories that already
// exist as directories are reused; a pre-existing entry of the wrong kind
// either aborts or is skipped with a warning, per the conflict policy.
func (builder *TreeBuilder) CreateTree(specText string, targetRootPath string) error {
	entries, parseError := treetext.Parse(specText)
	if parseError != nil {
		return parseError
	}
	return builder.ApplyEntries(entries, targetRootPath)
}

// ApplyEntries creates the filesystem entries under targetRootPath using an
// ancestor stack indexed by depth to resolve each entry's parent directory.
func (builder *TreeBuilder) ApplyEntries(entries []types.Entry, targetRootPath string) error {
	absoluteTargetPath, absolutePathError := filepath.Abs(targetRootPath)
	if absolutePathError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, targetRootPath, absolutePathError)
	}
	baseDirectoryPath := absoluteTargetPath
	var ancestorStack []string

	for _, entry := range entries {
		if entry.IsRootEntry {
			if builder.StripRoot {
				builder.Logger.Debug("root entry stripped", zap.String("name", entry.Name))
				continue
			}
			if entry.Type == types.NodeTypeDirectory {
				rootDirectoryPath := filepath.Join(baseDirectoryPath, entry.Name)
				applied, applyError := builder.applyDirectory(rootDirectoryPath)
				if applyError != nil {
					return fmt.Errorf(errorEntryPathFormat, entry.LineNumber, applyError)
				}
				if applied {
					baseDirectoryPath = rootDirectoryPath
				} else {
					baseDirectoryPath = skippedAncestorMarker
				}
				continue
			}
		}

		if entry.Depth < len(ancestorStack) {
			ancestorStack = ancestorStack[:entry.Depth]
		}
		parentDirectoryPath := baseDirectoryPath
		if len(ancestorStack) > 0 {
			parentDirectoryPath = ancestorStack[len(ancestorStack)-1]
		}
		if parentDirectoryPath == skippedAncestorMarker {
			// An ancestor was skipped under the skip policy; the whole
			// subtree stays untouched. Directories still occupy a stack slot
			// so sibling depths keep resolving correctly.
			builder.Logger.Debug("entry under skipped ancestor ignored", zap.String("name", entry.Name))
			if entry.Type == types.NodeTypeDirectory {
				ancestorStack = append(ancestorStack, skippedAncestorMarker)
			}
			continue
		}
		targetPath := filepath.Join(parentDirectoryPath, entry.Name)

		if entry.Type == types.NodeTypeDirectory {
			applied, applyError := builder.applyDirectory(targetPath)
			if applyError != nil {
				return fmt.Errorf(errorEntryPathFormat, entry.LineNumber, applyError)
			}
			if applied {
				ancestorStack = append(ancestorStack, targetPath)
			} else {
				ancestorStack = append(ancestorStack, skippedAncestorMarker)
			}
			continue
		}

		if applyError := builder.applyFile(targetPath); applyError != nil {
			return fmt.Errorf(errorEntryPathFormat, entry.LineNumber, applyError)
		}
	}
	return nil
}

// applyDirectory creates the directory if absent, reuses an existing
// directory, and resolves kind conflicts per the conflict policy. The boolean
// result reports whether the path is usable as a parent afterwards.
func (builder *TreeBuilder) applyDirectory(directoryPath string) (bool, error) {
	targetInfo, statError := os.Lstat(directoryPath)
	if statError == nil {
		if targetInfo.IsDir() {
			builder.Logger.Debug("directory reused", zap.String("path", directoryPath))
			return true, nil
		}
		existsError := &types.TargetExistsError{
			Path:         directoryPath,
			ExistingType: types.NodeTypeFile,
			ExpectedType: types.NodeTypeDirectory,
		}
		return false, builder.handleConflict(existsError)
	}
	if !os.IsNotExist(statError) {
		return false, fmt.Errorf(errorStatTargetFormat, directoryPath, statError)
	}
	if makeDirectoryError := os.Mkdir(directoryPath, createdDirectoryPermissions); makeDirectoryError != nil {
		return false, fmt.Errorf(errorCreateDirectoryFormat, directoryPath, makeDirectoryError)
	}
	builder.Logger.Debug("directory created", zap.String("path", directoryPath))
	return true, nil
}

// applyFile creates an empty file if absent and resolves kind conflicts per
// the conflict policy. Existing plain files are left untouched.
func (builder *TreeBuilder) applyFile(filePath string) error {
	targetInfo, statError := os.Lstat(filePath)
	if statError == nil {
		if targetInfo.IsDir() {
			existsError := &types.TargetExistsError{
				Path:         filePath,
				ExistingType: types.NodeTypeDirectory,
				ExpectedType: types.NodeTypeFile,
			}
			return builder.handleConflict(existsError)
		}
		builder.Logger.Debug("file reused", zap.String("path", filePath))
		return nil
	}
	if !os.IsNotExist(statError) {
		return fmt.Errorf(errorStatTargetFormat, filePath, statError)
	}
	fileHandle, createFileError := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, createdFilePermissions)
	if createFileError != nil {
		return fmt.Errorf(errorCreateFileFormat, filePath, createFileError)
	}
	if closeError := fileHandle.Close(); closeError != nil {
		return fmt.Errorf(errorCreateFileFormat, filePath, closeError)
	}
	builder.Logger.Debug("file created", zap.String("path", filePath))
	return nil
}

// handleConflict applies the configured policy to a kind conflict.
func (builder *TreeBuilder) handleConflict(existsError *types.TargetExistsError) error {
	if builder.ConflictPolicy == types.ConflictPolicySkip {
		fmt.Fprintf(os.Stderr, warningConflictSkippedFormat, existsError.Path, existsError)
		builder.Logger.Warn("conflicting target skipped", zap.String("path", existsError.Path))
		return nil
	}
	return existsError
}
