// Package commands contains the core logic for the export and create commands.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/folderforge/folderforge/internal/treetext"
	"github.com/folderforge/folderforge/internal/types"
	"github.com/folderforge/folderforge/internal/utils"
)

const (
	// warningSkipSubdirFormat is used when a subdirectory cannot be listed.
	warningSkipSubdirFormat = "Warning: skipping subdirectory %s: %v\n"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorReadRootFormat is used when the export root itself cannot be read.
	errorReadRootFormat = "reading export root %s: %w"

	// UnlimitedDepth disables depth limiting during export.
	UnlimitedDepth = -1
)

// TreeExporter walks a directory and serializes its structure using the
// configured filters.
type TreeExporter struct {
	IgnorePatterns []string
	MaxDepth       int
	IncludeRoot    bool
	Logger         *zap.Logger
}

// NewTreeExporter returns an exporter with depth limiting disabled.
func NewTreeExporter() *TreeExporter {
	return &TreeExporter{MaxDepth: UnlimitedDepth, Logger: zap.NewNop()}
}

// ExportTree walks rootDirectoryPath and returns its text representation.
// Subdirectories that cannot be listed are reported to stderr and skipped so
// that a partially readable tree still produces a useful document; only an
// unreadable root is fatal.
func (exporter *TreeExporter) ExportTree(rootDirectoryPath string) (string, error) {
	nodes, exportError := exporter.CollectTree(rootDirectoryPath)
	if exportError != nil {
		return "", exportError
	}
	if exporter.IncludeRoot {
		absoluteRootPath, _ := filepath.Abs(rootDirectoryPath)
		return treetext.RenderWithRoot(filepath.Base(absoluteRootPath), nodes), nil
	}
	return treetext.Render(nodes), nil
}

// CollectTree walks rootDirectoryPath and returns the filtered node tree the
// text format is rendered from. Callers that want a structured rendition of
// the same traversal use this directly.
func (exporter *TreeExporter) CollectTree(rootDirectoryPath string) ([]*types.TreeNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootEntries, readRootError := os.ReadDir(absoluteRootPath)
	if readRootError != nil {
		return nil, fmt.Errorf(errorReadRootFormat, absoluteRootPath, readRootError)
	}
	return exporter.buildTreeNodes(absoluteRootPath, rootEntries, 0), nil
}

// buildTreeNodes converts one directory listing into sibling nodes and
// recurses into subdirectories while the depth limit allows it.
func (exporter *TreeExporter) buildTreeNodes(currentDirectoryPath string, directoryEntries []os.DirEntry, currentDepth int) []*types.TreeNode {
	if exporter.MaxDepth >= 0 && currentDepth >= exporter.MaxDepth {
		return nil
	}
	exporter.Logger.Debug("scanning", zap.String("path", currentDirectoryPath))

	sortedEntries := make([]os.DirEntry, len(directoryEntries))
	copy(sortedEntries, directoryEntries)
	sort.SliceStable(sortedEntries, func(firstIndex, secondIndex int) bool {
		return lessEntryName(sortedEntries[firstIndex].Name(), sortedEntries[secondIndex].Name())
	})

	var nodes []*types.TreeNode
	for _, directoryEntry := range sortedEntries {
		if utils.ShouldIgnoreEntry(directoryEntry.Name(), directoryEntry.IsDir(), exporter.IgnorePatterns) {
			exporter.Logger.Debug("ignored", zap.String("name", directoryEntry.Name()))
			continue
		}

		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		node := &types.TreeNode{
			Path: childPath,
			Name: directoryEntry.Name(),
			Type: types.NodeTypeFile,
		}
		if directoryEntry.IsDir() {
			node.Type = types.NodeTypeDirectory
			childEntries, readDirectoryError := os.ReadDir(childPath)
			if readDirectoryError != nil {
				accessError := &types.AccessError{Path: childPath, Err: readDirectoryError}
				fmt.Fprintf(os.Stderr, warningSkipSubdirFormat, childPath, accessError.Unwrap())
				exporter.Logger.Warn("unreadable subdirectory skipped", zap.String("path", childPath), zap.Error(accessError))
				node.Children = nil
			} else {
				node.Children = exporter.buildTreeNodes(childPath, childEntries, currentDepth+1)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// lessEntryName orders entries case-insensitively by name with a byte-wise
// tiebreak so traversal is stable across runs.
func lessEntryName(firstName, secondName string) bool {
	firstLower := strings.ToLower(firstName)
	secondLower := strings.ToLower(secondName)
	if firstLower != secondLower {
		return firstLower < secondLower
	}
	return firstName < secondName
}
