// Package treetext implements the line-oriented text format for directory
// trees: rendering a node tree into connector-glyph lines and parsing such
// lines back into a flat entry sequence.
package treetext

import (
	"strings"

	"github.com/folderforge/folderforge/internal/types"
)

const (
	// ConnectorMiddle introduces an entry that has further siblings below it.
	ConnectorMiddle = "├─ "
	// ConnectorLast introduces the final entry of its directory.
	ConnectorLast = "└─ "
	// PrefixContinued fills one depth level under an ancestor with further siblings.
	PrefixContinued = "│  "
	// PrefixFinished fills one depth level under an ancestor that was the final sibling.
	PrefixFinished = "   "
	// DirectorySuffix marks a directory entry.
	DirectorySuffix = "/"
)

// Render returns the text representation of the given sibling nodes. Every
// line is prefix + connector + name, with a trailing slash on directories;
// nodes at the top level carry no prefix.
func Render(nodes []*types.TreeNode) string {
	var textBuilder strings.Builder
	renderNodes(&textBuilder, nodes, "")
	return textBuilder.String()
}

// RenderWithRoot renders a root header line followed by the root's children.
func RenderWithRoot(rootName string, nodes []*types.TreeNode) string {
	var textBuilder strings.Builder
	textBuilder.WriteString(rootName + DirectorySuffix + "\n")
	renderNodes(&textBuilder, nodes, "")
	return textBuilder.String()
}

// renderNodes writes one line per node and recurses into directories with the
// prefix extended by one depth unit.
func renderNodes(textBuilder *strings.Builder, nodes []*types.TreeNode, linePrefix string) {
	lastIndex := len(nodes) - 1
	for nodeIndex, node := range nodes {
		connector := ConnectorMiddle
		childPrefix := linePrefix + PrefixContinued
		if nodeIndex == lastIndex {
			connector = ConnectorLast
			childPrefix = linePrefix + PrefixFinished
		}
		textBuilder.WriteString(linePrefix + connector + node.Name)
		if node.IsDirectory() {
			textBuilder.WriteString(DirectorySuffix)
		}
		textBuilder.WriteString("\n")
		if node.IsDirectory() {
			renderNodes(textBuilder, node.Children, childPrefix)
		}
	}
}
