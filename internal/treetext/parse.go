package treetext

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/folderforge/folderforge/internal/types"
)

const (
	reasonDepthJump       = "entry depth skips a level, no parent exists at that depth"
	reasonFileParent      = "parent entry is a file, only directories can contain entries"
	reasonRootAfterFirst  = "unindented entry without a connector is only valid on the first line"
	reasonIndentedNoName  = "entry has no name"
	maximumSpecLineLength = 1024 * 1024
)

// connectorMarkers lists the branch glyph sequences the parser recognizes, the
// exporter's narrow form first. The wide forms cover tree(1) output.
var connectorMarkers = []string{"├── ", "└── ", "├─ ", "└─ ", "|-- ", "`-- "}

// Parse reads a structure text line by line and returns the flat entry
// sequence it describes. Parsing validates the whole text before anything is
// created: a depth jump with no valid parent or an entry nested under a file
// yields a *types.MalformedSpecError and no entries.
func Parse(specText string) ([]types.Entry, error) {
	var entries []types.Entry
	previousDepth := -1
	previousType := types.NodeTypeDirectory

	lineScanner := bufio.NewScanner(strings.NewReader(specText))
	lineScanner.Buffer(make([]byte, 0, 4096), maximumSpecLineLength)
	lineNumber := 0
	for lineScanner.Scan() {
		lineNumber++
		rawLine := strings.TrimRight(lineScanner.Text(), "\r")
		if strings.TrimSpace(rawLine) == "" {
			continue
		}
		if isTreeSummaryLine(rawLine) {
			continue
		}

		entry, parseError := parseLine(rawLine, lineNumber)
		if parseError != nil {
			return nil, parseError
		}

		if entry.IsRootEntry {
			if len(entries) > 0 {
				return nil, &types.MalformedSpecError{LineNumber: lineNumber, Line: rawLine, Reason: reasonRootAfterFirst}
			}
			entries = append(entries, entry)
			continue
		}

		if entry.Depth > previousDepth+1 {
			return nil, &types.MalformedSpecError{LineNumber: lineNumber, Line: rawLine, Reason: reasonDepthJump}
		}
		if entry.Depth == previousDepth+1 && previousType != types.NodeTypeDirectory {
			return nil, &types.MalformedSpecError{LineNumber: lineNumber, Line: rawLine, Reason: reasonFileParent}
		}
		previousDepth = entry.Depth
		previousType = entry.Type
		entries = append(entries, entry)
	}
	if scanError := lineScanner.Err(); scanError != nil {
		return nil, scanError
	}
	return entries, nil
}

// parseLine splits a single line into prefix, connector, and name. Lines
// without a connector are root header lines and are only legal unindented.
func parseLine(rawLine string, lineNumber int) (types.Entry, error) {
	connectorIndex, connectorMarker := findConnector(rawLine)
	if connectorIndex < 0 {
		trimmedLine := strings.TrimSpace(rawLine)
		entryName, entryType := splitNameAndType(trimmedLine)
		if entryName == "" {
			return types.Entry{}, &types.MalformedSpecError{LineNumber: lineNumber, Line: rawLine, Reason: reasonIndentedNoName}
		}
		return types.Entry{
			Name:        entryName,
			Type:        entryType,
			Depth:       0,
			LineNumber:  lineNumber,
			IsRootEntry: true,
		}, nil
	}

	entryName, entryType := splitNameAndType(strings.TrimSpace(rawLine[connectorIndex+len(connectorMarker):]))
	if entryName == "" {
		return types.Entry{}, &types.MalformedSpecError{LineNumber: lineNumber, Line: rawLine, Reason: reasonIndentedNoName}
	}
	return types.Entry{
		Name:       entryName,
		Type:       entryType,
		Depth:      prefixDepth(rawLine[:connectorIndex], len([]rune(connectorMarker))),
		LineNumber: lineNumber,
	}, nil
}

// findConnector locates the earliest connector marker in the line.
func findConnector(line string) (int, string) {
	earliestIndex := -1
	earliestMarker := ""
	for _, marker := range connectorMarkers {
		markerIndex := strings.Index(line, marker)
		if markerIndex >= 0 && (earliestIndex < 0 || markerIndex < earliestIndex) {
			earliestIndex = markerIndex
			earliestMarker = marker
		}
	}
	return earliestIndex, earliestMarker
}

// splitNameAndType strips the directory suffix and reports the entry kind.
func splitNameAndType(entryText string) (string, string) {
	if strings.HasSuffix(entryText, DirectorySuffix) {
		return strings.TrimSuffix(entryText, DirectorySuffix), types.NodeTypeDirectory
	}
	return entryText, types.NodeTypeFile
}

// prefixDepth counts depth units in the text before the connector. A vertical
// guide glyph plus its trailing spaces is one unit; a bare space run counts one
// unit per indent width. The width of a unit matches the connector found on the
// line: three columns for the exporter's narrow glyphs, four for tree(1) style
// output.
func prefixDepth(linePrefix string, indentWidth int) int {
	depth := 0
	remaining := []rune(linePrefix)
	for len(remaining) > 0 {
		if remaining[0] == '│' || remaining[0] == '|' {
			depth++
			remaining = remaining[1:]
			// The guide glyph owns its unit's spacing; the rest of the run
			// belongs to subsequent blank units.
			runLength := spaceRunLength(remaining)
			if runLength > indentWidth-1 {
				runLength = indentWidth - 1
			}
			remaining = remaining[runLength:]
			continue
		}
		if remaining[0] == ' ' {
			runLength := spaceRunLength(remaining)
			depth += runLength / indentWidth
			remaining = remaining[runLength:]
			continue
		}
		remaining = remaining[1:]
	}
	return depth
}

// spaceRunLength counts the leading spaces of the rune slice.
func spaceRunLength(runes []rune) int {
	runLength := 0
	for runLength < len(runes) && runes[runLength] == ' ' {
		runLength++
	}
	return runLength
}

// treeSummaryPattern matches the count trailer tree(1) appends after its
// entries, such as "3 directories, 2 files".
var treeSummaryPattern = regexp.MustCompile(`^\d+ director(?:y|ies), \d+ files?$`)

// isTreeSummaryLine reports whether the line is a tree(1) count trailer. A
// line carrying a connector is always an entry, whatever its name says.
func isTreeSummaryLine(line string) bool {
	if connectorIndex, _ := findConnector(line); connectorIndex >= 0 {
		return false
	}
	return treeSummaryPattern.MatchString(strings.TrimSpace(line))
}
