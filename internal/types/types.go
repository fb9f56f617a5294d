// Package types defines every cross‑package data structure used by the folderforge CLI.
package types

import "fmt"

const (
	NodeTypeFile      = "file"
	NodeTypeDirectory = "directory"

	// ConflictPolicyFail aborts create on a conflicting pre-existing target.
	ConflictPolicyFail = "fail"
	// ConflictPolicySkip warns about a conflicting pre-existing target and continues.
	ConflictPolicySkip = "skip"
)

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// TreeNode represents one entry of an exported directory tree. Children are
// ordered the way the exporter emits them.
type TreeNode struct {
	Path     string
	Name     string
	Type     string
	Children []*TreeNode
}

// IsDirectory reports whether the node describes a directory.
func (node *TreeNode) IsDirectory() bool {
	return node.Type == NodeTypeDirectory
}

// Entry is one parsed line of a structure file: a name, a kind, and a nesting
// depth relative to the target root. Parent/child relationships are implicit in
// depth plus ordering; the builder resolves them with an ancestor stack.
type Entry struct {
	Name        string
	Type        string
	Depth       int
	LineNumber  int
	IsRootEntry bool
}

// AccessError reports a subtree that could not be read during export. The
// exporter recovers from it locally: the subtree is skipped and traversal
// continues with the remaining siblings.
type AccessError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (accessError *AccessError) Error() string {
	return fmt.Sprintf("reading %s: %v", accessError.Path, accessError.Err)
}

// Unwrap exposes the underlying cause.
func (accessError *AccessError) Unwrap() error {
	return accessError.Err
}

// MalformedSpecError reports a structure file line that cannot be applied,
// such as a depth jump with no valid parent. It is fatal: create aborts before
// mutating the filesystem.
type MalformedSpecError struct {
	LineNumber int
	Line       string
	Reason     string
}

// Error implements the error interface.
func (specError *MalformedSpecError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", specError.LineNumber, specError.Reason, specError.Line)
}

// TargetExistsError reports a pre-existing filesystem entry whose kind
// conflicts with the kind a structure file calls for at the same path.
type TargetExistsError struct {
	Path         string
	ExistingType string
	ExpectedType string
}

// Error implements the error interface.
func (existsError *TargetExistsError) Error() string {
	return fmt.Sprintf("target %s already exists as %s, expected %s", existsError.Path, existsError.ExistingType, existsError.ExpectedType)
}
