package domain

import (
	"path"
	"sort"
	"strings"
)

// NodeType distinguishes file and directory nodes.
type NodeType string

// Node types.
const (
	NodeFile      NodeType = "file"
	NodeDirectory NodeType = "directory"
)

// FileContent holds a file node's extracted content once processed.
type FileContent struct {
	// Metadata is the parsed frontmatter of the file.
	Metadata map[string]string `json:"metadata"`

	// RawText is the document body after the frontmatter block.
	RawText string `json:"rawText"`

	// Issues are content-quality findings for the audit report.
	Issues []ContentIssue `json:"issues"`
}

// FileNode is one node in a content tree. Exactly one of Children
// (directories) or Content (processed files) is populated; Path uniquely
// identifies the node within its tree.
type FileNode struct {
	// Type is file or directory.
	Type NodeType `json:"type"`

	// Name is the display name. File names have their extension removed.
	Name string `json:"name"`

	// Path is the slash-separated path relative to the content root.
	Path string `json:"path"`

	// Children holds child nodes for directories.
	Children []*FileNode `json:"children,omitempty"`

	// Content holds extracted content for processed files.
	Content *FileContent `json:"content,omitempty"`
}

// BuildTree converts a flat list of relative file paths into a node tree.
// Paths are sorted lexicographically before insertion so parent directories
// are always created before their children, and directory nodes are
// deduplicated by their joined relative path.
func BuildTree(paths []string) []*FileNode {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)

	var roots []*FileNode
	nodes := make(map[string]*FileNode)

	for _, file := range sorted {
		parts := strings.Split(file, "/")
		current := ""

		for i, part := range parts {
			isFile := i == len(parts)-1
			full := path.Join(current, part)

			if _, ok := nodes[full]; !ok {
				name := part
				if isFile {
					name = strings.TrimSuffix(part, path.Ext(part))
				}

				node := &FileNode{
					Name: name,
					Path: full,
				}
				if isFile {
					node.Type = NodeFile
				} else {
					node.Type = NodeDirectory
					node.Children = []*FileNode{}
				}
				nodes[full] = node

				if current == "" {
					roots = append(roots, node)
				} else {
					parent := nodes[current]
					parent.Children = append(parent.Children, node)
				}
			}

			current = full
		}
	}

	return roots
}

// Walk visits every node in depth-first order, parents before children.
func Walk(roots []*FileNode, fn func(*FileNode)) {
	for _, node := range roots {
		fn(node)
		if len(node.Children) > 0 {
			Walk(node.Children, fn)
		}
	}
}

// Files returns the file nodes of a tree in traversal order.
func Files(roots []*FileNode) []*FileNode {
	var files []*FileNode
	Walk(roots, func(n *FileNode) {
		if n.Type == NodeFile {
			files = append(files, n)
		}
	})
	return files
}
