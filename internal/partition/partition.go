// Package partition splits a page's document subtree into independent
// chunks for parallel classification.
package partition

import "github.com/HironOficial/wfi/internal/figma"

// DefaultTarget is the chunk budget per page.
const DefaultTarget = 10

// Chunk is one partition of a page tree, tagged with its originating page.
type Chunk struct {
	PageID   string
	PageName string
	Root     *figma.Node
}

// Split partitions the tree rooted at root into at most target chunks.
// Only the first level of children is split, into contiguous groups of
// ceil(len(children)/target); each chunk is a shallow clone of root with
// its slice of children attached. Pages with few top-level children yield
// fewer, larger chunks; the load imbalance is accepted.
//
// The union of the chunks' child subtrees equals the full set of root's
// descendants, with no duplication. The root itself is carried by every
// clone but keeps its id only on the first, so a root that happens to
// classify is emitted exactly once; in practice page roots are CANVAS
// nodes and never classify anyway.
func Split(root *figma.Node, target int) []*figma.Node {
	if root == nil {
		return nil
	}
	if target <= 0 {
		target = DefaultTarget
	}
	n := len(root.Children)
	if n == 0 {
		clone := *root
		return []*figma.Node{&clone}
	}

	size := (n + target - 1) / target
	chunks := make([]*figma.Node, 0, (n+size-1)/size)
	for i := 0; i < n; i += size {
		end := min(i+size, n)
		clone := *root
		clone.Children = root.Children[i:end]
		if i > 0 {
			// Only the first chunk carries the root's own identity, so a
			// root that happens to classify is emitted exactly once.
			clone.ID = ""
		}
		chunks = append(chunks, &clone)
	}
	return chunks
}

// Page partitions one page document into tagged chunks.
func Page(pageID, pageName string, doc *figma.Node, target int) []Chunk {
	roots := Split(doc, target)
	chunks := make([]Chunk, 0, len(roots))
	for _, r := range roots {
		chunks = append(chunks, Chunk{PageID: pageID, PageName: pageName, Root: r})
	}
	return chunks
}
