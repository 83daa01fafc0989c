package entity

import (
	"commentgraft/internal/application/common/slogger"
	"commentgraft/internal/domain/valueobject"
	"context"
	"errors"
	"fmt"
)

// NodeID is a stable arena handle addressing one node of a SyntaxTree. The
// handle stays valid for the lifetime of the tree; caches keyed by NodeID
// are therefore reclaimed together with the tree rather than through weak
// references.
type NodeID int32

// NilNode is the absent-node sentinel.
const NilNode NodeID = -1

// Node is one element of the frozen syntax tree. The comment attachment
// algorithm treats nodes as atomic: it reads only the structural kind tag,
// the offsets and the child list. FullStart is the offset where the node's
// leading trivia begins (the end of the previous token), Start the offset of
// its first significant character and End the exclusive end offset.
type Node struct {
	Kind      valueobject.SyntaxKind
	Type      string // raw grammar type reported by the external parser
	FullStart uint32
	Start     uint32
	End       uint32
	Parent    NodeID
	Children  []NodeID

	// Doc is the documentation comment the external parser attached to this
	// node as a side channel, if any.
	Doc *valueobject.CommentToken
}

// ScanStart returns the offset where comment scanning ahead of this node
// must stop: the start of the attached documentation comment when present,
// otherwise the node's own start.
func (n *Node) ScanStart() uint32 {
	if n.Doc != nil {
		return n.Doc.Pos
	}
	return n.Start
}

// SyntaxTree is an immutable parse tree over one source text. It is built
// once by a TreeBuilder and never mutated afterwards; all comment
// attachment state derived from it lives in side tables keyed by NodeID.
type SyntaxTree struct {
	source string
	nodes  []Node
	root   NodeID
}

// Source returns the raw source text the tree was parsed from.
func (t *SyntaxTree) Source() string {
	return t.source
}

// Root returns the handle of the root node.
func (t *SyntaxTree) Root() NodeID {
	return t.root
}

// NodeCount returns the number of nodes in the arena.
func (t *SyntaxTree) NodeCount() int {
	return len(t.nodes)
}

// Node returns the node addressed by id. The returned pointer aliases the
// arena and must be treated as read-only.
func (t *SyntaxTree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		panic(fmt.Sprintf("commentgraft: node handle %d out of range (arena size %d)", id, len(t.nodes)))
	}
	return &t.nodes[id]
}

// Contains reports whether id addresses a node of this tree.
func (t *SyntaxTree) Contains(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes)
}

// NodeText returns the significant source text of a node.
func (t *SyntaxTree) NodeText(id NodeID) string {
	n := t.Node(id)
	if int(n.End) > len(t.source) || n.Start > n.End {
		return ""
	}
	return t.source[n.Start:n.End]
}

// FirstChildOfKind returns the first child of id with the given kind, or
// NilNode.
func (t *SyntaxTree) FirstChildOfKind(id NodeID, kind valueobject.SyntaxKind) NodeID {
	for _, c := range t.Node(id).Children {
		if t.Node(c).Kind == kind {
			return c
		}
	}
	return NilNode
}

// LastChildOfKind returns the last child of id with the given kind, or
// NilNode.
func (t *SyntaxTree) LastChildOfKind(id NodeID, kind valueobject.SyntaxKind) NodeID {
	children := t.Node(id).Children
	for i := len(children) - 1; i >= 0; i-- {
		if t.Node(children[i]).Kind == kind {
			return children[i]
		}
	}
	return NilNode
}

// TreeBuilder accumulates nodes for a SyntaxTree. Nodes are appended in any
// order; the first node added becomes the root. Build freezes the tree.
type TreeBuilder struct {
	source string
	nodes  []Node
	built  bool
}

// NewTreeBuilder creates a builder for a tree over the given source text.
func NewTreeBuilder(source string) *TreeBuilder {
	return &TreeBuilder{source: source}
}

// AddNode appends a node and links it to its parent. Passing NilNode as
// parent is only valid for the first (root) node.
func (b *TreeBuilder) AddNode(
	parent NodeID,
	kind valueobject.SyntaxKind,
	rawType string,
	fullStart, start, end uint32,
) NodeID {
	if b.built {
		panic("commentgraft: AddNode called after Build")
	}
	id := NodeID(len(b.nodes)) //nolint:gosec // arena size is bounded by source length
	b.nodes = append(b.nodes, Node{
		Kind:      kind,
		Type:      rawType,
		FullStart: fullStart,
		Start:     start,
		End:       end,
		Parent:    parent,
		Children:  nil,
	})
	if parent != NilNode {
		b.nodes[parent].Children = append(b.nodes[parent].Children, id)
	}
	return id
}

// AttachDoc records a documentation comment as the side-channel attachment
// of a node.
func (b *TreeBuilder) AttachDoc(id NodeID, doc valueobject.CommentToken) {
	if b.built {
		panic("commentgraft: AttachDoc called after Build")
	}
	b.nodes[id].Doc = &doc
}

// Build validates offsets and freezes the tree. The builder must not be
// reused afterwards.
func (b *TreeBuilder) Build(ctx context.Context) (*SyntaxTree, error) {
	if b.built {
		return nil, errors.New("tree builder already consumed")
	}
	if len(b.nodes) == 0 {
		return nil, errors.New("tree must contain at least a root node")
	}

	sourceLen := uint32(len(b.source)) //nolint:gosec // source size is validated upstream
	for i := range b.nodes {
		n := &b.nodes[i]
		if n.Start > n.End {
			return nil, fmt.Errorf("node %d (%s): start %d after end %d", i, n.Kind, n.Start, n.End)
		}
		if n.FullStart > n.Start {
			return nil, fmt.Errorf("node %d (%s): full start %d after start %d", i, n.Kind, n.FullStart, n.Start)
		}
		if n.End > sourceLen {
			return nil, fmt.Errorf("node %d (%s): end %d exceeds source length %d", i, n.Kind, n.End, sourceLen)
		}
	}

	b.built = true
	tree := &SyntaxTree{
		source: b.source,
		nodes:  b.nodes,
		root:   0,
	}

	slogger.Debug(ctx, "Syntax tree frozen", slogger.Fields{
		"node_count":    len(b.nodes),
		"source_length": len(b.source),
	})

	return tree, nil
}
