package treesitter

import (
	"commentgraft/internal/domain/entity"
	"commentgraft/internal/domain/valueobject"
	"context"
	"strings"

	tree_sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// commentNodeType is the grammar type tree-sitter uses for every comment in
// the supported languages.
const commentNodeType = "comment"

// kindFor maps a raw grammar type to the structural kind the attachment
// layer understands. Anything unlisted is opaque.
func kindFor(rawType string) valueobject.SyntaxKind {
	switch rawType {
	case "program":
		return valueobject.KindSourceFile
	case "statement_block":
		return valueobject.KindBlock
	case "class_body":
		return valueobject.KindClassBody
	case "interface_body", "object_type":
		return valueobject.KindInterfaceBody
	case "enum_body":
		return valueobject.KindEnumBody
	case "object":
		return valueobject.KindObjectLiteral
	case "switch_case":
		return valueobject.KindCaseClause
	case "switch_default":
		return valueobject.KindDefaultClause
	case "{":
		return valueobject.KindOpenBrace
	case "}":
		return valueobject.KindCloseBrace
	case ":":
		return valueobject.KindColon
	case ",":
		return valueobject.KindComma
	default:
		return valueobject.KindOther
	}
}

// convertTree shapes a raw tree-sitter tree into the domain syntax tree.
// Comment nodes are dropped from every child list; a documentation comment
// directly preceding a node is carried over as its side-channel attachment.
// Container nodes always materialize a member list child, and separator
// commas inside containers are dropped rather than kept as members.
func convertTree(ctx context.Context, root tree_sitter.Node, source []byte) (*entity.SyntaxTree, error) {
	c := &converter{
		builder: entity.NewTreeBuilder(string(source)),
		source:  source,
	}
	c.addNode(root, entity.NilNode, 0)
	return c.builder.Build(ctx)
}

type converter struct {
	builder *entity.TreeBuilder
	source  []byte
}

func (c *converter) addNode(ts tree_sitter.Node, parent entity.NodeID, fullStart uint32) entity.NodeID {
	rawType := ts.Type()
	kind := kindFor(rawType)
	id := c.builder.AddNode(parent, kind, rawType, fullStart, byteOffset(ts.StartByte()), byteOffset(ts.EndByte()))

	if kind.IsContainer() {
		c.addContainerChildren(ts, id, kind, fullStart)
	} else {
		c.addPlainChildren(ts, id, fullStart)
	}
	return id
}

// addPlainChildren converts all children of a non-container node, dropping
// comments and keeping everything else, separator commas included.
func (c *converter) addPlainChildren(ts tree_sitter.Node, id entity.NodeID, fullStart uint32) {
	prevEnd := fullStart
	var pendingDoc *valueobject.CommentToken

	for i := range int(ts.ChildCount()) {
		child := ts.Child(uint32(i)) //nolint:gosec // index bounded by ChildCount
		if child.IsNull() {
			continue
		}
		if child.Type() == commentNodeType {
			pendingDoc = c.docToken(child, prevEnd)
			continue
		}
		childID := c.addNode(child, id, prevEnd)
		c.attachPendingDoc(childID, pendingDoc, byteOffset(child.StartByte()))
		pendingDoc = nil
		prevEnd = byteOffset(child.EndByte())
	}
}

// addContainerChildren converts a container node into its token children
// plus a synthesized member list. The member list is materialized even when
// the container is empty.
func (c *converter) addContainerChildren(
	ts tree_sitter.Node,
	id entity.NodeID,
	kind valueobject.SyntaxKind,
	fullStart uint32,
) {
	children := realChildren(ts)

	switch kind {
	case valueobject.KindSourceFile:
		c.addMemberList(children, id, 0)
		sourceLen := uint32(len(c.source)) //nolint:gosec // bounded by parser input validation
		prevEnd := uint32(0)
		for _, child := range children {
			if child.Type() != commentNodeType {
				prevEnd = byteOffset(child.EndByte())
			}
		}
		c.builder.AddNode(id, valueobject.KindEndOfFile, "", prevEnd, sourceLen, sourceLen)

	case valueobject.KindCaseClause, valueobject.KindDefaultClause:
		prevEnd := fullStart
		split := len(children)
		for i, child := range children {
			if child.Type() == ":" {
				split = i
				break
			}
		}
		for _, child := range children[:split] {
			c.addNode(child, id, prevEnd)
			prevEnd = byteOffset(child.EndByte())
		}
		if split < len(children) {
			colon := children[split]
			c.addNode(colon, id, prevEnd)
			prevEnd = byteOffset(colon.EndByte())
			c.addMemberList(children[split+1:], id, prevEnd)
		} else {
			c.addMemberList(nil, id, prevEnd)
		}

	default:
		prevEnd := fullStart
		open, closing := -1, len(children)
		for i, child := range children {
			if child.Type() == "{" && open < 0 {
				open = i
			}
			if child.Type() == "}" {
				closing = i
			}
		}
		if open >= 0 {
			c.addNode(children[open], id, prevEnd)
			prevEnd = byteOffset(children[open].EndByte())
		}
		body := children[open+1 : closing]
		c.addMemberList(body, id, prevEnd)
		for _, m := range body {
			if m.Type() != commentNodeType {
				prevEnd = byteOffset(m.EndByte())
			}
		}
		if closing < len(children) {
			c.addNode(children[closing], id, prevEnd)
		}
	}
}

// addMemberList synthesizes the structural member list node under a
// container. Commas between members are stepped over; a documentation
// comment directly preceding a member attaches to that member.
func (c *converter) addMemberList(members []tree_sitter.Node, container entity.NodeID, bodyStart uint32) entity.NodeID {
	listStart, listEnd := bodyStart, bodyStart
	first := true
	for _, m := range members {
		if m.Type() == commentNodeType || m.Type() == "," {
			continue
		}
		if first {
			listStart = byteOffset(m.StartByte())
			first = false
		}
		listEnd = byteOffset(m.EndByte())
	}
	if first {
		listStart, listEnd = bodyStart, bodyStart
	}

	list := c.builder.AddNode(container, valueobject.KindSyntaxList, "", bodyStart, listStart, listEnd)

	prevEnd := bodyStart
	var pendingDoc *valueobject.CommentToken
	for _, m := range members {
		switch m.Type() {
		case commentNodeType:
			pendingDoc = c.docToken(m, prevEnd)
		case ",":
			prevEnd = byteOffset(m.EndByte())
		default:
			memberID := c.addNode(m, list, prevEnd)
			c.attachPendingDoc(memberID, pendingDoc, byteOffset(m.StartByte()))
			pendingDoc = nil
			prevEnd = byteOffset(m.EndByte())
		}
	}
	return list
}

// docToken classifies a comment node, returning it as the pending
// documentation attachment when it qualifies. A non-documentation comment
// clears any earlier pending attachment: the documentation comment must be
// the last comment before the node it attaches to.
func (c *converter) docToken(comment tree_sitter.Node, prevEnd uint32) *valueobject.CommentToken {
	start := byteOffset(comment.StartByte())
	end := byteOffset(comment.EndByte())
	text := string(c.source[start:end])
	if !strings.HasPrefix(text, "/**") || text == "/**/" {
		return nil
	}
	return &valueobject.CommentToken{
		Kind:      valueobject.CommentDoc,
		FullStart: prevEnd,
		Pos:       start,
		End:       end,
	}
}

func (c *converter) attachPendingDoc(id entity.NodeID, doc *valueobject.CommentToken, nodeStart uint32) {
	if doc == nil {
		return
	}
	if !isBlank(c.source[doc.End:nodeStart]) {
		return
	}
	c.builder.AttachDoc(id, *doc)
}

func realChildren(ts tree_sitter.Node) []tree_sitter.Node {
	count := int(ts.ChildCount())
	out := make([]tree_sitter.Node, 0, count)
	for i := range count {
		child := ts.Child(uint32(i)) //nolint:gosec // index bounded by ChildCount
		if !child.IsNull() {
			out = append(out, child)
		}
	}
	return out
}

func isBlank(b []byte) bool {
	for _, ch := range b {
		if ch != ' ' && ch != '\t' && ch != '\r' && ch != '\n' {
			return false
		}
	}
	return true
}

func byteOffset(val uint) uint32 {
	if val > uint(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(val)
}
