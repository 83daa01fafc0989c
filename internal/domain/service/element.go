package service

import (
	"commentgraft/internal/domain/entity"
	"commentgraft/internal/domain/valueobject"
)

// Element is one entry of an attached child sequence: either a handle to a
// real tree node or a synthesized comment list. The set of implementations
// is closed.
type Element interface {
	sealedElement()
}

// NodeElement wraps a real node of the underlying tree.
type NodeElement struct {
	ID entity.NodeID
}

func (NodeElement) sealedElement() {}

// CommentListElement wraps a synthesized comment list pseudo-node.
type CommentListElement struct {
	List *valueobject.CommentList
}

func (CommentListElement) sealedElement() {}

// IsCommentList reports whether an element is a synthesized comment list
// rather than a real node.
func IsCommentList(e Element) bool {
	_, ok := e.(CommentListElement)
	return ok
}
