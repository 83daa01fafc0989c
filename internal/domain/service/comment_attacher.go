package service

import (
	"commentgraft/internal/application/common/slogger"
	"commentgraft/internal/domain/entity"
	"commentgraft/internal/domain/valueobject"
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// CommentAttacher augments a frozen syntax tree with comment list
// pseudo-nodes. The tree itself is never mutated; every attached view is
// computed on demand from the source text and memoized for the lifetime of
// the attacher. An attacher is safe for concurrent use.
type CommentAttacher struct {
	tree *entity.SyntaxTree

	mutex    sync.Mutex
	scanner  *CommentScanner
	children map[entity.NodeID][]Element
	tokens   map[entity.NodeID][]Element

	// Metrics
	attachCounter  metric.Int64Counter
	hitCounter     metric.Int64Counter
	missCounter    metric.Int64Counter
	listCounter    metric.Int64Counter
	attachDuration metric.Float64Histogram
}

// NewCommentAttacher creates an attacher over the given tree.
func NewCommentAttacher(tree *entity.SyntaxTree) *CommentAttacher {
	meter := otel.Meter("comment-attacher")

	attachCounter, _ := meter.Int64Counter(
		"comment_attachments_total",
		metric.WithDescription("Total number of containers enumerated with comment attachment"),
	)

	hitCounter, _ := meter.Int64Counter(
		"attachment_cache_hits_total",
		metric.WithDescription("Total number of attachment cache hits"),
	)

	missCounter, _ := meter.Int64Counter(
		"attachment_cache_misses_total",
		metric.WithDescription("Total number of attachment cache misses"),
	)

	listCounter, _ := meter.Int64Counter(
		"comment_lists_total",
		metric.WithDescription("Total number of comment list pseudo-nodes synthesized"),
	)

	attachDuration, _ := meter.Float64Histogram(
		"comment_attachment_duration_seconds",
		metric.WithDescription("Time spent enumerating a container with comment attachment"),
	)

	return &CommentAttacher{
		tree:           tree,
		children:       make(map[entity.NodeID][]Element),
		tokens:         make(map[entity.NodeID][]Element),
		attachCounter:  attachCounter,
		hitCounter:     hitCounter,
		missCounter:    missCounter,
		listCounter:    listCounter,
		attachDuration: attachDuration,
	}
}

// Tree returns the underlying syntax tree.
func (a *CommentAttacher) Tree() *entity.SyntaxTree {
	return a.tree
}

// Children returns the member sequence of a container node with comment
// list pseudo-nodes spliced between, before and after the real members.
// The returned slice is memoized: repeated calls for the same container
// return the identical slice, and the pseudo-nodes inside it are the
// identical instances. A structural member list redirects to its owning
// container's entry. Children panics when id does not address a container
// node or a container's member list.
func (a *CommentAttacher) Children(ctx context.Context, id entity.NodeID) []Element {
	if a.tree.Node(id).Kind == valueobject.KindSyntaxList {
		if owner := a.memberListOwner(id); owner != entity.NilNode {
			return a.Children(ctx, owner)
		}
	}

	start := time.Now()

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if cached, ok := a.children[id]; ok {
		a.hitCounter.Add(ctx, 1)
		return cached
	}
	a.missCounter.Add(ctx, 1)

	elements := a.attachContainer(id)
	a.children[id] = elements

	a.attachCounter.Add(ctx, 1)
	a.attachDuration.Record(ctx, time.Since(start).Seconds())

	slogger.Debug(ctx, "Container enumerated with comment attachment", slogger.Fields{
		"node_id":       int32(id),
		"kind":          a.tree.Node(id).Kind.String(),
		"element_count": len(elements),
	})

	return elements
}

// Tokens returns the child sequence of a node with comment lists formed
// from the trivia between consecutive children. For the structural member
// list of a container it returns the container's attached member sequence,
// sharing the same memoized slice.
func (a *CommentAttacher) Tokens(ctx context.Context, id entity.NodeID) []Element {
	node := a.tree.Node(id)
	if node.Kind == valueobject.KindSyntaxList {
		if owner := a.memberListOwner(id); owner != entity.NilNode {
			return a.Children(ctx, owner)
		}
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if cached, ok := a.tokens[id]; ok {
		a.hitCounter.Add(ctx, 1)
		return cached
	}
	a.missCounter.Add(ctx, 1)

	elements := a.attachTokens(id)
	a.tokens[id] = elements
	return elements
}

// IsOwnerResolvable reports whether an attached view covering id has
// already been computed, without forcing the computation.
func (a *CommentAttacher) IsOwnerResolvable(id entity.NodeID) bool {
	probe := id
	if a.tree.Node(id).Kind == valueobject.KindSyntaxList {
		if owner := a.memberListOwner(id); owner != entity.NilNode {
			probe = owner
		}
	}

	a.mutex.Lock()
	defer a.mutex.Unlock()

	if _, ok := a.children[probe]; ok {
		return true
	}
	_, ok := a.tokens[probe]
	return ok
}

// ContainerBodyStart returns the offset where the body of a container
// begins: after the opening brace or clause colon, or offset zero for the
// whole source file.
func (a *CommentAttacher) ContainerBodyStart(id entity.NodeID) uint32 {
	node := a.tree.Node(id)
	switch node.Kind {
	case valueobject.KindSourceFile:
		return 0
	case valueobject.KindBlock:
		pos := node.Start + 1
		if max := uint32(len(a.tree.Source())); pos > max { //nolint:gosec // validated at tree build
			pos = max
		}
		return pos
	case valueobject.KindClassBody, valueobject.KindInterfaceBody,
		valueobject.KindEnumBody, valueobject.KindObjectLiteral:
		return a.bodyStartAfter(id, valueobject.KindOpenBrace)
	case valueobject.KindCaseClause, valueobject.KindDefaultClause:
		return a.bodyStartAfter(id, valueobject.KindColon)
	default:
		panic(fmt.Sprintf("commentgraft: node kind %s is not a container", node.Kind))
	}
}

func (a *CommentAttacher) bodyStartAfter(id entity.NodeID, delimiter valueobject.SyntaxKind) uint32 {
	if tok := a.tree.FirstChildOfKind(id, delimiter); tok != entity.NilNode {
		return a.tree.Node(tok).End
	}
	if list := a.tree.LastChildOfKind(id, valueobject.KindSyntaxList); list != entity.NilNode {
		return a.tree.Node(list).Start
	}
	panic(fmt.Sprintf("commentgraft: container node %d has neither a %s delimiter nor a member list", id, delimiter))
}

// memberListOwner returns the container node whose structural member list
// id is, or NilNode.
func (a *CommentAttacher) memberListOwner(id entity.NodeID) entity.NodeID {
	parent := a.tree.Node(id).Parent
	if parent == entity.NilNode {
		return entity.NilNode
	}
	parentNode := a.tree.Node(parent)
	if !parentNode.Kind.IsContainer() {
		return entity.NilNode
	}

	index := -1
	for i, c := range parentNode.Children {
		if c == id {
			index = i
			break
		}
	}
	if index < 0 {
		return entity.NilNode
	}

	switch parentNode.Kind {
	case valueobject.KindSourceFile:
		if index == 0 {
			return parent
		}
	case valueobject.KindCaseClause, valueobject.KindDefaultClause:
		if index > 0 && a.tree.Node(parentNode.Children[index-1]).Kind == valueobject.KindColon {
			return parent
		}
	default:
		if index > 0 && a.tree.Node(parentNode.Children[index-1]).Kind == valueobject.KindOpenBrace {
			return parent
		}
	}
	return entity.NilNode
}

// attachContainer enumerates the members of a container with comment lists
// interleaved. Caller holds the mutex.
func (a *CommentAttacher) attachContainer(id entity.NodeID) []Element {
	node := a.tree.Node(id)
	listKind, ok := node.Kind.CommentListKind()
	if !ok {
		panic(fmt.Sprintf("commentgraft: node kind %s is not a container", node.Kind))
	}

	list := a.tree.LastChildOfKind(id, valueobject.KindSyntaxList)
	if list == entity.NilNode {
		panic(fmt.Sprintf("commentgraft: container node %d is missing its structural member list", id))
	}
	members := a.tree.Node(list).Children

	var out []Element
	if len(members) == 0 {
		for _, cl := range a.commentPass(a.ContainerBodyStart(id), false, listKind) {
			out = append(out, CommentListElement{List: cl})
		}
		a.countLists(out)
		return out
	}

	for i, member := range members {
		var pos uint32
		if i == 0 {
			pos = a.tree.Node(member).FullStart
		} else {
			pos = a.tree.Node(members[i-1]).End
		}
		for _, cl := range a.commentPass(pos, true, listKind) {
			out = append(out, CommentListElement{List: cl})
		}
		out = append(out, NodeElement{ID: member})
	}

	last := a.tree.Node(members[len(members)-1])
	for _, cl := range a.commentPass(last.End, false, listKind) {
		out = append(out, CommentListElement{List: cl})
	}

	a.countLists(out)
	return out
}

// commentPass scans one trivia window starting at pos and groups the
// comments it finds into lists separated by blank lines. When stopAtDoc is
// set, scanning stops before the first group containing a documentation
// comment: that group belongs to the member that follows, not to the
// surrounding container. Caller holds the mutex.
func (a *CommentAttacher) commentPass(
	pos uint32,
	stopAtDoc bool,
	listKind valueobject.CommentListKind,
) []*valueobject.CommentList {
	source := a.tree.Source()
	sc := a.scannerLocked()
	sc.SetFullStartAndPos(pos)

	// Comments sharing a line with the preceding token belong to that
	// token, not to the window. Trailing separator commas are stepped over
	// the same way.
	if pos != 0 {
		sc.ScanUntilNewLineOrToken()
		if p := sc.Pos(); p < uint32(len(source)) && source[p] == ',' {
			sc.SetPos(p + 1)
			sc.ScanUntilNewLineOrToken()
		}
	}

	var lists []*valueobject.CommentList
	for {
		tokens := sc.ScanForNewLines()
		if len(tokens) == 0 {
			break
		}
		if stopAtDoc && containsDoc(tokens) {
			break
		}
		lists = append(lists, valueobject.NewCommentList(listKind, tokens))
	}

	// Comments on the line of the stopping token lead that token. The
	// closing brace is the exception: a comment squeezed before it has no
	// other home.
	stop := sc.Pos()
	maxEnd := stop
	if stop < uint32(len(source)) && source[stop] != '}' {
		maxEnd = lineStart(source, stop)
	}

	kept := lists[:0]
	for _, cl := range lists {
		if cl.End <= maxEnd {
			kept = append(kept, cl)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

// attachTokens builds the generic per-child view: the node's children with
// comment lists formed from the trivia gaps between them. Caller holds the
// mutex.
func (a *CommentAttacher) attachTokens(id entity.NodeID) []Element {
	node := a.tree.Node(id)
	listKind := a.nearestListKind(id)
	sc := a.scannerLocked()

	var out []Element
	var cursor uint32
	for _, childID := range node.Children {
		child := a.tree.Node(childID)
		if child.Kind != valueobject.KindEndOfFile {
			start := child.FullStart
			if cursor > start {
				start = cursor
			}
			upper := child.ScanStart()
			if start < upper {
				sc.SetFullStartAndPos(start)
				tokens := sc.ScanUntilToken()
				for _, group := range groupByBlankLine(a.tree.Source(), boundedTokens(tokens, upper)) {
					cl := valueobject.NewCommentList(listKind, group)
					out = append(out, CommentListElement{List: cl})
				}
			}
		}
		out = append(out, NodeElement{ID: childID})
		cursor = child.End
	}

	a.countLists(out)
	return out
}

// nearestListKind derives the comment list kind from the closest enclosing
// container, defaulting to statement position.
func (a *CommentAttacher) nearestListKind(id entity.NodeID) valueobject.CommentListKind {
	for cur := id; cur != entity.NilNode; cur = a.tree.Node(cur).Parent {
		if kind, ok := a.tree.Node(cur).Kind.CommentListKind(); ok {
			return kind
		}
	}
	return valueobject.CommentListStatement
}

func (a *CommentAttacher) scannerLocked() *CommentScanner {
	if a.scanner == nil {
		a.scanner = NewCommentScanner(a.tree.Source())
	}
	return a.scanner
}

func (a *CommentAttacher) countLists(elements []Element) {
	count := 0
	for _, e := range elements {
		if IsCommentList(e) {
			count++
		}
	}
	if count > 0 {
		a.listCounter.Add(context.Background(), int64(count))
	}
}

func containsDoc(tokens []valueobject.CommentToken) bool {
	for _, t := range tokens {
		if t.Kind == valueobject.CommentDoc {
			return true
		}
	}
	return false
}

func boundedTokens(tokens []valueobject.CommentToken, upper uint32) []valueobject.CommentToken {
	kept := tokens[:0]
	for _, t := range tokens {
		if t.End <= upper {
			kept = append(kept, t)
		}
	}
	return kept
}

// groupByBlankLine splits a run of comment tokens into groups wherever a
// blank line separates two consecutive tokens.
func groupByBlankLine(source string, tokens []valueobject.CommentToken) [][]valueobject.CommentToken {
	if len(tokens) == 0 {
		return nil
	}
	var groups [][]valueobject.CommentToken
	current := []valueobject.CommentToken{tokens[0]}
	for _, t := range tokens[1:] {
		prev := current[len(current)-1]
		if countNewLines(source[prev.End:t.Pos]) >= 2 {
			groups = append(groups, current)
			current = []valueobject.CommentToken{t}
		} else {
			current = append(current, t)
		}
	}
	groups = append(groups, current)
	return groups
}

func countNewLines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}
	return n
}

// lineStart returns the offset of the first character of the line
// containing pos.
func lineStart(source string, pos uint32) uint32 {
	for pos > 0 && source[pos-1] != '\n' {
		pos--
	}
	return pos
}
