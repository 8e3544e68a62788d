package delve

import "github.com/TheBitDrifter/mask"

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []QueryNode
	kinds    []Kind
}

type leafNode struct {
	kinds []Kind
}

type query struct {
	root QueryNode
}

func newQuery() Query {
	return &query{}
}

func newCompositeNode(op Operation, kinds []Kind) *compositeNode {
	return &compositeNode{
		op:       op,
		children: make([]QueryNode, 0),
		kinds:    kinds,
	}
}

func newLeafNode(kinds []Kind) *leafNode {
	return &leafNode{kinds: kinds}
}

func kindMask(kinds []Kind) mask.Mask {
	var m mask.Mask
	for _, k := range kinds {
		m.Mark(uint32(k))
	}
	return m
}

func (n *compositeNode) Evaluate(capabilities EntityMask) bool {
	nodeMask := kindMask(n.kinds)

	switch n.op {
	case OpAnd:
		if !capabilities.ContainsAll(nodeMask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(capabilities) {
				return false
			}
		}
		return true

	case OpOr:
		if capabilities.ContainsAny(nodeMask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(capabilities) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return capabilities.ContainsNone(nodeMask)
		}
		for _, child := range n.children {
			if child.Evaluate(capabilities) {
				return false
			}
		}
		return !capabilities.ContainsAny(nodeMask)
	}
	return false
}

func (n *leafNode) Evaluate(capabilities EntityMask) bool {
	return capabilities.ContainsAll(kindMask(n.kinds))
}

func (q *query) And(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpAnd, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Or(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpOr, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

func (q *query) Not(items ...interface{}) QueryNode {
	kinds, children := q.processItems(items...)
	node := newCompositeNode(OpNot, kinds)
	node.children = children
	if q.root == nil {
		q.root = node
	}
	return node
}

// processItems accepts kinds, kind slices, and already-built nodes so query
// expressions compose without ceremony.
func (q *query) processItems(items ...interface{}) ([]Kind, []QueryNode) {
	kinds := make([]Kind, 0)
	children := make([]QueryNode, 0)

	for _, item := range items {
		switch v := item.(type) {
		case Kind:
			kinds = append(kinds, v)
		case []Kind:
			kinds = append(kinds, v...)
		case QueryNode:
			children = append(children, v)
		}
	}

	return kinds, children
}

func (q *query) Evaluate(capabilities EntityMask) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(capabilities)
}
