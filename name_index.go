package medrec

import (
	"iter"
	"strings"
)

type nameNode struct {
	rec         *Record
	left, right *nameNode
}

// NameIndex is an unbalanced binary search tree keyed by Record.Name, it is the
// authoritative owner of every record reachable from its root. Names compare
// byte-wise. The tree is never rebalanced, so its shape follows insertion order.
//
// NameIndex is not safe for concurrent use, see Registry.
type NameIndex struct {
	root *nameNode
	size int
}

func NewNameIndex() *NameIndex {
	return &NameIndex{}
}

// Len returns the number of records in the index.
func (t *NameIndex) Len() int {
	return t.size
}

// Insert adds rec to the index. If a record with the same name exists the tree
// is left untouched and false is returned.
func (t *NameIndex) Insert(rec *Record) bool {
	link := &t.root
	for *link != nil {
		h := *link
		switch strings.Compare(rec.Name, h.rec.Name) {
		case -1:
			link = &h.left
		case 1:
			link = &h.right
		default:
			return false
		}
	}

	*link = &nameNode{rec: rec}
	t.size++
	return true
}

// Find returns the record with the given name.
func (t *NameIndex) Find(name string) (*Record, bool) {
	if link := t.locate(&t.root, name); *link != nil {
		return (*link).rec, true
	}

	return nil, false
}

// Delete removes the record with the given name and returns it. A node with two
// children takes over the record of its in-order successor, and the successor
// node is unlinked from the right subtree afterwards.
func (t *NameIndex) Delete(name string) (*Record, bool) {
	removed := t.remove(&t.root, name)
	if removed == nil {
		return nil, false
	}

	t.size--
	return removed, true
}

// remove unlinks name from the subtree behind link and returns the record that
// left the tree, nil if name is absent.
func (t *NameIndex) remove(link **nameNode, name string) *Record {
	link = t.locate(link, name)
	h := *link
	if h == nil {
		return nil
	}

	removed := h.rec
	switch {
	case h.left == nil:
		*link = h.right
	case h.right == nil:
		*link = h.left
	default:
		succ := h.right
		for succ.left != nil {
			succ = succ.left
		}

		// the successor name must be taken before the move, afterwards it is
		// held by two nodes until the old one is unlinked.
		succName := succ.rec.Name
		h.rec = succ.rec
		t.remove(&h.right, succName)
	}

	return removed
}

// locate returns the link that points, or would point, to the node of name.
func (t *NameIndex) locate(link **nameNode, name string) **nameNode {
	for *link != nil {
		h := *link
		switch strings.Compare(name, h.rec.Name) {
		case -1:
			link = &h.left
		case 1:
			link = &h.right
		default:
			return link
		}
	}

	return link
}

// Ascend returns the records in ascending name order. The sequence is lazy and
// may be ranged over again, every pass starts from the current root. The index
// must not be modified while a pass is in progress.
func (t *NameIndex) Ascend() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		stack := make([]*nameNode, 0, 16)
		h := t.root
		for h != nil || len(stack) > 0 {
			for ; h != nil; h = h.left {
				stack = append(stack, h)
			}

			h = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(h.rec) {
				return
			}
			h = h.right
		}
	}
}

// Height returns the number of nodes on the longest root to leaf path.
func (t *NameIndex) Height() int {
	height := 0
	level := make([]*nameNode, 0, 8)
	if t.root != nil {
		level = append(level, t.root)
	}

	for len(level) > 0 {
		height++
		next := make([]*nameNode, 0, len(level)*2)
		for _, h := range level {
			if h.left != nil {
				next = append(next, h.left)
			}
			if h.right != nil {
				next = append(next, h.right)
			}
		}
		level = next
	}

	return height
}
