package medrec

import (
	"iter"
	"slices"
)

// ageNode holds every record of one age. group is kept in insertion order and
// read back to front, so the latest record of an age always comes first.
type ageNode struct {
	age         int
	group       []*Record
	left, right *ageNode
}

// AgeIndex is an unbalanced binary search tree keyed by Record.Age. It holds
// references to records owned by a NameIndex, one node per distinct age, and a
// node lives exactly as long as its group is not empty.
//
// AgeIndex is not safe for concurrent use, see Registry.
type AgeIndex struct {
	root *ageNode
	ages int
}

func NewAgeIndex() *AgeIndex {
	return &AgeIndex{}
}

// Len returns the number of distinct ages.
func (t *AgeIndex) Len() int {
	return t.ages
}

// Insert puts rec in front of the group of its age, the group is created when
// rec is the first record of that age.
func (t *AgeIndex) Insert(rec *Record) {
	link := t.locate(rec.Age)
	if h := *link; h != nil {
		h.group = append(h.group, rec)
		return
	}

	*link = &ageNode{age: rec.Age, group: []*Record{rec}}
	t.ages++
}

// Remove drops rec, compared by identity, from the group of its age. An emptied
// node is deleted, taking over its in-order successor when it has two children.
func (t *AgeIndex) Remove(rec *Record) bool {
	link := t.locate(rec.Age)
	h := *link
	if h == nil {
		return false
	}

	idx := slices.Index(h.group, rec)
	if idx < 0 {
		return false
	}

	h.group = slices.Delete(h.group, idx, idx+1)
	if len(h.group) == 0 {
		t.unlink(link)
		t.ages--
	}

	return true
}

// Group returns the records of one age, latest first.
func (t *AgeIndex) Group(age int) []*Record {
	h := *t.locate(age)
	if h == nil {
		return nil
	}

	group := slices.Clone(h.group)
	slices.Reverse(group)
	return group
}

// Range returns every record whose age lies in [minAge, maxAge]. Records come grouped
// by ascending age, latest first inside a group. Subtrees that cannot hold a
// matching age are never visited.
func (t *AgeIndex) Range(minAge, maxAge int) iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		if minAge > maxAge {
			return
		}
		t.walk(t.root, minAge, maxAge, yield)
	}
}

func (t *AgeIndex) walk(h *ageNode, minAge, maxAge int, yield func(*Record) bool) bool {
	if h == nil {
		return true
	}

	if h.age > minAge && !t.walk(h.left, minAge, maxAge, yield) {
		return false
	}

	for i := len(h.group) - 1; i >= 0; i-- {
		rec := h.group[i]
		if rec.Age < minAge || rec.Age > maxAge {
			continue
		}
		if !yield(rec) {
			return false
		}
	}

	if h.age < maxAge {
		return t.walk(h.right, minAge, maxAge, yield)
	}

	return true
}

// Height returns the number of nodes on the longest root to leaf path.
func (t *AgeIndex) Height() int {
	return ageHeight(t.root)
}

func ageHeight(h *ageNode) int {
	if h == nil {
		return 0
	}

	return 1 + max(ageHeight(h.left), ageHeight(h.right))
}

// locate returns the link that points, or would point, to the node of age.
func (t *AgeIndex) locate(age int) **ageNode {
	link := &t.root
	for *link != nil {
		h := *link
		switch {
		case age < h.age:
			link = &h.left
		case age > h.age:
			link = &h.right
		default:
			return link
		}
	}

	return link
}

// unlink removes the node behind link from the tree.
func (t *AgeIndex) unlink(link **ageNode) {
	h := *link
	switch {
	case h.left == nil:
		*link = h.right
	case h.right == nil:
		*link = h.left
	default:
		succLink := &h.right
		for (*succLink).left != nil {
			succLink = &(*succLink).left
		}

		succ := *succLink
		h.age, h.group = succ.age, succ.group
		*succLink = succ.right
	}
}
