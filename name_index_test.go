package medrec

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/google/btree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecord(name string, age int) *Record {
	return NewRecord(name, age, "F", "none", "healthy", "rest")
}

func collectNames(seq func(func(*Record) bool)) []string {
	names := make([]string, 0, 8)
	for rec := range seq {
		names = append(names, rec.Name)
	}
	return names
}

// assertNameOrder walks the whole tree and checks that every name lies strictly
// between the bounds inherited from its ancestors. It returns the node count.
func assertNameOrder(t *testing.T, h *nameNode, lo, hi string, hasLo, hasHi bool) int {
	t.Helper()
	if h == nil {
		return 0
	}

	if hasLo {
		assert.Greater(t, h.rec.Name, lo)
	}
	if hasHi {
		assert.Less(t, h.rec.Name, hi)
	}

	return 1 +
		assertNameOrder(t, h.left, lo, h.rec.Name, hasLo, true) +
		assertNameOrder(t, h.right, h.rec.Name, hi, true, hasHi)
}

func Test_NameIndex_InsertAscend(t *testing.T) {
	idx := NewNameIndex()
	assert.True(t, idx.Insert(newTestRecord("Bob", 40)))
	assert.True(t, idx.Insert(newTestRecord("Alice", 25)))
	assert.True(t, idx.Insert(newTestRecord("Carol", 40)))

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, collectNames(idx.Ascend()))

	// ranging again starts over.
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, collectNames(idx.Ascend()))
}

func Test_NameIndex_Insert_duplicate(t *testing.T) {
	idx := NewNameIndex()
	require.True(t, idx.Insert(newTestRecord("Bob", 40)))

	dup := NewRecord("Bob", 99, "M", "other", "other", "other")
	assert.False(t, idx.Insert(dup))
	assert.Equal(t, 1, idx.Len())

	got, ok := idx.Find("Bob")
	require.True(t, ok)
	assert.Equal(t, 40, got.Age)
	assert.Equal(t, "F", got.Gender)
	assert.Equal(t, "none", got.MedicalHistory)
}

func Test_NameIndex_Find(t *testing.T) {
	idx := NewNameIndex()
	for _, name := range []string{"m", "f", "t", "a", "h", "p", "z"} {
		idx.Insert(newTestRecord(name, 1))
	}

	for _, name := range []string{"m", "f", "t", "a", "h", "p", "z"} {
		rec, ok := idx.Find(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, rec.Name)
	}

	rec, ok := idx.Find("b")
	assert.False(t, ok)
	assert.Nil(t, rec)

	// comparison is byte-wise, so case matters.
	_, ok = idx.Find("M")
	assert.False(t, ok)
}

func Test_NameIndex_Delete_successor(t *testing.T) {
	idx := NewNameIndex()
	for _, name := range []string{"Bob", "Alice", "Carol", "Dave"} {
		require.True(t, idx.Insert(newTestRecord(name, 30)))
	}
	carol, _ := idx.Find("Carol")

	removed, ok := idx.Delete("Bob")
	require.True(t, ok)
	assert.Equal(t, "Bob", removed.Name)

	// Carol is the leftmost node of the right subtree and takes the root slot.
	require.NotNil(t, idx.root)
	assert.Equal(t, "Carol", idx.root.rec.Name)
	assert.Same(t, carol, idx.root.rec)
	assert.Equal(t, "Alice", idx.root.left.rec.Name)
	assert.Equal(t, "Dave", idx.root.right.rec.Name)
	assert.Nil(t, idx.root.right.left)

	assert.Equal(t, 3, idx.Len())
	assert.Equal(t, 3, assertNameOrder(t, idx.root, "", "", false, false))
	assert.Equal(t, []string{"Alice", "Carol", "Dave"}, collectNames(idx.Ascend()))

	_, ok = idx.Find("Bob")
	assert.False(t, ok)
}

func Test_NameIndex_Delete_deepSuccessor(t *testing.T) {
	idx := NewNameIndex()
	// the successor of "d" is "e", which sits below "h" and has a right child "f".
	for _, name := range []string{"d", "b", "h", "a", "c", "e", "i", "f"} {
		require.True(t, idx.Insert(newTestRecord(name, 1)))
	}

	_, ok := idx.Delete("d")
	require.True(t, ok)
	assert.Equal(t, "e", idx.root.rec.Name)
	assert.Equal(t, "f", idx.root.right.left.rec.Name)
	assert.Equal(t, 7, assertNameOrder(t, idx.root, "", "", false, false))
	assert.Equal(t, []string{"a", "b", "c", "e", "f", "h", "i"}, collectNames(idx.Ascend()))
}

func Test_NameIndex_Delete_leafAndSingleChild(t *testing.T) {
	idx := NewNameIndex()
	for _, name := range []string{"m", "f", "t", "a"} {
		idx.Insert(newTestRecord(name, 1))
	}

	// leaf
	_, ok := idx.Delete("a")
	assert.True(t, ok)
	assert.Nil(t, idx.root.left.left)

	// "f" is a leaf now, afterwards "m" keeps a single right child.
	_, ok = idx.Delete("f")
	assert.True(t, ok)
	_, ok = idx.Delete("m")
	assert.True(t, ok)
	assert.Equal(t, "t", idx.root.rec.Name)
	assert.Equal(t, 1, idx.Len())

	_, ok = idx.Delete("t")
	assert.True(t, ok)
	assert.Nil(t, idx.root)
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, collectNames(idx.Ascend()))
}

func Test_NameIndex_Delete_missing(t *testing.T) {
	idx := NewNameIndex()
	rec, ok := idx.Delete("nobody")
	assert.False(t, ok)
	assert.Nil(t, rec)

	idx.Insert(newTestRecord("somebody", 1))
	_, ok = idx.Delete("nobody")
	assert.False(t, ok)
	assert.Equal(t, 1, idx.Len())
}

func Test_NameIndex_Ascend_stop(t *testing.T) {
	idx := NewNameIndex()
	for i := 0; i < 10; i++ {
		idx.Insert(newTestRecord(fmt.Sprintf("patient-%02d", i), i))
	}

	got := make([]string, 0, 3)
	for rec := range idx.Ascend() {
		got = append(got, rec.Name)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []string{"patient-00", "patient-01", "patient-02"}, got)
}

func Test_NameIndex_Height(t *testing.T) {
	idx := NewNameIndex()
	assert.Equal(t, 0, idx.Height())

	// ascending insertion degenerates into a list.
	for i := 0; i < 20; i++ {
		idx.Insert(newTestRecord(fmt.Sprintf("p%02d", i), i))
	}
	assert.Equal(t, 20, idx.Height())

	balanced := NewNameIndex()
	for _, name := range []string{"d", "b", "f", "a", "c", "e", "g"} {
		balanced.Insert(newTestRecord(name, 1))
	}
	assert.Equal(t, 3, balanced.Height())
}

// Test_NameIndex_randomOps replays random inserts and deletes on the index and
// on a google/btree used as reference.
func Test_NameIndex_randomOps(t *testing.T) {
	rnd := rand.New(rand.NewSource(20231017))
	idx := NewNameIndex()
	ref := btree.NewOrderedG[string](4)

	for i := 0; i < 5000; i++ {
		name := fmt.Sprintf("n%03d", rnd.Intn(400))
		if rnd.Intn(3) == 0 {
			_, ok := idx.Delete(name)
			_, refOk := ref.Delete(name)
			require.Equal(t, refOk, ok, "delete %s", name)
			continue
		}

		_, exists := ref.ReplaceOrInsert(name)
		require.Equal(t, !exists, idx.Insert(newTestRecord(name, i)), "insert %s", name)
	}

	want := make([]string, 0, ref.Len())
	ref.Ascend(func(name string) bool {
		want = append(want, name)
		return true
	})

	got := collectNames(idx.Ascend())
	assert.Equal(t, want, got)
	assert.True(t, slices.IsSorted(got))
	assert.Equal(t, ref.Len(), idx.Len())
	assert.Equal(t, ref.Len(), assertNameOrder(t, idx.root, "", "", false, false))
}
