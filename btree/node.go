package btree

import (
	"bufio"
	"fmt"
	"strconv"

	"genebank/sequence"
)

/*
node is the in-memory form of one record. Its identity is its file offset;
children are referenced by offset and fetched through the store.
A node with no children is a leaf, otherwise len(children) == len(items)+1.
*/
type node struct {
	offset   int64
	items    []item
	children []int64
	cached   bool // resident in the store's cache
	dirty    bool // mutated since it was last written
}

func (n *node) isLeaf() bool {
	return len(n.children) == 0
}

func (n *node) isFull(degree int) bool {
	return len(n.items) == maxItems(degree)
}

/*
If an item with seq is found in node n, return its index i.
Else, return the index j where seq would have resided if it was present in the node.
This coincides with the position of the child pointer to follow when the
returned boolean is false.
*/
func (n *node) search(seq uint64) (int, bool) {
	low, high := 0, len(n.items)
	var mid int
	for low < high {
		mid = (low + high) / 2
		switch cur := n.items[mid].seq; {
		case seq > cur:
			low = mid + 1
		case seq < cur:
			high = mid
		default:
			return mid, true
		}
	}
	return low, false
}

// helper method to insert an item at an arbitrary position of a node
func (n *node) insertItemAt(pos int, it item) {
	n.items = append(n.items, item{})
	copy(n.items[pos+1:], n.items[pos:])
	n.items[pos] = it
}

// helper method to insert a child offset at an arbitrary position of a node
func (n *node) insertChildAt(pos int, offset int64) {
	n.children = append(n.children, 0)
	copy(n.children[pos+1:], n.children[pos:])
	n.children[pos] = offset
}

// frequency returns the count stored for seq in the subtree rooted at n, 0 if absent.
func (n *node) frequency(s *store, seq uint64) (int32, error) {
	pos, found := n.search(seq)
	if found {
		return n.items[pos].count, nil
	}
	if n.isLeaf() {
		return 0, nil
	}
	child, err := s.child(n, pos)
	if err != nil {
		return 0, err
	}
	return child.frequency(s, seq)
}

/*
split moves the upper half of the full child at index into a new sibling and
promotes the child's median item into n at index.
The child keeps t-1 items and t children, the sibling receives the remaining
t-1 items and t children.
*/
func (n *node) split(s *store, index int) error {
	t := s.degree
	child, err := s.child(n, index)
	if err != nil {
		return err
	}
	if !child.isFull(t) {
		panic(fmt.Sprintf("btree: split of non-full child at %d (%d items)", child.offset, len(child.items)))
	}
	sibling, err := s.alloc()
	if err != nil {
		return err
	}

	sibling.items = append(make([]item, 0, maxItems(t)), child.items[t:]...)
	mid := child.items[t-1]
	child.items = child.items[:t-1]

	// Except for leaf nodes, move the trailing half of the child pointers too.
	if !child.isLeaf() {
		sibling.children = append(make([]int64, 0, 2*t), child.children[t:]...)
		child.children = child.children[:t]
	}

	n.insertItemAt(index, mid)
	n.insertChildAt(index+1, sibling.offset)
	s.debugf("split node %d at %d, sibling %d", child.offset, index, sibling.offset)

	for _, m := range []*node{n, child, sibling} {
		if err := s.persist(m); err != nil {
			return err
		}
	}
	return nil
}

/*
insert adds one occurrence of seq to the subtree rooted at n. n must not be
full: callers split a full child before descending into it, so the recursion
always finds room at the leaf.
*/
func (n *node) insert(s *store, seq uint64) error {
	if n.isFull(s.degree) {
		panic(fmt.Sprintf("btree: insert into full node at %d", n.offset))
	}
	pos, found := n.search(seq)

	// The item already exists, so just count it.
	if found {
		n.items[pos].count++
		return s.persist(n)
	}

	if n.isLeaf() {
		n.insertItemAt(pos, item{seq: seq, count: 1})
		return s.persist(n)
	}

	child, err := s.child(n, pos)
	if err != nil {
		return err
	}

	// If the next node on the traversal path is already full, split it
	if child.isFull(s.degree) {
		if err := n.split(s, pos); err != nil {
			return err
		}

		// We may need to change direction after promoting the middle item, depending on its key.
		switch promoted := n.items[pos].seq; {
		case seq < promoted:
		case seq > promoted:
			pos++
		default:
			n.items[pos].count++
			return s.persist(n)
		}
		if child, err = s.child(n, pos); err != nil {
			return err
		}
	}

	return child.insert(s, seq)
}

// dump writes the subtree rooted at n in order, one "<count> <sequence>" line per item.
func (n *node) dump(s *store, w *bufio.Writer) error {
	if n.isLeaf() {
		for _, it := range n.items {
			if err := writeItem(w, it, s.length); err != nil {
				return err
			}
		}
		return nil
	}
	for i := 0; i <= len(n.items); i++ {
		child, err := s.child(n, i)
		if err != nil {
			return err
		}
		if err := child.dump(s, w); err != nil {
			return err
		}
		if i < len(n.items) {
			if err := writeItem(w, n.items[i], s.length); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeItem(w *bufio.Writer, it item, length int) error {
	buf := w.AvailableBuffer()
	buf = strconv.AppendInt(buf, int64(it.count), 10)
	buf = append(buf, ' ')
	buf = append(buf, sequence.Decode(it.seq, length)...)
	buf = append(buf, '\n')
	_, err := w.Write(buf)
	return err
}
