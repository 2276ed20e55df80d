package btree

/*
data item in a node.
seq is the encoded k-mer and uniquely identifies the item across the whole tree.
count is the number of times seq was inserted, never zero for a stored item.
*/
type item struct {
	seq   uint64
	count int32
}
