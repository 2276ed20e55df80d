package btree

import "container/list"

// cache holds up to capacity nodes between operations, most recently used at
// the front. A node evicted from the cache is handed to writeBack, which
// persists it if it was mutated while resident.
type cache struct {
	capacity  int
	order     *list.List
	index     map[int64]*list.Element
	writeBack func(n *node) error
}

func newCache(capacity int, writeBack func(n *node) error) *cache {
	return &cache{
		capacity:  capacity,
		order:     list.New(),
		index:     make(map[int64]*list.Element, capacity),
		writeBack: writeBack,
	}
}

// lookup returns the resident node at offset and marks it most recently used.
func (c *cache) lookup(offset int64) *node {
	e, ok := c.index[offset]
	if !ok {
		return nil
	}
	c.order.MoveToFront(e)
	return e.Value.(*node)
}

// register makes n resident, evicting the least recently used node first if
// the cache is full.
func (c *cache) register(n *node) error {
	if c.order.Len() >= c.capacity {
		if err := c.evict(c.order.Back()); err != nil {
			return err
		}
	}
	n.cached = true
	c.index[n.offset] = c.order.PushFront(n)
	return nil
}

func (c *cache) evict(e *list.Element) error {
	n := c.order.Remove(e).(*node)
	delete(c.index, n.offset)
	n.cached = false
	return c.writeBack(n)
}

// flushAll evicts every node, least recently used first.
func (c *cache) flushAll() error {
	for c.order.Len() > 0 {
		if err := c.evict(c.order.Back()); err != nil {
			return err
		}
	}
	return nil
}

func (c *cache) len() int {
	return c.order.Len()
}
