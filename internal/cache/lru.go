package cache

// node is an entry of the recency list. It carries the key so the owning
// map entry can be dropped when the node is evicted.
type node[K comparable, V any] struct {
	key        K
	value      V
	prev, next *node[K, V]
}

// list is a doubly-linked recency list: head is the most recently used
// entry, tail the least. It is not synchronized.
type list[K comparable, V any] struct {
	head, tail *node[K, V]
	n          int
}

func (l *list[K, V]) len() int { return l.n }

func (l *list[K, V]) pushFront(n *node[K, V]) {
	n.prev, n.next = nil, l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n
	if l.tail == nil {
		l.tail = n
	}
	l.n++
}

func (l *list[K, V]) moveToFront(n *node[K, V]) {
	if n == l.head {
		return
	}
	l.remove(n)
	l.pushFront(n)
}

func (l *list[K, V]) remove(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev, n.next = nil, nil
	l.n--
}

// back returns the least recently used node, or nil.
func (l *list[K, V]) back() *node[K, V] { return l.tail }
