package voronoi

// eventTree is a red-black tree of events threaded with an in-order linked
// list, so neighbours are reachable without walking the tree.
type eventTree struct {
	root *eventNode
}

type eventNode struct {
	event    Event
	left     *eventNode
	right    *eventNode
	parent   *eventNode
	previous *eventNode
	next     *eventNode
	red      bool
}

// insertAfter links ev right after node in order, or as the first node when
// node is nil, and rebalances.
func (t *eventTree) insertAfter(node *eventNode, ev Event) *eventNode {
	successor := &eventNode{event: ev, red: true}

	var parent *eventNode
	switch {
	case node != nil:
		successor.previous = node
		successor.next = node.next
		if node.next != nil {
			node.next.previous = successor
		}
		node.next = successor
		if node.right != nil {
			node = t.first(node.right)
			node.left = successor
		} else {
			node.right = successor
		}
		parent = node
	case t.root != nil:
		node = t.first(t.root)
		successor.next = node
		node.previous = successor
		node.left = successor
		parent = node
	default:
		t.root = successor
	}
	successor.parent = parent

	node = successor
	for parent != nil && parent.red {
		grandpa := parent.parent
		if parent == grandpa.left {
			uncle := grandpa.right
			if uncle != nil && uncle.red {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.right {
					t.rotateLeft(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateRight(grandpa)
			}
		} else {
			uncle := grandpa.left
			if uncle != nil && uncle.red {
				parent.red = false
				uncle.red = false
				grandpa.red = true
				node = grandpa
			} else {
				if node == parent.left {
					t.rotateRight(parent)
					node = parent
					parent = node.parent
				}
				parent.red = false
				grandpa.red = true
				t.rotateLeft(grandpa)
			}
		}
		parent = node.parent
	}
	t.root.red = false
	return successor
}

func (t *eventTree) remove(node *eventNode) {
	if node.next != nil {
		node.next.previous = node.previous
	}
	if node.previous != nil {
		node.previous.next = node.next
	}
	node.next = nil
	node.previous = nil

	parent := node.parent
	left := node.left
	right := node.right

	var next *eventNode
	switch {
	case left == nil:
		next = right
	case right == nil:
		next = left
	default:
		next = t.first(right)
	}

	if parent != nil {
		if parent.left == node {
			parent.left = next
		} else {
			parent.right = next
		}
	} else {
		t.root = next
	}

	var isRed bool
	if left != nil && right != nil {
		isRed = next.red
		next.red = node.red
		next.left = left
		left.parent = next
		if next != right {
			parent = next.parent
			next.parent = node.parent
			node = next.right
			parent.left = node
			next.right = right
			right.parent = next
		} else {
			next.parent = parent
			parent = next
			node = next.right
		}
	} else {
		isRed = node.red
		node = next
	}
	if node != nil {
		node.parent = parent
	}
	if isRed {
		return
	}
	if node != nil && node.red {
		node.red = false
		return
	}

	var sibling *eventNode
	for node != t.root {
		if node == parent.left {
			sibling = parent.right
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateLeft(parent)
				sibling = parent.right
			}
			if isRedNode(sibling.left) || isRedNode(sibling.right) {
				if !isRedNode(sibling.right) {
					sibling.left.red = false
					sibling.red = true
					t.rotateRight(sibling)
					sibling = parent.right
				}
				sibling.red = parent.red
				parent.red = false
				sibling.right.red = false
				t.rotateLeft(parent)
				node = t.root
				break
			}
		} else {
			sibling = parent.left
			if sibling.red {
				sibling.red = false
				parent.red = true
				t.rotateRight(parent)
				sibling = parent.left
			}
			if isRedNode(sibling.left) || isRedNode(sibling.right) {
				if !isRedNode(sibling.left) {
					sibling.right.red = false
					sibling.red = true
					t.rotateLeft(sibling)
					sibling = parent.left
				}
				sibling.red = parent.red
				parent.red = false
				sibling.left.red = false
				t.rotateRight(parent)
				node = t.root
				break
			}
		}
		sibling.red = true
		node = parent
		parent = parent.parent
		if node.red {
			break
		}
	}
	if node != nil {
		node.red = false
	}
}

func isRedNode(n *eventNode) bool {
	return n != nil && n.red
}

func (t *eventTree) rotateLeft(p *eventNode) {
	q := p.right
	parent := p.parent
	if parent != nil {
		if parent.left == p {
			parent.left = q
		} else {
			parent.right = q
		}
	} else {
		t.root = q
	}
	q.parent = parent
	p.parent = q
	p.right = q.left
	if p.right != nil {
		p.right.parent = p
	}
	q.left = p
}

func (t *eventTree) rotateRight(p *eventNode) {
	q := p.left
	parent := p.parent
	if parent != nil {
		if parent.left == p {
			parent.left = q
		} else {
			parent.right = q
		}
	} else {
		t.root = q
	}
	q.parent = parent
	p.parent = q
	p.left = q.right
	if p.left != nil {
		p.left.parent = p
	}
	q.right = p
}

func (t *eventTree) first(node *eventNode) *eventNode {
	for node.left != nil {
		node = node.left
	}
	return node
}

// predecessorOf returns the last node ordered before ev, nil when ev goes first.
func (t *eventTree) predecessorOf(ev Event) *eventNode {
	node := t.root
	for node != nil {
		if ev.less(node.event) {
			if node.left == nil {
				return node.previous
			}
			node = node.left
		} else {
			if node.right == nil {
				return node
			}
			node = node.right
		}
	}
	return nil
}

// lowerBound returns the first node whose event fires at or after y.
func (t *eventTree) lowerBound(y float64) *eventNode {
	var candidate *eventNode
	node := t.root
	for node != nil {
		if node.event.Y >= y {
			candidate = node
			node = node.left
		} else {
			node = node.right
		}
	}
	return candidate
}
