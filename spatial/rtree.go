package spatial

import (
	"math"
	"sort"
)

// Node fan-out bounds. 64/16 trades build time against query depth well
// at the event counts this store sees.
const (
	MaxEntries = 64
	MinEntries = 16
)

type entry struct {
	pos Point
	ord uint32
}

type node struct {
	box      Box
	children []*node // nil for leaves
	entries  []entry // set only on leaves
}

// RTree is a bulk-loaded R-tree over (position, ordinal) pairs.
//
// It is built once from the full position columns using Sort-Tile-Recursive
// packing and answers containment queries until it is cleared. O(n log n)
// construction, no incremental insertion.
type RTree struct {
	root *node
	size int
}

// NewRTree returns an empty R-tree.
func NewRTree() *RTree {
	return &RTree{}
}

// Build implements Index. Positions are taken from the parallel columns
// xs/ys/zs; the ordinal of a position is its column index.
func (t *RTree) Build(xs, ys, zs []float32) {
	if !t.Empty() {
		return
	}

	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if len(zs) < n {
		n = len(zs)
	}
	if n == 0 {
		return
	}

	entries := make([]entry, n)
	for i := 0; i < n; i++ {
		entries[i] = entry{
			pos: Point{xs[i], ys[i], zs[i]},
			ord: uint32(i),
		}
	}

	nodes := packLeaves(entries)
	for len(nodes) > 1 {
		nodes = packParents(nodes)
	}

	t.root = nodes[0]
	t.size = n
}

// Clear implements Index.
func (t *RTree) Clear() {
	t.root = nil
	t.size = 0
}

// Empty implements Index.
func (t *RTree) Empty() bool {
	return t.root == nil
}

// Len implements Index.
func (t *RTree) Len() int {
	return t.size
}

// Bounds returns the box covering every indexed position.
func (t *RTree) Bounds() Box {
	if t.root == nil {
		return EmptyBox()
	}
	return t.root.box
}

// Search implements Index.
func (t *RTree) Search(box Box, fn func(ordinal uint32)) {
	if t.root == nil {
		return
	}
	t.root.search(box, fn)
}

func (n *node) search(box Box, fn func(uint32)) {
	if !box.Intersects(n.box) {
		return
	}
	if n.children == nil {
		for _, e := range n.entries {
			if box.Contains(e.pos) {
				fn(e.ord)
			}
		}
		return
	}
	for _, c := range n.children {
		c.search(box, fn)
	}
}

// packLeaves tiles the entries into leaves with Sort-Tile-Recursive
// packing: sort by x into slabs, each slab by y into runs, each run by z,
// then chop runs into leaves of at most MaxEntries entries.
func packLeaves(entries []entry) []*node {
	numLeaves := (len(entries) + MaxEntries - 1) / MaxEntries
	slabCount := int(math.Ceil(math.Cbrt(float64(numLeaves))))

	var leaves []*node

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].pos[0] < entries[j].pos[0]
	})

	for _, slab := range split(entries, slabCount*slabCount*MaxEntries) {
		sort.Slice(slab, func(i, j int) bool {
			return slab[i].pos[1] < slab[j].pos[1]
		})

		for _, run := range split(slab, slabCount*MaxEntries) {
			sort.Slice(run, func(i, j int) bool {
				return run[i].pos[2] < run[j].pos[2]
			})

			for _, leaf := range split(run, MaxEntries) {
				box := EmptyBox()
				for _, e := range leaf {
					box.Merge(e.pos)
				}
				leaves = append(leaves, &node{box: box, entries: leaf})
			}
		}
	}

	return leaves
}

// packParents groups a level of nodes into parents of at most MaxEntries
// children. Leaves arrive in tile order, so sequential grouping keeps
// siblings spatially coherent.
func packParents(nodes []*node) []*node {
	parents := make([]*node, 0, (len(nodes)+MaxEntries-1)/MaxEntries)

	for len(nodes) > 0 {
		k := chunkLen(len(nodes))
		box := EmptyBox()
		for _, c := range nodes[:k] {
			box.Union(c.box)
		}
		parents = append(parents, &node{box: box, children: nodes[:k:k]})
		nodes = nodes[k:]
	}

	return parents
}

// split partitions entries into pieces of at most max entries, keeping the
// final piece at MinEntries or more whenever a sibling exists.
func split(entries []entry, max int) [][]entry {
	pieces := make([][]entry, 0, (len(entries)+max-1)/max)
	for len(entries) > 0 {
		k := max
		if len(entries) <= max {
			k = len(entries)
		} else if rem := len(entries) - max; rem < MinEntries {
			k = len(entries) - MinEntries
		}
		pieces = append(pieces, entries[:k:k])
		entries = entries[k:]
	}
	return pieces
}

// chunkLen sizes the next sibling group so the trailing group never drops
// below MinEntries.
func chunkLen(remaining int) int {
	if remaining <= MaxEntries {
		return remaining
	}
	if rem := remaining - MaxEntries; rem < MinEntries {
		return remaining - MinEntries
	}
	return MaxEntries
}
