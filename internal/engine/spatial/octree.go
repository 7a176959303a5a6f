package spatial

import "sort"

// FaceSet is a set of face indices.
type FaceSet map[int]struct{}

// Add inserts face indices.
func (s FaceSet) Add(faces ...int) {
	for _, f := range faces {
		s[f] = struct{}{}
	}
}

// Has reports membership.
func (s FaceSet) Has(face int) bool {
	_, ok := s[face]
	return ok
}

// Sorted returns the members in ascending order.
func (s FaceSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Ints(out)
	return out
}

// Node is an octree node. Interior nodes have exactly 8 children and no
// faces; leaves have no children and list every face whose box overlaps them.
type Node struct {
	Box      AABB
	Children []*Node
	Faces    []int
}

// Build subdivides root depth times and assigns each face to every leaf its
// box overlaps. faceBoxes[i] is the tight box of face i.
func Build(root AABB, depth int, faceBoxes []AABB) *Node {
	n := subdivide(root, depth)
	for i, fb := range faceBoxes {
		n.insert(i, fb)
	}
	return n
}

func subdivide(box AABB, depth int) *Node {
	n := &Node{Box: box}
	if depth <= 0 {
		return n
	}
	n.Children = make([]*Node, 0, 8)
	for _, oct := range box.Octants() {
		n.Children = append(n.Children, subdivide(oct, depth-1))
	}
	return n
}

func (n *Node) insert(face int, fb AABB) {
	if !n.Box.Overlaps(fb) {
		return
	}
	if n.IsLeaf() {
		n.Faces = append(n.Faces, face)
		return
	}
	for _, c := range n.Children {
		c.insert(face, fb)
	}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// QueryRay returns the faces of every leaf the ray passes through.
func (n *Node) QueryRay(q RayQuery) FaceSet {
	out := make(FaceSet)
	n.queryRay(q, out)
	return out
}

func (n *Node) queryRay(q RayQuery, out FaceSet) {
	if !n.Box.HitRay(q) {
		return
	}
	if n.IsLeaf() {
		out.Add(n.Faces...)
		return
	}
	for _, c := range n.Children {
		c.queryRay(q, out)
	}
}

// QueryAABB returns the faces of every leaf overlapping box.
func (n *Node) QueryAABB(box AABB) FaceSet {
	out := make(FaceSet)
	n.queryAABB(box, out)
	return out
}

func (n *Node) queryAABB(box AABB, out FaceSet) {
	if !n.Box.Overlaps(box) {
		return
	}
	if n.IsLeaf() {
		out.Add(n.Faces...)
		return
	}
	for _, c := range n.Children {
		c.queryAABB(box, out)
	}
}

// Walk visits every node depth-first, parents before children.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Leaves returns all leaf nodes.
func (n *Node) Leaves() []*Node {
	var out []*Node
	n.Walk(func(c *Node, _ int) {
		if c.IsLeaf() {
			out = append(out, c)
		}
	})
	return out
}

// Stats summarises an octree.
type Stats struct {
	Leaves      int
	EmptyLeaves int
	MaxFaces    int
	// Assignments counts face references across leaves; faces straddling
	// leaf boundaries count once per leaf.
	Assignments int
}

// Stats walks the tree and counts leaves and face assignments.
func (n *Node) Stats() Stats {
	var s Stats
	for _, l := range n.Leaves() {
		s.Leaves++
		s.Assignments += len(l.Faces)
		if len(l.Faces) == 0 {
			s.EmptyLeaves++
		}
		if len(l.Faces) > s.MaxFaces {
			s.MaxFaces = len(l.Faces)
		}
	}
	return s
}
