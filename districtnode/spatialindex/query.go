package spatialindex

import "github.com/districtproof/districtnode/districtnode/boundary"

// query is stage 4: BFS from the shard root, pruning any subtree whose
// bbox does not contain pt, emitting every leaf whose bbox contains it.
// Ordering of the result is not guaranteed.
func (s *Shard) query(pt boundary.Point) []string {
	var out []string
	queue := []*node{s.root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if !n.BBox.Contains(pt) {
			continue
		}
		if n.isLeaf() {
			out = append(out, n.Ref.ID)
			continue
		}
		queue = append(queue, n.Children...)
	}
	return out
}
