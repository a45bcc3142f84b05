// Package phymerge merges two phylogenetic constraint trees on disjoint
// leaf sets into one unrooted binary tree over the union of their leaves.
//
// The merge is a constrained Neighbor-Joining agglomeration: candidate
// cherries are ranked by the classical Q-criterion over an all-pairs
// distance matrix, each candidate is gated by a compatibility oracle that
// rejects joins contradicting either constraint tree, and every committed
// join is folded back into the constraint trees so they keep encoding the
// evolving consensus. The output displays each input tree on its own leaf
// set; distances only steer which compatible cherry is taken first.
//
// Given byte-identical inputs the merge is fully deterministic: ties on the
// Q-criterion resolve by node-pool position.
package phymerge
