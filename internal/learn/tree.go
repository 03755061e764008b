package learn

import (
	"cmp"
	"container/heap"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// minSplitGain is the smallest squared-error reduction worth a split.
const minSplitGain = 1e-9

// treeNode is a node of a RegressionTree. Leaves have Left == Right == -1.
type treeNode struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     float64
}

func (n treeNode) isLeaf() bool {
	return n.Left < 0
}

// RegressionTree is a binary tree of threshold tests on single features.
// Node 0 is the root. x[Feature] <= Threshold goes left.
type RegressionTree struct {
	Nodes []treeNode
}

// Predict returns the value of the leaf x falls into.
func (t *RegressionTree) Predict(x []float64) float64 {
	i := 0
	for !t.Nodes[i].isLeaf() {
		n := t.Nodes[i]
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
	return t.Nodes[i].Value
}

// Leaves counts the leaf nodes.
func (t *RegressionTree) Leaves() int {
	count := 0
	for _, n := range t.Nodes {
		if n.isLeaf() {
			count++
		}
	}
	return count
}

// splitDetails describes the best split found for a set of rows.
type splitDetails struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// leafCandidate is a leaf that may still be split.
type leafCandidate struct {
	node  int
	split splitDetails
}

// leafQueue orders candidates by descending gain, then by node index so the
// growth order is deterministic.
type leafQueue []*leafCandidate

func (q leafQueue) Len() int { return len(q) }

func (q leafQueue) Less(i, j int) bool {
	if q[i].split.gain != q[j].split.gain {
		return q[i].split.gain > q[j].split.gain
	}
	return q[i].node < q[j].node
}

func (q leafQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *leafQueue) Push(x any) { *q = append(*q, x.(*leafCandidate)) }

func (q *leafQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// treeGrower fits one regression tree to residual targets.
type treeGrower struct {
	features     *mat.Dense
	targets      []float64
	maxLeaves    int
	minLeaf      int
	learningRate float64
}

// grow builds a tree over rows, splitting the highest-gain leaf first until
// maxLeaves is reached or no leaf can be split. Leaf values are the mean
// target of their rows scaled by the learning rate.
func (g *treeGrower) grow(rows []int) *RegressionTree {
	tree := &RegressionTree{}
	root := g.addLeaf(tree, rows)

	queue := leafQueue{}
	if split, ok := g.bestSplit(rows); ok {
		heap.Push(&queue, &leafCandidate{node: root, split: split})
	}

	leaves := 1
	for leaves < g.maxLeaves && queue.Len() > 0 {
		next := heap.Pop(&queue).(*leafCandidate)

		left := g.addLeaf(tree, next.split.left)
		right := g.addLeaf(tree, next.split.right)
		n := &tree.Nodes[next.node]
		n.Feature = next.split.feature
		n.Threshold = next.split.threshold
		n.Left, n.Right = left, right
		leaves++

		if split, ok := g.bestSplit(next.split.left); ok {
			heap.Push(&queue, &leafCandidate{node: left, split: split})
		}
		if split, ok := g.bestSplit(next.split.right); ok {
			heap.Push(&queue, &leafCandidate{node: right, split: split})
		}
	}

	return tree
}

func (g *treeGrower) addLeaf(tree *RegressionTree, rows []int) int {
	sum := 0.0
	for _, r := range rows {
		sum += g.targets[r]
	}
	value := 0.0
	if len(rows) > 0 {
		value = g.learningRate * sum / float64(len(rows))
	}
	tree.Nodes = append(tree.Nodes, treeNode{Feature: -1, Left: -1, Right: -1, Value: value})
	return len(tree.Nodes) - 1
}

// bestSplit searches every feature for the threshold maximising
// SL²/nL + SR²/nR - S²/n, keeping at least minLeaf rows on each side.
func (g *treeGrower) bestSplit(rows []int) (splitDetails, bool) {
	n := len(rows)
	if n < 2*g.minLeaf {
		return splitDetails{}, false
	}

	total := 0.0
	for _, r := range rows {
		total += g.targets[r]
	}
	parentScore := total * total / float64(n)

	_, cols := g.features.Dims()
	best := splitDetails{feature: -1, gain: minSplitGain}
	bestAt := -1
	var bestOrder []int

	sorted := make([]int, n)
	for j := range cols {
		copy(sorted, rows)
		slices.SortFunc(sorted, func(a, b int) int {
			if c := cmp.Compare(g.features.At(a, j), g.features.At(b, j)); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})

		leftSum := 0.0
		for k := 1; k < n; k++ {
			leftSum += g.targets[sorted[k-1]]
			if k < g.minLeaf || n-k < g.minLeaf {
				continue
			}
			lo, hi := g.features.At(sorted[k-1], j), g.features.At(sorted[k], j)
			if lo == hi {
				continue
			}

			rightSum := total - leftSum
			gain := leftSum*leftSum/float64(k) + rightSum*rightSum/float64(n-k) - parentScore
			if gain > best.gain {
				best = splitDetails{feature: j, threshold: lo + (hi-lo)/2, gain: gain}
				bestAt = k
				bestOrder = slices.Clone(sorted)
			}
		}
	}

	if best.feature < 0 {
		return splitDetails{}, false
	}

	best.left = slices.Clone(bestOrder[:bestAt])
	best.right = slices.Clone(bestOrder[bestAt:])
	slices.Sort(best.left)
	slices.Sort(best.right)
	return best, true
}
