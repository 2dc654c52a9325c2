// Package classifier implements a gradient-boosted decision tree binary
// classifier and the chronological training protocol used to fit it.
package classifier

import "sort"

// node is one node of a regression tree fit to the boosting gradients.
type node struct {
	leaf      bool
	value     float64 // leaf weight (Newton step), already unscaled
	feature   int
	threshold float64
	left      *node
	right     *node
}

func (n *node) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] < n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeParams bound the greedy tree construction.
type treeParams struct {
	maxDepth      int
	minLeafWeight float64 // minimum hessian sum per leaf
	lambda        float64 // L2 regularization on leaf weights
}

// buildTree grows a regression tree over the sampled rows, choosing splits
// that maximize the regularized gain on the gradient statistics.
func buildTree(samples []int, x [][]float64, grad, hess []float64, features []int, depth int, p treeParams) *node {
	gSum, hSum := 0.0, 0.0
	for _, i := range samples {
		gSum += grad[i]
		hSum += hess[i]
	}

	if depth >= p.maxDepth || len(samples) < 2 {
		return leafNode(gSum, hSum, p.lambda)
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	parentScore := gSum * gSum / (hSum + p.lambda)

	for _, f := range features {
		gain, threshold, ok := bestSplitForFeature(samples, x, grad, hess, f, gSum, hSum, parentScore, p)
		if ok && gain > bestGain {
			bestGain = gain
			bestFeature = f
			bestThreshold = threshold
		}
	}

	if bestFeature < 0 {
		return leafNode(gSum, hSum, p.lambda)
	}

	var left, right []int
	for _, i := range samples {
		if x[i][bestFeature] < bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leafNode(gSum, hSum, p.lambda)
	}

	return &node{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      buildTree(left, x, grad, hess, features, depth+1, p),
		right:     buildTree(right, x, grad, hess, features, depth+1, p),
	}
}

// bestSplitForFeature scans the sorted values of one feature for the split
// with the highest regularized gain.
func bestSplitForFeature(samples []int, x [][]float64, grad, hess []float64, f int, gSum, hSum, parentScore float64, p treeParams) (gain, threshold float64, ok bool) {
	order := make([]int, len(samples))
	copy(order, samples)
	sort.Slice(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })

	gLeft, hLeft := 0.0, 0.0
	for k := 0; k < len(order)-1; k++ {
		i := order[k]
		gLeft += grad[i]
		hLeft += hess[i]

		// Only split between distinct values.
		cur, next := x[i][f], x[order[k+1]][f]
		if cur == next {
			continue
		}

		hRight := hSum - hLeft
		if hLeft < p.minLeafWeight || hRight < p.minLeafWeight {
			continue
		}

		gRight := gSum - gLeft
		score := gLeft*gLeft/(hLeft+p.lambda) + gRight*gRight/(hRight+p.lambda) - parentScore
		if score > gain {
			gain = score
			threshold = (cur + next) / 2
			ok = true
		}
	}
	return gain, threshold, ok
}

func leafNode(gSum, hSum, lambda float64) *node {
	return &node{leaf: true, value: -gSum / (hSum + lambda)}
}
