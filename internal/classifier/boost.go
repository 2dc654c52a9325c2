package classifier

import (
	"math"
	"math/rand"

	"github.com/yourusername/swish-predictor/internal/config"
)

// BoostedTrees is a gradient-boosted tree ensemble trained with logistic
// loss. Training is deterministic for a fixed seed.
type BoostedTrees struct {
	cfg       config.ModelConfig
	trees     []*node
	baseScore float64 // initial log-odds
}

// NewBoostedTrees creates an untrained ensemble with the given configuration.
func NewBoostedTrees(cfg config.ModelConfig) *BoostedTrees {
	return &BoostedTrees{cfg: cfg}
}

// Fit trains the ensemble on the given feature matrix and 0/1 labels.
// Row and column subsampling follow the configured fractions; each round
// fits one depth-bounded tree to the current gradient statistics.
func (b *BoostedTrees) Fit(x [][]float64, y []float64) {
	rng := rand.New(rand.NewSource(b.cfg.Seed))
	n := len(x)
	numFeatures := len(x[0])

	b.baseScore = initialLogOdds(y)
	b.trees = b.trees[:0]

	params := treeParams{
		maxDepth:      b.cfg.MaxDepth,
		minLeafWeight: 1e-3,
		lambda:        1.0,
	}

	// Raw scores accumulated across rounds.
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = b.baseScore
	}

	grad := make([]float64, n)
	hess := make([]float64, n)

	rowSample := int(math.Round(b.cfg.Subsample * float64(n)))
	if rowSample < 1 {
		rowSample = 1
	}
	colSample := int(math.Round(b.cfg.ColsampleByTree * float64(numFeatures)))
	if colSample < 1 {
		colSample = 1
	}

	for round := 0; round < b.cfg.Estimators; round++ {
		for i := range x {
			p := sigmoid(scores[i])
			grad[i] = p - y[i]
			hess[i] = p * (1 - p)
		}

		samples := sampleWithoutReplacement(rng, n, rowSample)
		features := sampleWithoutReplacement(rng, numFeatures, colSample)

		tree := buildTree(samples, x, grad, hess, features, 0, params)
		b.trees = append(b.trees, tree)

		for i := range x {
			scores[i] += b.cfg.LearningRate * tree.predict(x[i])
		}
	}
}

// PredictProba returns the probability of the positive class for one row.
func (b *BoostedTrees) PredictProba(x []float64) float64 {
	score := b.baseScore
	for _, tree := range b.trees {
		score += b.cfg.LearningRate * tree.predict(x)
	}
	return sigmoid(score)
}

// Accuracy evaluates classification accuracy at the 0.5 threshold.
func (b *BoostedTrees) Accuracy(x [][]float64, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	correct := 0
	for i, row := range x {
		pred := 0.0
		if b.PredictProba(row) > 0.5 {
			pred = 1.0
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(x))
}

func initialLogOdds(y []float64) float64 {
	pos := 0.0
	for _, v := range y {
		pos += v
	}
	rate := pos / float64(len(y))
	// Clamp away from the degenerate all-one / all-zero case.
	const eps = 1e-6
	rate = math.Min(1-eps, math.Max(eps, rate))
	return math.Log(rate / (1 - rate))
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// sampleWithoutReplacement draws k distinct indices from [0, n) via a
// partial Fisher-Yates shuffle. Returned indices are in shuffled order.
func sampleWithoutReplacement(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices[:k]
}
