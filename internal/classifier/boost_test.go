package classifier

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/swish-predictor/internal/config"
)

func testModelConfig() config.ModelConfig {
	return config.ModelConfig{
		Estimators:      50,
		MaxDepth:        3,
		LearningRate:    0.1,
		Subsample:       0.8,
		ColsampleByTree: 0.8,
		TrainSplit:      0.8,
		MinTrainingRows: 10,
		Seed:            42,
	}
}

// separableData builds a dataset where the label depends on the sign of the
// first feature; the remaining features are noise.
func separableData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		v := rng.Float64()*2 - 1
		x[i] = []float64{v, rng.Float64(), rng.Float64()}
		if v > 0 {
			y[i] = 1
		}
	}
	return x, y
}

func TestFitLearnsSeparablePattern(t *testing.T) {
	x, y := separableData(400, 7)

	model := NewBoostedTrees(testModelConfig())
	model.Fit(x, y)

	acc := model.Accuracy(x, y)
	assert.Greater(t, acc, 0.95, "should nearly memorize a separable pattern")

	assert.Greater(t, model.PredictProba([]float64{0.9, 0.5, 0.5}), 0.5)
	assert.Less(t, model.PredictProba([]float64{-0.9, 0.5, 0.5}), 0.5)
}

func TestFitIsDeterministicForFixedSeed(t *testing.T) {
	x, y := separableData(200, 11)

	a := NewBoostedTrees(testModelConfig())
	a.Fit(x, y)
	b := NewBoostedTrees(testModelConfig())
	b.Fit(x, y)

	probe := []float64{0.25, 0.1, 0.9}
	assert.Equal(t, a.PredictProba(probe), b.PredictProba(probe))
}

func TestPredictProbaIsAValidProbability(t *testing.T) {
	x, y := separableData(100, 3)
	model := NewBoostedTrees(testModelConfig())
	model.Fit(x, y)

	for _, row := range x {
		p := model.PredictProba(row)
		assert.False(t, math.IsNaN(p))
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestInitialLogOdds(t *testing.T) {
	assert.InDelta(t, 0.0, initialLogOdds([]float64{0, 1, 0, 1}), 1e-9)
	assert.Greater(t, initialLogOdds([]float64{1, 1, 1, 0}), 0.0)
	assert.Less(t, initialLogOdds([]float64{0, 0, 0, 1}), 0.0)
	// Degenerate labels stay finite.
	assert.False(t, math.IsInf(initialLogOdds([]float64{1, 1, 1}), 0))
	assert.False(t, math.IsInf(initialLogOdds([]float64{0, 0, 0}), 0))
}

func TestSampleWithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	got := sampleWithoutReplacement(rng, 10, 4)
	require.Len(t, got, 4)
	seen := make(map[int]bool)
	for _, idx := range got {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 10)
		assert.False(t, seen[idx], "indices must be distinct")
		seen[idx] = true
	}

	// Requesting more than available caps at n.
	got = sampleWithoutReplacement(rng, 3, 10)
	assert.Len(t, got, 3)
}
