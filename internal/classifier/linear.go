package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TrainLinear fits an L2-regularized least-squares linear classifier.
//
// Labels are binary (0 or 1) and are mapped to -1/+1 targets, so the decision
// value w.x + b is positive on the side of the 1-labeled samples. Features are
// standardized internally for conditioning and the solved weights are mapped
// back to the raw feature space before returning.
//
// The fit is a closed-form QR solve with no randomness: the same samples,
// labels and lambda always produce the same model.
func TrainLinear(samples [][]float64, labels []int, lambda float64) (*LinearModel, error) {
	n := len(samples)
	if n == 0 {
		return nil, fmt.Errorf("no training samples")
	}
	if len(labels) != n {
		return nil, fmt.Errorf("sample/label count mismatch: %d vs %d", n, len(labels))
	}
	d := len(samples[0])
	if d == 0 {
		return nil, fmt.Errorf("empty feature vectors")
	}
	for i, s := range samples {
		if len(s) != d {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(s), d)
		}
	}
	if lambda <= 0 {
		return nil, fmt.Errorf("lambda must be positive, got %v", lambda)
	}

	// Per-feature standardization. A zero-variance feature contributes
	// nothing to separation; its scale is forced to 1 to keep the solve
	// well defined.
	mean := make([]float64, d)
	scale := make([]float64, d)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			col[i] = samples[i][j]
		}
		m, s := stat.MeanStdDev(col, nil)
		if s == 0 || math.IsNaN(s) {
			s = 1
		}
		mean[j] = m
		scale[j] = s
	}

	// Overdetermined ridge system: n sample rows over [features | 1], then
	// d penalty rows sqrt(lambda)*I on the weights only (bias unpenalized).
	A := mat.NewDense(n+d, d+1, nil)
	B := mat.NewVecDense(n+d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			A.Set(i, j, (samples[i][j]-mean[j])/scale[j])
		}
		A.Set(i, d, 1)
		if labels[i] != 0 {
			B.SetVec(i, 1)
		} else {
			B.SetVec(i, -1)
		}
	}
	sqrtLambda := math.Sqrt(lambda)
	for j := 0; j < d; j++ {
		A.Set(n+j, j, sqrtLambda)
	}

	var qr mat.QR
	qr.Factorize(A)

	var params mat.VecDense
	if err := qr.SolveVecTo(&params, false, B); err != nil {
		return nil, fmt.Errorf("solve linear system: %w", err)
	}

	// Undo the standardization so the model applies to raw features.
	weights := make([]float64, d)
	bias := params.AtVec(d)
	for j := 0; j < d; j++ {
		weights[j] = params.AtVec(j) / scale[j]
		bias -= params.AtVec(j) * mean[j] / scale[j]
	}

	return &LinearModel{Weights: weights, Bias: bias}, nil
}
