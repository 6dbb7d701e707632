package forest

import "math"

// Scaler holds per-feature centering and scaling parameters. It is fitted
// once during training and persisted with the classifier artifact; inference
// must transform raw features through it before the decision function sees
// them (train/serve parity).
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// FitScaler computes per-column mean and population standard deviation
func FitScaler(X [][]float64) *Scaler {
	if len(X) == 0 {
		return &Scaler{}
	}
	dims := len(X[0])
	s := &Scaler{Mean: make([]float64, dims), Std: make([]float64, dims)}

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range s.Mean {
		s.Mean[j] /= n
	}
	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
	}
	return s
}

// Transform returns (x - mean) / std per feature. Constant features (std 0)
// map to 0 rather than NaN.
func (s *Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range x {
		if j >= len(s.Mean) {
			out[j] = v
			continue
		}
		if s.Std[j] == 0 {
			out[j] = 0
			continue
		}
		out[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return out
}
