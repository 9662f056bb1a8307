package model

import "gonum.org/v1/gonum/mat"

// Classifier is a supervised classifier over dense feature rows with integer
// class labels in [0, k).
type Classifier interface {
	Fit(X mat.Matrix, y []int) error
	Predict(X mat.Matrix) ([]int, error)
	// PredictProba returns one row per sample and one column per class.
	PredictProba(X mat.Matrix) (*mat.Dense, error)
}
