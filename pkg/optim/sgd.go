package optim

// Optimizer updates a set of parameter slices in place from their gradients.
// params and grads are parallel: grads[i] is the gradient of params[i].
type Optimizer interface {
	Step(params, grads [][]float64)
}

// Stochastic Gradient Descent optimizer with learning rate
type SGD struct{ LearningRate float64 }

func NewSGD(lr float64) *SGD { return &SGD{LearningRate: lr} }

func (o *SGD) Step(params, grads [][]float64) { // in-place update
	for k, weights := range params {
		g := grads[k]
		for i := range weights {
			weights[i] -= o.LearningRate * g[i]
		}
	}
}
