package optim

import "math"

// Adam optimizer (Kingma & Ba) with the usual defaults for the decay rates.
type Adam struct {
	LearningRate float64
	Beta1        float64
	Beta2        float64
	Epsilon      float64

	t    int
	m, v [][]float64
}

func NewAdam(lr float64) *Adam {
	return &Adam{LearningRate: lr, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-8}
}

func (o *Adam) Step(params, grads [][]float64) {
	if o.m == nil {
		o.m = make([][]float64, len(params))
		o.v = make([][]float64, len(params))
		for k, p := range params {
			o.m[k] = make([]float64, len(p))
			o.v[k] = make([]float64, len(p))
		}
	}
	o.t++
	c1 := 1 - math.Pow(o.Beta1, float64(o.t))
	c2 := 1 - math.Pow(o.Beta2, float64(o.t))
	lr := o.LearningRate * math.Sqrt(c2) / c1
	for k, w := range params {
		g, m, v := grads[k], o.m[k], o.v[k]
		for i := range w {
			m[i] = o.Beta1*m[i] + (1-o.Beta1)*g[i]
			v[i] = o.Beta2*v[i] + (1-o.Beta2)*g[i]*g[i]
			w[i] -= lr * m[i] / (math.Sqrt(v[i]) + o.Epsilon)
		}
	}
}
