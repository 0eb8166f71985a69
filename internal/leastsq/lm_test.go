package leastsq

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// TestFitCircleCenter checks that LM can recover the point equidistant
// (distance 1) from three anchors, the same shape of problem AtomRelax
// solves for a candidate atom position.
func TestFitCircleCenter(t *testing.T) {
	anchors := [][3]float64{
		{-0.5, -0.2886751345948129, 0},
		{0.5, -0.2886751345948129, 0},
		{0, 0.5773502691896258, 0},
	}
	target := 1.0

	prob := Problem{
		NParams: 3,
		Residuals: func(p []float64) ([]float64, *mat.Dense) {
			r := make([]float64, len(anchors))
			jac := mat.NewDense(len(anchors), 3, nil)
			for i, a := range anchors {
				dx, dy, dz := p[0]-a[0], p[1]-a[1], p[2]-a[2]
				d := math.Sqrt(dx*dx + dy*dy + dz*dz)
				r[i] = d - target
				if d > 1e-12 {
					jac.Set(i, 0, dx/d)
					jac.Set(i, 1, dy/d)
					jac.Set(i, 2, dz/d)
				}
			}
			return r, jac
		},
	}

	res := LevenbergMarquardt(prob, []float64{1, 2, 3}, 20, 500, 1e-16, 1e-12)
	want := []float64{0, 0, math.Sqrt(2.0 / 3.0)}
	for i := range want {
		if math.Abs(res.P[i]-want[i]) > 1e-5 {
			t.Errorf("P[%d] = %f, want %f (result %+v)", i, res.P[i], want[i], res)
		}
	}
}
