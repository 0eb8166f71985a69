/*
 * lm.go, part of liga.
 *
 * Copyright 2026 The liga authors.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 */

// Package leastsq is the nonlinear least-squares solver AtomRelax needs.
// There is no off-the-shelf Go Levenberg-Marquardt implementation among
// gonum's packages (gonum/optimize ships gradient/quasi-Newton minimizers,
// not a residual+Jacobian LM solver), so this package implements the
// classic damped Gauss-Newton step directly on top of gonum/mat, the same
// way a dedicated SVD-based superposition solver would be built directly
// on gonum/mat rather than reaching for a higher-level fitting package.
package leastsq

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Problem is a small (3-unknown, for atom relaxation) nonlinear
// least-squares problem: given parameters p, Residuals returns the
// residual vector r(p) and its Jacobian dr/dp.
type Problem struct {
	NParams int
	// Residuals evaluates r(p) and returns it alongside the Jacobian,
	// one row per residual, NParams columns.
	Residuals func(p []float64) (r []float64, jac *mat.Dense)
}

// Result reports the outcome of one LevenbergMarquardt call.
type Result struct {
	P         []float64
	Cost      float64 // 0.5 * sum(r^2)
	Iters     int
	Converged bool
}

// LevenbergMarquardt minimizes 0.5*||r(p)||^2 starting from p0, for up to
// maxOuter damped Gauss-Newton steps, each of which may probe the damping
// factor for up to maxInner trials. It stops when the cost stops strictly
// improving, when the cost drops below epsCost, or when the gradient test
// ||J^T r|| < epsGrad passes — the stop conditions AtomRelax needs.
func LevenbergMarquardt(prob Problem, p0 []float64, maxOuter, maxInner int, epsCost, epsGrad float64) Result {
	p := append([]float64(nil), p0...)
	r, jac := prob.Residuals(p)
	cost := sumSquares(r) * 0.5
	lambda := 1e-3

	res := Result{P: p, Cost: cost}
	if cost < epsCost {
		res.Converged = true
		return res
	}

	n := prob.NParams
	for outer := 0; outer < maxOuter; outer++ {
		jt := jac.T()
		jtj := mat.NewDense(n, n, nil)
		jtj.Mul(jt, jac)
		jtr := mat.NewVecDense(n, nil)
		rv := mat.NewVecDense(len(r), r)
		jtr.MulVec(jt, rv)

		if jtr.Norm(2) < epsGrad {
			res.Converged = true
			res.Iters = outer
			return res
		}

		improved := false
		for inner := 0; inner < maxInner; inner++ {
			damped := mat.NewDense(n, n, nil)
			damped.Copy(jtj)
			for i := 0; i < n; i++ {
				damped.Set(i, i, damped.At(i, i)+lambda*jtj.At(i, i)+1e-15)
			}
			var delta mat.VecDense
			if err := delta.SolveVec(damped, jtr); err != nil {
				lambda *= 10
				continue
			}
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = p[i] - delta.AtVec(i)
			}
			tr, tjac := prob.Residuals(trial)
			tcost := sumSquares(tr) * 0.5
			if tcost < cost {
				p = trial
				r, jac = tr, tjac
				cost = tcost
				lambda = math.Max(lambda/10, 1e-12)
				improved = true
				break
			}
			lambda *= 10
			if lambda > 1e12 {
				break
			}
		}
		res.P = p
		res.Cost = cost
		res.Iters = outer + 1
		if !improved {
			return res
		}
		if cost < epsCost {
			res.Converged = true
			return res
		}
	}
	return res
}

func sumSquares(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	return s
}
