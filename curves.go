package popsheet

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Curve is a timing function in gween's form: t is elapsed time, b the
// begin value, c the change and d the duration. Every curve used by an
// Animator must be monotone on [0, d] so that it can be inverted.
type Curve = ease.TweenFunc

// Linear advances at constant speed.
var Linear Curve = ease.Linear

// EaseIn starts slowly and accelerates. Matches the CSS/UIKit ease-in bezier.
var EaseIn = BezierCurve(0.42, 0, 1, 1)

// EaseOut starts quickly and decelerates. Matches the CSS/UIKit ease-out bezier.
var EaseOut = BezierCurve(0, 0, 0.58, 1)

// springStiffness is the natural frequency of CriticallyDamped in units of
// 1/duration. At 8 the unnormalised spring is within 0.3% of rest at t = d.
const springStiffness = 8.0

// CriticallyDamped is a spring with damping ratio 1: the fastest approach to
// the target with no overshoot. The response is normalised so that it lands
// exactly on b+c at t = d.
func CriticallyDamped(t, b, c, d float32) float32 {
	if d <= 0 || t >= d {
		return b + c
	}
	if t <= 0 {
		return b
	}
	x := float64(t / d)
	w := springStiffness
	v := 1 - (1+w*x)*math.Exp(-w*x)
	norm := 1 - (1+w)*math.Exp(-w)
	return b + c*float32(v/norm)
}

// BezierCurve returns a cubic-bezier timing function matching CSS
// cubic-bezier(x1, y1, x2, y2). The curve starts at (0,0) and ends at (1,1).
func BezierCurve(x1, y1, x2, y2 float64) Curve {
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		p := solveBezier(x1, y1, x2, y2, float64(t/d))
		return b + c*float32(p)
	}
}

// solveBezier finds y for the given x on the bezier. Newton-Raphson converges
// quickly for most values; bisection backs it up.
func solveBezier(x1, y1, x2, y2, x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}

	u := x
	for range 8 {
		dx := sampleBezier(x1, x2, u) - x
		if math.Abs(dx) < 1e-7 {
			return sampleBezier(y1, y2, clamp01(u))
		}
		deriv := sampleBezierDerivative(x1, x2, u)
		if math.Abs(deriv) < 1e-7 {
			break
		}
		u -= dx / deriv
	}

	lo, hi := 0.0, 1.0
	u = clamp01(u)
	for range 24 {
		dx := sampleBezier(x1, x2, u) - x
		if math.Abs(dx) < 1e-7 {
			break
		}
		if dx > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) * 0.5
	}
	return sampleBezier(y1, y2, u)
}

func sampleBezier(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleBezierDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

// evalCurve evaluates a curve on the unit interval.
func evalCurve(fn Curve, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return float64(fn(float32(t), 0, 1, 1))
}

// invertCurve returns t such that evalCurve(fn, t) == y, by bisection.
func invertCurve(fn Curve, y float64) float64 {
	if y <= 0 {
		return 0
	}
	if y >= 1 {
		return 1
	}
	lo, hi := 0.0, 1.0
	for range 40 {
		mid := (lo + hi) * 0.5
		if evalCurve(fn, mid) < y {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) * 0.5
}
