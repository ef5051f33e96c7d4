package kernel

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// FittedPoint is one (year, fitted cumulative value) pair of a rendered
// S-curve.
type FittedPoint struct {
	Year   int
	Fitted float64
}

// SCurveFit is the outcome of fitting one growth-curve family to a
// cumulative time series.
type SCurveFit struct {
	Model           string // "Logistic" or "Gompertz"
	L               float64
	K               float64
	X0              float64
	B               float64 // Gompertz only; zero for Logistic
	RSquared        float64
	MaturityPercent float64
	FittedValues    []FittedPoint
}

// box is an inclusive parameter bound used to reparameterize a constrained
// least-squares problem into an unconstrained one via a sigmoid transform,
// the same trick scipy's trf method applies internally — gonum's optimize
// package has no native bounded solver, so the bound is folded into the
// objective instead of being handed to the minimizer directly.
type box struct{ lo, hi float64 }

func (b box) fromUnconstrained(u float64) float64 {
	return b.lo + (b.hi-b.lo)/(1.0+math.Exp(-u))
}

func (b box) toUnconstrained(x float64) float64 {
	frac := (x - b.lo) / (b.hi - b.lo)
	frac = clamp(frac, 1e-9, 1-1e-9)
	return math.Log(frac / (1 - frac))
}

// FitSCurve fits the logistic model L / (1 + exp(-k*(x-x0))) to the
// cumulative series by bounded least squares. Requires at least 3 points
// and a positive final cumulative value; returns nil when either
// precondition fails or the minimizer returns no result. A fit is not
// rejected for a poor residual; RSquared reports its quality.
func FitSCurve(years []int, cumulative []float64) *SCurveFit {
	if len(years) < 3 || len(cumulative) < 3 || cumulative[len(cumulative)-1] <= 0 {
		return nil
	}

	yMax := cumulative[len(cumulative)-1]
	sat0, k0, x0Init := estimateInitialParams(years, cumulative, yMax)

	bounds := []box{
		{lo: yMax * 0.5, hi: yMax * 10.0},
		{lo: 0.001, hi: 5.0},
		{lo: float64(years[0]) - 10.0, hi: float64(years[len(years)-1]) + 10.0},
	}
	p0 := []float64{sat0, k0, x0Init}

	model := func(params []float64, x float64) float64 {
		L, k, x0 := params[0], params[1], params[2]
		return L / (1.0 + math.Exp(-k*(x-x0)))
	}

	popt, ok := fitBounded(years, cumulative, bounds, p0, model)
	if !ok {
		return nil
	}

	fitted := evaluateSeries(years, popt, model)
	rSquared := computeRSquared(cumulative, fitted)
	maturityPercent := 0.0
	if popt[0] > 0 {
		maturityPercent = math.Min((cumulative[len(cumulative)-1]/popt[0])*100.0, 100.0)
	}

	return &SCurveFit{
		Model:           "Logistic",
		L:               roundTo(popt[0], 2),
		K:               roundTo(popt[1], 6),
		X0:              roundTo(popt[2], 2),
		RSquared:        roundTo(rSquared, 4),
		MaturityPercent: roundTo(maturityPercent, 2),
		FittedValues:    toFittedPoints(years, fitted),
	}
}

// FitGompertz fits the asymmetric Gompertz model
// L * exp(-b * exp(-k*(x-x0))) to the cumulative series. Same preconditions
// as FitSCurve.
func FitGompertz(years []int, cumulative []float64) *SCurveFit {
	if len(years) < 3 || len(cumulative) < 3 || cumulative[len(cumulative)-1] <= 0 {
		return nil
	}

	yMax := cumulative[len(cumulative)-1]
	sat0 := yMax * 1.5
	if yMax <= 0 {
		sat0 = 1.0
	}
	b0 := 5.0
	idx10 := nearestIndex(cumulative, sat0*0.1)
	idx90 := nearestIndex(cumulative, sat0*0.9)
	width := float64(years[idx90] - years[idx10])
	k0 := 0.3
	if width > 0 {
		k0 = 4.0 / width
	}
	x0Init := float64(years[0])

	bounds := []box{
		{lo: yMax * 0.5, hi: yMax * 10.0},
		{lo: 0.1, hi: 50.0},
		{lo: 0.001, hi: 5.0},
		{lo: float64(years[0]) - 10.0, hi: float64(years[len(years)-1]) + 10.0},
	}
	p0 := []float64{sat0, b0, k0, x0Init}

	model := func(params []float64, x float64) float64 {
		L, b, k, x0 := params[0], params[1], params[2], params[3]
		return L * math.Exp(-b*math.Exp(-k*(x-x0)))
	}

	popt, ok := fitBounded(years, cumulative, bounds, p0, model)
	if !ok {
		return nil
	}

	fitted := evaluateSeries(years, popt, model)
	rSquared := computeRSquared(cumulative, fitted)
	maturityPercent := 0.0
	if popt[0] > 0 {
		maturityPercent = math.Min((cumulative[len(cumulative)-1]/popt[0])*100.0, 100.0)
	}

	return &SCurveFit{
		Model:           "Gompertz",
		L:               roundTo(popt[0], 2),
		B:               roundTo(popt[1], 4),
		K:               roundTo(popt[2], 6),
		X0:              roundTo(popt[3], 2),
		RSquared:        roundTo(rSquared, 4),
		MaturityPercent: roundTo(maturityPercent, 2),
		FittedValues:    toFittedPoints(years, fitted),
	}
}

// FitBestModel fits both the logistic and Gompertz families and returns
// whichever converged with the higher R²; falls back to whichever one
// converged if only one did, and returns nil if neither did.
func FitBestModel(years []int, cumulative []float64) *SCurveFit {
	logistic := FitSCurve(years, cumulative)
	gompertz := FitGompertz(years, cumulative)

	switch {
	case logistic == nil && gompertz == nil:
		return nil
	case logistic == nil:
		return gompertz
	case gompertz == nil:
		return logistic
	case gompertz.RSquared > logistic.RSquared:
		return gompertz
	default:
		return logistic
	}
}

func estimateInitialParams(years []int, cumulative []float64, yMax float64) (sat0, k0, x0 float64) {
	sat0 = yMax * 1.5
	if yMax <= 0 {
		sat0 = 1.0
	}
	halfSat := sat0 / 2.0
	idxMid := nearestIndex(cumulative, halfSat)
	x0 = float64(years[idxMid])

	idx10 := nearestIndex(cumulative, sat0*0.1)
	idx90 := nearestIndex(cumulative, sat0*0.9)
	width := float64(years[idx90] - years[idx10])
	k0 = 0.5
	if width > 0 {
		k0 = 4.0 / width
	}
	return sat0, k0, x0
}

func nearestIndex(series []float64, target float64) int {
	best := 0
	bestDist := math.Abs(series[0] - target)
	for i, v := range series {
		d := math.Abs(v - target)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// fitBounded minimizes the sum of squared residuals between model(params,x)
// and the observed series over the given box constraints, starting from
// p0, via gonum's derivative-free Nelder-Mead method operating in an
// unconstrained reparameterized space.
func fitBounded(years []int, observed []float64, bounds []box, p0 []float64, model func([]float64, float64) float64) ([]float64, bool) {
	x := make([]float64, len(years))
	for i, y := range years {
		x[i] = float64(y)
	}

	u0 := make([]float64, len(p0))
	for i, b := range bounds {
		u0[i] = b.toUnconstrained(p0[i])
	}

	objective := func(u []float64) float64 {
		params := make([]float64, len(u))
		for i, b := range bounds {
			params[i] = b.fromUnconstrained(u[i])
		}
		var sumSq float64
		for i, xi := range x {
			r := observed[i] - model(params, xi)
			sumSq += r * r
		}
		return sumSq
	}

	problem := optimize.Problem{Func: objective}
	result, err := optimize.Minimize(problem, u0, &optimize.Settings{MaxIterations: 5000}, &optimize.NelderMead{})
	if err != nil && result == nil {
		return nil, false
	}

	params := make([]float64, len(bounds))
	for i, b := range bounds {
		params[i] = b.fromUnconstrained(result.X[i])
	}
	return params, true
}

func evaluateSeries(years []int, params []float64, model func([]float64, float64) float64) []float64 {
	out := make([]float64, len(years))
	for i, y := range years {
		out[i] = model(params, float64(y))
	}
	return out
}

func computeRSquared(observed, fitted []float64) float64 {
	var mean float64
	for _, v := range observed {
		mean += v
	}
	mean /= float64(len(observed))

	var ssRes, ssTot float64
	for i, v := range observed {
		ssRes += (v - fitted[i]) * (v - fitted[i])
		ssTot += (v - mean) * (v - mean)
	}
	if ssTot <= 0 {
		return 0
	}
	return 1.0 - ssRes/ssTot
}

func toFittedPoints(years []int, fitted []float64) []FittedPoint {
	points := make([]FittedPoint, len(years))
	for i, y := range years {
		points[i] = FittedPoint{Year: y, Fitted: roundTo(fitted[i], 1)}
	}
	return points
}
