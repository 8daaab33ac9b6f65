package exponent

const (
	seriesLn  = "ln"
	seriesExp = "exp"
	seriesCos = "cos"
)

// sum accumulates weight*term(n) for n = 0, 1, 2, ... It stops when a new
// term is within the tolerance of the term before it (the first term is
// compared against cfg.InitialPrevious), or once n exceeds cfg.MaxIterations.
// The term that triggers the stop is not added.
func sum(cfg Config, series string, weight float64, term func(n int) float64) float64 {
	var total float64
	prev := cfg.InitialPrevious
	capped := false
	n := 0
	for ; ; n++ {
		if n > cfg.MaxIterations {
			capped = true
			break
		}
		curr := term(n)
		if d := prev - curr; d < cfg.Tolerance && d > -cfg.Tolerance {
			break
		}
		total += weight * curr
		prev = curr
	}
	cfg.observe(SeriesStats{
		Series: series,
		Terms:  n,
		Capped: capped,
		Value:  total,
	})
	return total
}
