package analysis

// Spectrum is the power spectrum of a sample series.
type Spectrum struct {
	// Power[i] is the magnitude at frequency i/N cycles per sample.
	Power []float64
	N     int
	// Step is the number of ticks between two samples.
	Step float64
	Peak int
}

// Analyze removes the mean from values, zero-pads them to a power of two
// and finds the strongest non-zero frequency. step is the tick distance
// between samples.
func Analyze(values []float64, step float64) Spectrum {
	if step <= 0 {
		step = 1
	}
	n := nextPow2(len(values))
	if n < 2 {
		return Spectrum{N: n, Step: step}
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	padded := make([]float64, n)
	for i, v := range values {
		padded[i] = v - mean
	}

	ps := PowerSpectrum(padded)
	peak := 0
	for i := 1; i < len(ps); i++ {
		if peak == 0 || ps[i] > ps[peak] {
			peak = i
		}
	}
	if peak > 0 && ps[peak] == 0 {
		peak = 0
	}
	return Spectrum{Power: ps, N: n, Step: step, Peak: peak}
}

// Frequency of the peak, in cycles per tick.
func (s Spectrum) Frequency() float64 {
	if s.N == 0 || s.Peak == 0 {
		return 0
	}
	return float64(s.Peak) / (float64(s.N) * s.Step)
}

// Period of the peak in ticks, or 0 when there is no oscillation.
func (s Spectrum) Period() float64 {
	f := s.Frequency()
	if f == 0 {
		return 0
	}
	return 1 / f
}
