// Package analysis looks at recorded force samples in the frequency domain.
//
// Samples are indexed by tick, so every frequency here is in cycles per
// tick:
//
//	s := analysis.Analyze(values, 1)
//	fmt.Printf("period: %.1f ticks\n", s.Period())
package analysis
