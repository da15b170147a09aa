// Package smoothing implements the multi-parameter exponential smoothing of
// the net-flow series.
//
// For each configured decay parameter alpha the engine maintains four running
// sums over the ordered series x_1..x_n:
//
//	S_i   = x_i + (1-a)·S_{i-1}            weighted cumulative value
//	W_i   = 1   + (1-a)·W_{i-1}            weighted cumulative mass
//	Wsq_i = 1   + (1-a)²·Wsq_{i-1}         weighted cumulative squared mass
//	D_i   = (1-a)·D_{i-1} + (1-a)·W_{i-1}/W_i·(x_i - mean_{i-1})²
//
// giving mean_i = S_i/W_i and the bias-corrected variance
// D_i / (W_i - Wsq_i/W_i). Normalizing by the finite weight sum W_i rather
// than the infinite-series limit 1/a keeps early means close to a plain
// running average instead of over-weighting the decay tail. The variance
// denominator is positive only from the second point onward (and never for
// alpha = 1), so the first point of every sequence is dropped.
package smoothing
