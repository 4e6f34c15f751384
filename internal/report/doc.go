// Package report renders the outcome of a benchmark run: the text banner
// and verdict on a terminal, timing statistics, an HTML chart of the
// per-iteration timings and a PNG heatmap of a grid.
package report
