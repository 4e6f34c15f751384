// Package stencil owns the convolution kernel of the AMR benchmark.
//
// Responsibilities: grid buffers, stencil weight tables for the star and
// compact footprints, and tiled/untiled/banded application of the stencil.
// Key types: Grid, Weights, Applier.
//
// Dependency rule: stencil knows nothing about refinements, schedules or
// validation; those live in package amr.
package stencil
