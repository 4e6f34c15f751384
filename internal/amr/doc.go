// Package amr owns the adaptive-mesh-refinement layer of the benchmark.
//
// Responsibilities: run parameters and their validation, the fixed corner
// layout of the four refinements, the round-robin refinement schedule,
// background-to-refinement interpolation, the analytic L1 norm check and
// the FLOP accounting, tied together by Simulation.
// Key types: Params, Layout, Step, Patch, Simulation, Result.
//
// Dependency rule: amr builds on stencil for grids and kernels. No SQL,
// plotting or CLI code is allowed in this package.
package amr
