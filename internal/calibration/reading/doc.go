// Package reading defines the fixed-shape calibration reading model.
//
// A Reading holds three optional values for one angle of one transmitter and
// stage:
//
//   - DDM: difference in depth of modulation, signed by angle side.
//   - SDM: sum of depth of modulation, never negative.
//   - RF: radio-frequency level, never positive.
//
// Operators always enter magnitudes. Normalize derives each sign from the
// angle policy, so a typed minus sign has no effect. Absent and zero are
// different states: an empty input stays absent.
package reading
