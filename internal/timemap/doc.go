// Package timemap converts between timeline time and source-material time
// with sample-accurate, reproducible arithmetic.
//
// Everything here is pure value math: no graph knowledge, no I/O, no
// allocation beyond return values. The one rounding rule that quantizes
// seconds to samples (round half away from zero) lives in Clock and is
// used by every conversion in the module so results stay bit-identical
// across components, machines, and runs.
//
// Key design constraints:
//   - Functions return ("no sample", false) instead of panicking or
//     erroring, even for malformed rates and speeds. Callers decide
//     whether "no sample" means silence or hold-last-sample.
//   - Construction clamps invariant violations (negative sample counts,
//     inverted ranges); use-time code may assume normalized values.
//   - Loop wrapping is exact integer arithmetic. No floating point.
package timemap
