// Package timeline evaluates project state into audio routing graphs.
//
// Evaluate is a pure function of (project, instant): it inspects tracks,
// clips, automation and mute/solo state and emits one immutable Graph
// describing everything audible at that instant. Node ids are derived
// from clip ids with fixed per-purpose salts, so re-evaluating the same
// project state at the same time yields byte-identical graphs.
//
// The package also defines the consumed project model. It is a plain
// value model with no persistence attached; the CLI's CUE loader and the
// test harness construct it.
package timeline
