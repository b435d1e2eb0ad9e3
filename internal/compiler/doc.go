// Package compiler turns an audio graph into an ordered render plan.
//
// Compile is a pure function: the same graph and quality produce the same
// plan, byte for byte, regardless of node-table iteration order. Every
// point where ordering could leak into output sorts by node id first
// (ready-queue extraction, input lists, hashing, diagnostics).
//
// The compiler never fails. Malformed graphs - missing nodes, dangling
// outputs, cycles, unbindable sources - degrade to diagnostics entries
// while still producing a usable, deterministic plan. It runs on every
// scrub and seek, so it must never crash the evaluation loop.
package compiler
