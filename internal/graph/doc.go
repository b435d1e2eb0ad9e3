// Package graph provides the audio routing graph model shared by the
// timeline evaluator and the plan compiler.
//
// This package contains value types only. All other internal packages
// import graph; graph imports only the timemap leaf. This keeps the
// graph model near the bottom of the layer stack with no circular
// dependencies.
//
// Key design constraints:
//   - A Graph is an immutable snapshot of one evaluation instant; it is
//     never mutated after construction.
//   - Node tables are unordered maps. Any traversal whose order can leak
//     into output MUST sort by NodeID first (see SortedNodeIDs).
//   - Node ids are derived, never generated: re-evaluating the same
//     project state yields byte-identical ids (see Derive).
package graph
