// Package binder supplies source handles to the compiler.
//
// The compiler consumes the Binder capability as a synchronous query:
// either a handle comes back or nothing does. This package provides the
// SQLite-backed Catalog implementation, a thin registry mapping asset ids
// to on-disk media metadata. It does no decoding and keeps no decoded
// audio; it only answers "where is this asset and what shape is it".
package binder
