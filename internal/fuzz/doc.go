// Package fuzztests houses Go fuzz harnesses that push arbitrary bytes and
// flag letters through the whole conversion pipeline. The goal is to guard
// against panics and against results that break the output invariants.
package fuzztests
