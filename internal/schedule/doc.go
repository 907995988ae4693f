// Package schedule holds the loop-nest program representation that the
// search core transforms.
//
// A Module is an ordered collection of named Blocks. Each Block is a loop
// nest plus the transform annotations accumulated during search (tiling,
// unrolling, inlining). The search core only depends on the small surface
// the collaborator contract names: list blocks in order, test block
// existence, deep copy, and render a debug string. Everything else in this
// package exists so transformation rules have something concrete to rewrite.
//
// Modules are mutated in place by rules, so the copy-on-branch discipline
// lives with the caller: clone before mutating anything another search
// state can still reach.
//
// Fingerprints are content-addressed: canonical JSON of the module
// structure, hashed with a domain-separated SHA-256. Two modules with the
// same structure always produce the same fingerprint, which is what the
// replay audit and golden tests compare.
package schedule
