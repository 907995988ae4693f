// Package search implements the sketch-generation engine: the search space
// over structural schedule transformations and the stochastic mutation
// protocol that explores it.
//
// ARCHITECTURE:
//
// The Space owns the rule registry, the initial module, the cost model, and
// one deterministic seed cell. Every stochastic decision (sampler order,
// rule selection, step budgets, random pruning) draws from that single
// cell, so a whole generation run is reproducible from the root seed.
//
// Sketch generation flow:
//  1. A strategy builds root states from the initial module.
//  2. Block/rule samplers feed CollectStateTransfer, which expands a
//     frontier of states breadth-first within one named block.
//  3. Pruning removes states either on a rule's veto signal or by random
//     decimation, depending on the strategy.
//  4. GetInitialSketch assembles per-strategy batches until the requested
//     count is reached.
//
// Single-step mutation (RandomScheduleMutate) is a weighted draw over all
// currently fireable (rule, position) pairs: each applicable rule
// contributes a span equal to its position count, and one uniform sample
// over the total weight picks both the rule and the position within it.
//
// COPY-ON-BRANCH:
// States are immutable by convention. Every mutation path clones the state
// first; a module reachable from one generation is never mutated while
// another generation can still see it. No locks are needed as long as this
// discipline holds; parallel workers must fork per-worker seeds via
// rng.ForkSeed and own disjoint state copies.
package search
