package search

// EngineVersion identifies the search engine build recorded with every
// stored run. Bump when a change alters generated trajectories for the
// same root seed, so stored runs from older engines are not replay-checked
// against a different algorithm.
const EngineVersion = "0.2.0"
