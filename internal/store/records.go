package store

// Run records one sketch-generation run: the task it tuned, the root seed
// and strategy the batch was generated with, and the engine version for
// provenance. The token is the primary key and comes from the search
// space's token generator.
type Run struct {
	Token         string
	TaskName      string
	Target        string
	Seed          int64
	Strategy      string
	EngineVersion string
	CreatedAt     string
}

// Sketch records one generated schedule within a run. Ordinal is the
// position in the batch (0-based); fingerprint is the module's
// content-addressed identity; module JSON is the full module for
// inspection.
type Sketch struct {
	RunToken      string
	Ordinal       int
	Fingerprint   string
	PredictedCost float64
	ModuleJSON    string
}
