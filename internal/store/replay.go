package store

import (
	"context"
	"fmt"
)

// ReplayResult reports the outcome of a determinism audit for one run.
// When Match is false, Ordinal identifies the first divergent sketch and
// Want/Got hold the stored and regenerated fingerprints.
type ReplayResult struct {
	RunToken string
	Count    int
	Match    bool
	Ordinal  int
	Want     string
	Got      string
}

// ReplayCheck compares a regenerated batch of fingerprints against the
// sketches stored for a run. The regenerated batch must come from the same
// seed and strategy recorded on the run; a mismatch means either the engine
// changed behavior since the run was recorded or the inputs differ.
//
// A count mismatch is reported as a divergence at the first missing ordinal.
func (s *Store) ReplayCheck(ctx context.Context, runToken string, regenerated []string) (ReplayResult, error) {
	stored, err := s.ReadSketches(ctx, runToken)
	if err != nil {
		return ReplayResult{}, fmt.Errorf("replay check: %w", err)
	}

	result := ReplayResult{
		RunToken: runToken,
		Count:    len(stored),
		Match:    true,
	}

	for i, sk := range stored {
		if i >= len(regenerated) {
			result.Match = false
			result.Ordinal = i
			result.Want = sk.Fingerprint
			result.Got = ""
			return result, nil
		}
		if regenerated[i] != sk.Fingerprint {
			result.Match = false
			result.Ordinal = i
			result.Want = sk.Fingerprint
			result.Got = regenerated[i]
			return result, nil
		}
	}

	if len(regenerated) > len(stored) {
		result.Match = false
		result.Ordinal = len(stored)
		result.Got = regenerated[len(stored)]
		return result, nil
	}

	return result, nil
}
