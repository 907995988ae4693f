package cli

import (
	"os"
	"path/filepath"
	"testing"
)

const testTaskYAML = `name: matmul
seed: 42
strategy: rule_prune
sketch_count: 3
blocks:
  - name: producer
    loops:
      - var: i
        extent: 64
      - var: j
        extent: 64
  - name: consumer
    loops:
      - var: i
        extent: 64
      - var: j
        extent: 64
outputs:
  - consumer
`

// writeTaskFile writes a valid task definition into a temp dir and
// returns its path.
func writeTaskFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matmul.yaml")
	if err := os.WriteFile(path, []byte(testTaskYAML), 0o644); err != nil {
		t.Fatalf("write task file: %v", err)
	}
	return path
}
