package export

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pensions-cli/internal/pension"
)

// WriteSummary writes the run statistics as YAML.
func WriteSummary(path string, stats pension.Stats) error {
	b, err := yaml.Marshal(stats)
	if err != nil {
		return eris.Wrap(err, "summary: marshal")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrapf(err, "summary: write %s", path)
	}
	return nil
}
