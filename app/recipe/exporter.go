package recipe

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Exporter writes a loaded recipe back to its declarative YAML form.
// Re-loading the exported document yields a field-for-field identical
// record, with feed order preserved.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Run(config Config) (string, error) {
	data, err := yaml.Marshal(&config)
	if err != nil {
		return "", fmt.Errorf("failed to serialize recipe: %w", err)
	}
	return string(data), nil
}
