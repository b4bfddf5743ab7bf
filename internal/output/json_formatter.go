package output

import (
	"encoding/json"

	"github.com/nestegg/retirement-simulator/internal/domain"
)

// JSONFormatter emits the full result document as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	return json.MarshalIndent(result, "", "  ")
}
