package hudcfg

import "encoding/json"

// Layer names used in provenance traces, strongest first.
const (
	LayerOverride = "override"
	LayerContext  = "context"
	LayerStatic   = "static"
)

// Trace captures provenance information for a given path lookup across the
// layers that can produce the effective value.
type Trace struct {
	Path   string       `json:"path"`
	Layers []Provenance `json:"layers"`
}

// Provenance details how a specific layer contributed to a traced path.
type Provenance struct {
	Layer string `json:"layer"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	Found bool   `json:"found"`
}

// Effective returns the winning layer's value, honoring precedence.
func (t Trace) Effective() (any, bool) {
	for _, layer := range t.Layers {
		if layer.Found {
			return layer.Value, true
		}
	}
	return nil, false
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated
// via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
