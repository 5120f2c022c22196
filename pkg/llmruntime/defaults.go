package llmruntime

import (
	"fmt"

	"github.com/effective-security/gvo/pkg/llms"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Inference default keys.
const (
	KeyTemperature     = "temperature"
	KeyMaxOutputTokens = "max_output_tokens"
	KeyMaxTokens       = "max_tokens"
	KeyTopP            = "top_p"
	KeyTopK            = "top_k"
)

// InferenceDefaults holds the per-provider inference parameters in
// insertion order. It is read-only once built.
type InferenceDefaults struct {
	m *orderedmap.OrderedMap[string, any]
}

func newInferenceDefaults() *InferenceDefaults {
	return &InferenceDefaults{m: orderedmap.New[string, any]()}
}

func (d *InferenceDefaults) set(key string, value any) {
	d.m.Set(key, value)
}

// Len returns the number of parameters.
func (d *InferenceDefaults) Len() int {
	if d == nil {
		return 0
	}
	return d.m.Len()
}

// Get returns the parameter value.
func (d *InferenceDefaults) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	return d.m.Get(key)
}

// Keys returns the parameter names in insertion order.
func (d *InferenceDefaults) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, d.m.Len())
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Map returns a copy of the parameters.
func (d *InferenceDefaults) Map() map[string]any {
	res := make(map[string]any, d.Len())
	if d == nil {
		return res
	}
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		res[pair.Key] = pair.Value
	}
	return res
}

// CallOptions converts the parameters to call options.
func (d *InferenceDefaults) CallOptions() []llms.CallOption {
	if d == nil {
		return nil
	}
	var opts []llms.CallOption
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case KeyTemperature:
			opts = append(opts, llms.WithTemperature(pair.Value.(float64)))
		case KeyMaxOutputTokens, KeyMaxTokens:
			opts = append(opts, llms.WithMaxTokens(pair.Value.(int)))
		case KeyTopP:
			opts = append(opts, llms.WithTopP(pair.Value.(float64)))
		case KeyTopK:
			opts = append(opts, llms.WithTopK(pair.Value.(int)))
		}
	}
	return opts
}

// MarshalJSON keeps the insertion order.
func (d *InferenceDefaults) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return d.m.MarshalJSON()
}

func (d *InferenceDefaults) String() string {
	if d == nil {
		return "{}"
	}
	s := "{"
	for pair := d.m.Oldest(); pair != nil; pair = pair.Next() {
		if pair != d.m.Oldest() {
			s += ", "
		}
		s += fmt.Sprintf("%s: %v", pair.Key, pair.Value)
	}
	return s + "}"
}
