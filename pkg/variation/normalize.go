package variation

import "strings"

// Observation is a single reported variation, ordered by creation time.
type Observation interface {
	GetVariation() string
}

// Compute returns the distinct variations in observations. Two variations are
// the same when their lowercase forms are equal; the first one seen wins.
func Compute[O Observation](observations []O) []string {
	known := make([]string, 0, len(observations))
	seen := make(map[string]struct{}, len(observations))

	for _, o := range observations {
		v := o.GetVariation()
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		known = append(known, v)
	}

	return known
}

// Text adapts a bare string to Observation.
type Text string

func (t Text) GetVariation() string { return string(t) }

// ComputeStrings is Compute over raw variation strings.
func ComputeStrings(variations []string) []string {
	texts := make([]Text, len(variations))
	for i, v := range variations {
		texts[i] = Text(v)
	}
	return Compute(texts)
}
