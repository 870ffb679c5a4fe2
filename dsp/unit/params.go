package unit

import "math"

// Params holds the parsed parameters for a single unit.
type Params struct {
	ID       string
	Type     string
	Bypassed bool
	Num      map[string]float64
	Str      map[string]string
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	if p.Num == nil {
		return def
	}

	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}

	return v
}

// GetInt is GetNum truncated to an int.
func (p Params) GetInt(key string, def int) int {
	return int(p.GetNum(key, float64(def)))
}

// GetStr returns a string parameter, or def if missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}

	return def
}

// parseParams splits a raw JSON params object into numeric and string
// values. Booleans become 0 or 1; other types are ignored.
func parseParams(raw map[string]any) (map[string]float64, map[string]string) {
	num := map[string]float64{}
	str := map[string]string{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		}
	}

	return num, str
}
