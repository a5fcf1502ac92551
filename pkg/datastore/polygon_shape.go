package datastore

import "fmt"

// NormalizePolygonShape accepts any of the three input shapes a
// segmentation annotation may arrive in and resolves it to the
// canonical []PointInput form:
//
//   - (i)   []any{map[x,y], map[x,y], ...}
//   - (ii)  [][]float64{{x1,y1,x2,y2,...}}  (a single-element wrapper)
//   - (iii) []float64{x1,y1,x2,y2,...}      (flat)
//
// Returns an error if raw is none of these, or a flat/nested sequence
// has an odd number of coordinates.
func NormalizePolygonShape(raw any) ([]PointInput, error) {
	switch v := raw.(type) {
	case []PointInput:
		return v, nil
	case []map[string]float64:
		out := make([]PointInput, 0, len(v))
		for _, m := range v {
			out = append(out, PointInput{X: m["x"], Y: m["y"]})
		}
		return out, nil
	case [][]float64:
		if len(v) == 0 {
			return nil, fmt.Errorf("datastore: empty nested polygon shape")
		}
		return flatToPoints(v[0])
	case []float64:
		return flatToPoints(v)
	case []any:
		return normalizeAnySlice(v)
	default:
		return nil, fmt.Errorf("datastore: unrecognized polygon shape %T", raw)
	}
}

func normalizeAnySlice(v []any) ([]PointInput, error) {
	if len(v) == 0 {
		return nil, fmt.Errorf("datastore: empty polygon shape")
	}
	if _, ok := asXY(v[0]); ok {
		out := make([]PointInput, 0, len(v))
		for _, el := range v {
			p, ok := asXY(el)
			if !ok {
				return nil, fmt.Errorf("datastore: mixed polygon vertex shapes")
			}
			out = append(out, p)
		}
		return out, nil
	}

	flat := make([]float64, 0, len(v))
	for _, el := range v {
		f, ok := asFloat(el)
		if !ok {
			return nil, fmt.Errorf("datastore: non-numeric polygon coordinate %T", el)
		}
		flat = append(flat, f)
	}
	return flatToPoints(flat)
}

func asXY(v any) (PointInput, bool) {
	switch m := v.(type) {
	case map[string]float64:
		return PointInput{X: m["x"], Y: m["y"]}, true
	case map[string]any:
		x, xok := asFloat(m["x"])
		y, yok := asFloat(m["y"])
		if xok && yok {
			return PointInput{X: x, Y: y}, true
		}
	}
	return PointInput{}, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func flatToPoints(flat []float64) ([]PointInput, error) {
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("datastore: flat polygon coordinate count %d is odd", len(flat))
	}
	out := make([]PointInput, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		out = append(out, PointInput{X: flat[i], Y: flat[i+1]})
	}
	return out, nil
}
