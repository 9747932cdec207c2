package analysis

import "math"

// FeatureMatrix is the numeric input to the cluster engine: one normalized
// row per track that carried every required feature, in playlist order.
type FeatureMatrix struct {
	Features []string    // column order
	Rows     [][]float64 // z-score normalized values, aligned with Included
	Included []Track     // tracks contributing a row
	Excluded []Track     // tracks missing one or more required features
}

// Extract builds a FeatureMatrix from raw tracks. A track is included only
// when every feature in features is present; otherwise it lands on the
// exclusion list. Columns are z-score normalized using statistics from this
// batch alone, so parameters never leak across playlists.
//
// A present but non-finite feature value returns an *InputError.
func Extract(tracks []Track, features []string) (*FeatureMatrix, error) {
	if len(features) == 0 {
		features = DefaultFeatures
	}

	m := &FeatureMatrix{Features: features}

	for i := range tracks {
		t := &tracks[i]
		if !t.HasFeatures(features) {
			m.Excluded = append(m.Excluded, *t)
			continue
		}

		row := make([]float64, len(features))
		for j, name := range features {
			v := *t.Feature(name)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InputError{TrackID: t.ID, Feature: name, Value: v}
			}
			row[j] = v
		}
		m.Rows = append(m.Rows, row)
		m.Included = append(m.Included, *t)
	}

	normalize(m.Rows, len(features))
	return m, nil
}

// normalize applies per-column z-score normalization in place. A column
// with zero variance normalizes to all zeros.
func normalize(rows [][]float64, cols int) {
	if len(rows) == 0 {
		return
	}

	n := float64(len(rows))
	for j := 0; j < cols; j++ {
		var sum float64
		for _, row := range rows {
			sum += row[j]
		}
		mean := sum / n

		var variance float64
		for _, row := range rows {
			d := row[j] - mean
			variance += d * d
		}
		std := math.Sqrt(variance / n)

		for _, row := range rows {
			if std == 0 {
				row[j] = 0
			} else {
				row[j] = (row[j] - mean) / std
			}
		}
	}
}
