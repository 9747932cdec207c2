// Package analysis implements the playlist mood-clustering pipeline:
// feature extraction, center-based partitioning, mood labeling and
// cluster summaries.
package analysis

// Track represents a song with its metadata and audio features.
// Feature fields are nil when the catalog did not return a value.
type Track struct {
	ID     string
	Name   string
	Artist string
	Album  string

	Acousticness     *float64
	Danceability     *float64
	Energy           *float64
	Instrumentalness *float64
	Liveness         *float64
	Loudness         *float64
	Popularity       *float64
	Speechiness      *float64
	Tempo            *float64
	Valence          *float64
}

// Recognized audio feature names, in canonical column order.
const (
	FeatureAcousticness     = "acousticness"
	FeatureDanceability     = "danceability"
	FeatureEnergy           = "energy"
	FeatureInstrumentalness = "instrumentalness"
	FeatureLiveness         = "liveness"
	FeatureLoudness         = "loudness"
	FeaturePopularity       = "popularity"
	FeatureSpeechiness      = "speechiness"
	FeatureTempo            = "tempo"
	FeatureValence          = "valence"
)

// DefaultFeatures is the feature set clustered on when the configuration
// does not name one.
var DefaultFeatures = []string{
	FeatureEnergy,
	FeatureValence,
	FeatureDanceability,
	FeatureAcousticness,
}

// summaryFeatures are the features averaged into every cluster summary.
var summaryFeatures = []string{
	FeatureEnergy,
	FeatureValence,
	FeatureTempo,
	FeatureDanceability,
	FeatureAcousticness,
}

// Feature returns the named audio feature, or nil if it is absent or the
// name is not recognized.
func (t *Track) Feature(name string) *float64 {
	switch name {
	case FeatureAcousticness:
		return t.Acousticness
	case FeatureDanceability:
		return t.Danceability
	case FeatureEnergy:
		return t.Energy
	case FeatureInstrumentalness:
		return t.Instrumentalness
	case FeatureLiveness:
		return t.Liveness
	case FeatureLoudness:
		return t.Loudness
	case FeaturePopularity:
		return t.Popularity
	case FeatureSpeechiness:
		return t.Speechiness
	case FeatureTempo:
		return t.Tempo
	case FeatureValence:
		return t.Valence
	default:
		return nil
	}
}

// HasFeatures reports whether the track carries every named feature.
func (t *Track) HasFeatures(names []string) bool {
	for _, name := range names {
		if t.Feature(name) == nil {
			return false
		}
	}
	return true
}
