package analysis

import (
	"fmt"

	"github.com/google/uuid"
)

// DefaultSeed matches the fixed seed the clustering fixtures are built
// against.
const DefaultSeed = 42

// Config holds the knobs for one analysis invocation.
type Config struct {
	RequiredFeatures []string // features a track must carry to be clustered (default DefaultFeatures)
	MinTracks        int      // floor on included tracks before clustering runs (default 3, never below 2)
	NumClusters      int      // 0 selects min(5, rows/2), clamped to at least 2
	Seed             int64    // 0 uses DefaultSeed
	SampleSize       int      // preview tracks per cluster summary (default 3)
}

// DefaultConfig returns the recommended configuration.
func DefaultConfig() Config {
	return Config{
		RequiredFeatures: DefaultFeatures,
		MinTracks:        3,
		Seed:             DefaultSeed,
		SampleSize:       3,
	}
}

// Status distinguishes a clustered result from one where too few tracks
// carried features.
type Status string

const (
	StatusOK               Status = "ok"
	StatusInsufficientData Status = "insufficient-data"
)

// Result is the immutable snapshot produced by one Analyze call. Labels
// align positionally with Included; every included track belongs to
// exactly one cluster. An insufficient-data result carries zero clusters
// and a user-facing Message.
type Result struct {
	ID       string // invocation ID for log correlation, not part of the determinism contract
	Status   Status
	Message  string
	Labels   []int
	Clusters []Cluster
	Included []Track
	Excluded []Track
}

// Analyze runs the full pipeline over one batch of tracks: feature
// extraction, partitioning, mood labeling and summary shaping. Too few
// feature-complete tracks is not an error; it yields an insufficient-data
// result. The only error produced is an *InputError for non-finite
// feature values.
func Analyze(tracks []Track, cfg Config) (*Result, error) {
	cfg = withDefaults(cfg)

	m, err := Extract(tracks, cfg.RequiredFeatures)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ID:       uuid.NewString(),
		Included: m.Included,
		Excluded: m.Excluded,
	}

	if len(m.Included) < cfg.MinTracks {
		res.Status = StatusInsufficientData
		res.Message = fmt.Sprintf(
			"clustering needs at least %d tracks with audio features; this playlist has %d",
			cfg.MinTracks, len(m.Included))
		return res, nil
	}

	labels, k := Partition(m, cfg.NumClusters, cfg.Seed)

	res.Status = StatusOK
	res.Labels = labels
	res.Clusters = buildClusters(m, labels, k)
	return res, nil
}

// withDefaults fills unset configuration fields.
func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if len(cfg.RequiredFeatures) == 0 {
		cfg.RequiredFeatures = def.RequiredFeatures
	}
	if cfg.MinTracks == 0 {
		cfg.MinTracks = def.MinTracks
	}
	if cfg.MinTracks < 2 {
		cfg.MinTracks = 2
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	if cfg.SampleSize <= 0 {
		cfg.SampleSize = def.SampleSize
	}
	return cfg
}
