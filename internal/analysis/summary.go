package analysis

// Profile is a cluster's aggregate audio-feature profile: the mean of each
// tracked feature across members that carry it.
type Profile struct {
	Energy       float64
	Valence      float64
	Tempo        float64
	Danceability float64
	Acousticness float64
}

// Cluster is one group of tracks in an analysis result. Members appear in
// original playlist order and belong to exactly one cluster.
type Cluster struct {
	ID      int
	Mood    string
	Profile Profile
	Members []Track
}

// Summary is the client-facing aggregate for one cluster.
type Summary struct {
	ClusterID       int        `json:"cluster_id"`
	Size            int        `json:"size"`
	Mood            string     `json:"mood"`
	AvgEnergy       float64    `json:"avg_energy"`
	AvgValence      float64    `json:"avg_valence"`
	AvgTempo        float64    `json:"avg_tempo"`
	AvgDanceability float64    `json:"avg_danceability"`
	AvgAcousticness float64    `json:"avg_acousticness"`
	SampleTracks    []TrackRef `json:"sample_tracks"`
}

// TrackRef is a lightweight track reference used in summaries.
type TrackRef struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Tree node kinds. The renderer switches on Kind; it never infers a node's
// type from the presence of children.
const (
	NodeRoot    = "root"
	NodeCluster = "cluster"
	NodeTrack   = "track"
)

// TreeNode is one node of the visualization tree sent to the frontend.
type TreeNode struct {
	Kind      string     `json:"kind"`
	Name      string     `json:"name"`
	ClusterID *int       `json:"cluster_id,omitempty"`
	Size      int        `json:"size,omitempty"`
	Mood      string     `json:"mood,omitempty"`
	TrackID   string     `json:"track_id,omitempty"`
	Artist    string     `json:"artist,omitempty"`
	Energy    *float64   `json:"energy,omitempty"`
	Valence   *float64   `json:"valence,omitempty"`
	Children  []TreeNode `json:"children,omitempty"`
}

// buildClusters groups the included tracks by label and derives each
// cluster's profile and mood. Clusters come back in ascending ID order;
// members keep their playlist order.
func buildClusters(m *FeatureMatrix, labels []int, k int) []Cluster {
	out := make([]Cluster, k)
	for i := range out {
		out[i].ID = i
	}

	for i, label := range labels {
		out[label].Members = append(out[label].Members, m.Included[i])
	}

	for i := range out {
		c := &out[i]
		c.Profile = Profile{
			Energy:       meanFeature(c.Members, FeatureEnergy),
			Valence:      meanFeature(c.Members, FeatureValence),
			Tempo:        meanFeature(c.Members, FeatureTempo),
			Danceability: meanFeature(c.Members, FeatureDanceability),
			Acousticness: meanFeature(c.Members, FeatureAcousticness),
		}
		c.Mood = moodName(c.Profile)
	}

	return out
}

// meanFeature averages a raw (un-normalized) feature over the members that
// carry it. Returns 0 when no member does.
func meanFeature(members []Track, name string) float64 {
	var sum float64
	var n int
	for i := range members {
		if v := members[i].Feature(name); v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Summaries produces one Summary per cluster, in ascending cluster-ID
// order, with the first sampleSize members (playlist order) as a preview.
func Summaries(cs []Cluster, sampleSize int) []Summary {
	out := make([]Summary, len(cs))
	for i, c := range cs {
		n := min(sampleSize, len(c.Members))
		samples := make([]TrackRef, n)
		for j := 0; j < n; j++ {
			t := c.Members[j]
			samples[j] = TrackRef{ID: t.ID, Name: t.Name, Artist: t.Artist}
		}

		out[i] = Summary{
			ClusterID:       c.ID,
			Size:            len(c.Members),
			Mood:            c.Mood,
			AvgEnergy:       c.Profile.Energy,
			AvgValence:      c.Profile.Valence,
			AvgTempo:        c.Profile.Tempo,
			AvgDanceability: c.Profile.Danceability,
			AvgAcousticness: c.Profile.Acousticness,
			SampleTracks:    samples,
		}
	}
	return out
}

// BuildTree shapes clusters into the tagged-union tree consumed by the
// dashboard renderer.
func BuildTree(name string, cs []Cluster) TreeNode {
	root := TreeNode{Kind: NodeRoot, Name: name}

	for i := range cs {
		c := &cs[i]
		id := c.ID
		node := TreeNode{
			Kind:      NodeCluster,
			Name:      c.Mood,
			ClusterID: &id,
			Size:      len(c.Members),
			Mood:      c.Mood,
		}
		for _, t := range c.Members {
			node.Children = append(node.Children, TreeNode{
				Kind:    NodeTrack,
				Name:    t.Name,
				TrackID: t.ID,
				Artist:  t.Artist,
				Energy:  t.Energy,
				Valence: t.Valence,
			})
		}
		root.Children = append(root.Children, node)
	}

	return root
}
