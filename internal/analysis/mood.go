package analysis

// Mood labels, one per energy/valence quadrant.
const (
	MoodEnergeticHappy = "Energetic/Happy"
	MoodIntenseAngry   = "Intense/Angry"
	MoodCalmContent    = "Calm/Content"
	MoodSadMelancholic = "Sad/Melancholic"
)

const (
	energyThreshold       = 0.5
	valenceThreshold      = 0.5
	acousticnessThreshold = 0.6
)

// MoodLabel maps a cluster's mean energy and valence to a mood label.
// The mapping is total: every profile resolves to exactly one label.
//
// Boundary policy: valence exactly at the threshold counts as high valence
// (ties favor the happier bucket); energy exactly at the threshold counts
// as low energy.
func MoodLabel(energy, valence float64) string {
	highEnergy := energy > energyThreshold
	highValence := valence >= valenceThreshold

	switch {
	case highEnergy && highValence:
		return MoodEnergeticHappy
	case highEnergy && !highValence:
		return MoodIntenseAngry
	case !highEnergy && highValence:
		return MoodCalmContent
	default:
		return MoodSadMelancholic
	}
}

// moodName returns the mood label for a cluster profile, with an
// " (Acoustic)" suffix when the cluster leans heavily acoustic.
func moodName(p Profile) string {
	name := MoodLabel(p.Energy, p.Valence)
	if p.Acousticness > acousticnessThreshold {
		return name + " (Acoustic)"
	}
	return name
}
