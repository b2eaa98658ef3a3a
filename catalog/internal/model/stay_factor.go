package model

import "math"

var genreMultiplier = map[Genre]float64{
	GenreChildren:       1.05,
	GenreScienceFiction: 0.6,
	GenreAncientHistory: 1.2,
}

var frequencyMultiplier = map[Frequency]float64{
	FrequencyQuarterly: 1.4,
	FrequencyBiannual:  1.33,
	FrequencyAnnual:    1.15,
}

// Multiplier returns the type weight of the stay factor. Unknown subtypes weigh 1.
func Multiplier(m Material) float64 {
	switch m.Kind {
	case KindBook:
		if v, ok := genreMultiplier[m.Genre]; ok {
			return v
		}
	case KindPeriodical:
		if v, ok := frequencyMultiplier[m.Frequency]; ok {
			return v
		}
	}
	return 1.0
}

// StayFactor is (publicationYear+1)/arrivalYear weighted by Multiplier; 0 for invalid input.
func StayFactor(m Material) float64 {
	if m.ArrivalYear <= 0 {
		return 0
	}
	f := float64(m.PublicationYear+1) / float64(m.ArrivalYear) * Multiplier(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
