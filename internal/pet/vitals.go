// Package pet holds the pet domain model: vitals, mood derivation, and the
// breed/personality/lifestage behavior tables that steer dialogue tone.
package pet

import "strconv"

// Vitals is a snapshot of a pet's physiological state for one turn. It is
// supplied fresh per request by the status collaborator and never persisted.
type Vitals struct {
	Hunger      float64
	Energy      float64
	Health      float64
	Stress      float64
	Cleanliness float64
	Happiness   float64

	IsSick           bool
	SicknessType     string
	SicknessSeverity float64
	Hibernating      bool
}

// DefaultVitals returns neutral-safe vitals for a pet with no status record:
// comfort levels high, stress low, no sickness.
func DefaultVitals() Vitals {
	return Vitals{
		Hunger:       100,
		Energy:       100,
		Health:       100,
		Stress:       0,
		Cleanliness:  100,
		Happiness:    100,
		SicknessType: "None",
	}
}

// VitalsFromStatus decodes the upstream status payload, which carries numbers
// as strings ("hunger_level": "20.0") and booleans as "1"/"0". Missing or
// unparsable fields keep their neutral-safe defaults.
func VitalsFromStatus(status map[string]string) Vitals {
	v := DefaultVitals()
	if len(status) == 0 {
		return v
	}

	v.Hunger = statusFloat(status, "hunger_level", v.Hunger)
	v.Energy = statusFloat(status, "energy_level", v.Energy)
	v.Health = statusFloat(status, "health_level", v.Health)
	v.Stress = statusFloat(status, "stress_level", v.Stress)
	v.Cleanliness = statusFloat(status, "cleanliness_level", v.Cleanliness)
	v.Happiness = statusFloat(status, "happiness_level", v.Happiness)

	v.IsSick = status["is_sick"] == "1"
	v.Hibernating = status["hibernation_mode"] == "1"
	v.SicknessSeverity = statusFloat(status, "sickness_severity", 0)
	if t, ok := status["sickness_type"]; ok && t != "" {
		v.SicknessType = t
	} else {
		v.SicknessType = "None"
	}

	return v
}

func statusFloat(status map[string]string, key string, fallback float64) float64 {
	raw, ok := status[key]
	if !ok || raw == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return f
}
