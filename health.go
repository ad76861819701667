package stride

// DiseaseState is a person's position in the disease progression state
// machine (§3). Unlike the teacher's integer status codes (SI/SIR/SEIR
// compartments shared across many epidemic models), Stride only ever runs
// one fixed progression, so the states are a typed enum instead of untyped
// int constants.
type DiseaseState int

const (
	Susceptible DiseaseState = iota
	Exposed
	Infectious
	InfectiousAndSymptomatic
	Symptomatic
	Recovered
	Immune
)

func (s DiseaseState) String() string {
	switch s {
	case Susceptible:
		return "susceptible"
	case Exposed:
		return "exposed"
	case Infectious:
		return "infectious"
	case InfectiousAndSymptomatic:
		return "infectious_symptomatic"
	case Symptomatic:
		return "symptomatic"
	case Recovered:
		return "recovered"
	case Immune:
		return "immune"
	default:
		return "unknown"
	}
}

// HealthThresholds are the four person-specific day offsets, sampled once
// at creation, that drive a person's post-infection progression.
type HealthThresholds struct {
	StartInfectiousness int
	StartSymptomatic    int
	TimeInfectious      int
	TimeSymptomatic     int
}

// Valid reports whether the thresholds satisfy the ordering invariant in
// §3: start_infectiousness <= start_symptomatic <= start_infectiousness +
// time_infectious <= start_symptomatic + time_symptomatic.
func (t HealthThresholds) Valid() bool {
	if t.StartInfectiousness <= 0 || t.StartSymptomatic <= 0 || t.TimeInfectious <= 0 || t.TimeSymptomatic <= 0 {
		return false
	}
	if t.StartInfectiousness > t.StartSymptomatic {
		return false
	}
	if t.StartSymptomatic > t.StartInfectiousness+t.TimeInfectious {
		return false
	}
	if t.StartInfectiousness+t.TimeInfectious > t.StartSymptomatic+t.TimeSymptomatic {
		return false
	}
	return true
}

// Health is a person's embedded disease record.
type Health struct {
	State              DiseaseState
	DaysSinceInfection int
	Thresholds         HealthThresholds

	// IndexCase marks a person as the originally seeded case, or a
	// descendant of one, when the simulator runs in index-case tracking
	// mode (§4.5). Unused otherwise.
	IndexCase bool
}

// NewHealth creates a Susceptible health record with the given thresholds.
func NewHealth(t HealthThresholds) Health {
	return Health{State: Susceptible, Thresholds: t}
}

// StartInfection transitions a Susceptible person to Exposed and resets
// their day counter. It is a no-op, not an error, on anyone already past
// Susceptible: two concurrent contact samplings within one cluster batch
// may both target the same newly-Exposed victim, and the second must
// silently lose the race.
func (h *Health) StartInfection() bool {
	if h.State != Susceptible {
		return false
	}
	h.State = Exposed
	h.DaysSinceInfection = 0
	return true
}

// Update advances the day counter and applies any state transitions that
// the new day count crosses. Susceptible and Immune persons never advance.
// Each comparison is independent (not else-if) so thresholds that coincide
// on the same day cascade in one call, while still never regressing.
func (h *Health) Update(day int) {
	if h.State == Susceptible || h.State == Immune {
		return
	}
	h.DaysSinceInfection++
	t := h.Thresholds
	if h.State == Exposed && h.DaysSinceInfection >= t.StartInfectiousness {
		h.State = Infectious
	}
	if h.State == Infectious && h.DaysSinceInfection >= t.StartSymptomatic {
		h.State = InfectiousAndSymptomatic
	}
	if (h.State == Infectious || h.State == InfectiousAndSymptomatic) &&
		h.DaysSinceInfection >= t.StartInfectiousness+t.TimeInfectious {
		h.State = Symptomatic
	}
	if (h.State == InfectiousAndSymptomatic || h.State == Symptomatic) &&
		h.DaysSinceInfection >= t.StartSymptomatic+t.TimeSymptomatic {
		h.State = Recovered
	}
}

// IsInfectious reports whether a contact with this person can transmit.
func (h *Health) IsInfectious() bool {
	return h.State == Infectious || h.State == InfectiousAndSymptomatic
}

// IsSymptomatic reports whether this person currently shows symptoms.
func (h *Health) IsSymptomatic() bool {
	return h.State == InfectiousAndSymptomatic || h.State == Symptomatic
}
