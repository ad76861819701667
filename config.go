package stride

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// RunConfig is the top-level TOML configuration for one Stride run
// (component I), grounded on the teacher's EvoEpiConfig/SingleHostConfig
// shape: plain exported fields with `toml` tags, a private `validated`
// flag, and a Validate method that must be called before the config is
// used to build a Simulator.
type RunConfig struct {
	NumDays     int    `toml:"num_days"`
	NumThreads  int    `toml:"num_threads"`
	RandomSeed  int64  `toml:"random_seed"`
	Logger      string `toml:"logger"` // csv, sqlite, none
	OutputPath  string `toml:"output_path"`

	R0               float64 `toml:"r0"`
	TransmissionB0   float64 `toml:"transmission_b0"`
	TransmissionB1   float64 `toml:"transmission_b1"`
	TrackIndexCase   bool    `toml:"track_index_case"`
	CheckpointEvery  int     `toml:"checkpoint_every_days"`

	StartDate string `toml:"start_date"` // YYYY-MM-DD

	Population PopulationConfig `toml:"population"`
	Contact    ContactMatrixConfig `toml:"contact"`

	validated bool
}

// PopulationConfig mirrors PopulationParams as a TOML-decodable shape;
// NewSimulator converts it (via toParams) into the typed PopulationParams
// the generator consumes.
type PopulationConfig struct {
	SizeMin int `toml:"size_min"`
	SizeMax int `toml:"size_max"`

	HouseholdSizeDistribution []int `toml:"household_size_distribution"`

	ChildMaxAge           int `toml:"child_max_age"`
	ChildAgeGapMin        int `toml:"child_age_gap_min"`
	ChildAgeGapMax        int `toml:"child_age_gap_max"`
	ParentAgeMin          int `toml:"parent_age_min"`
	ParentAgeMax          int `toml:"parent_age_max"`
	ParentAgeGapMin       int `toml:"parent_age_gap_min"`
	ParentAgeGapMax       int `toml:"parent_age_gap_max"`
	ChildParentGapMinimum int `toml:"child_parent_gap_minimum"`
	LiveAloneMinimumAge   int `toml:"live_alone_minimum_age"`
	MaximumAge            int `toml:"maximum_age"`

	SchoolKindergartenAge int     `toml:"school_kindergarten_age"`
	SchoolPrimaryAge      int     `toml:"school_primary_age"`
	SchoolSecondaryAge    int     `toml:"school_secondary_age"`
	SchoolHigherEducation int     `toml:"school_higher_education_age"`
	SchoolGraduationAge   int     `toml:"school_graduation_age"`
	SchoolMeanSize        float64 `toml:"school_mean_size"`
	ProbabilityHigherEd   float64 `toml:"probability_higher_education"`

	WorkAgeMin      int     `toml:"work_age_min"`
	WorkAgeMax      int     `toml:"work_age_max"`
	WorkMeanSize    float64 `toml:"work_mean_size"`
	ProbabilityWork float64 `toml:"probability_employed"`

	CommunityMeanSize float64 `toml:"community_mean_size"`

	MeanStartInfectiousness float64 `toml:"mean_start_infectiousness"`
	MeanStartSymptomatic    float64 `toml:"mean_start_symptomatic"`
	MeanTimeInfectious      float64 `toml:"mean_time_infectious"`
	MeanTimeSymptomatic     float64 `toml:"mean_time_symptomatic"`
}

// toParams converts the TOML-decodable shape into the generator's typed
// PopulationParams.
func (c PopulationConfig) toParams() PopulationParams {
	return PopulationParams{
		PopulationSize:            IntRange{c.SizeMin, c.SizeMax},
		HouseholdSizeDistribution: c.HouseholdSizeDistribution,
		ChildMaxAge:               c.ChildMaxAge,
		ChildAgeGap:               IntRange{c.ChildAgeGapMin, c.ChildAgeGapMax},
		ParentAgeRange:            IntRange{c.ParentAgeMin, c.ParentAgeMax},
		ParentAgeGap:              IntRange{c.ParentAgeGapMin, c.ParentAgeGapMax},
		ChildParentGapMinimum:     c.ChildParentGapMinimum,
		LiveAloneMinimumAge:       c.LiveAloneMinimumAge,
		MaximumAge:                c.MaximumAge,
		SchoolKindergartenAge:     c.SchoolKindergartenAge,
		SchoolPrimaryAge:          c.SchoolPrimaryAge,
		SchoolSecondaryAge:        c.SchoolSecondaryAge,
		SchoolHigherEducation:     c.SchoolHigherEducation,
		SchoolGraduationAge:       c.SchoolGraduationAge,
		SchoolMeanSize:            c.SchoolMeanSize,
		ProbabilityHigherEd:       c.ProbabilityHigherEd,
		WorkAgeRange:              IntRange{c.WorkAgeMin, c.WorkAgeMax},
		WorkMeanSize:              c.WorkMeanSize,
		ProbabilityWork:           c.ProbabilityWork,
		CommunityMeanSize:         c.CommunityMeanSize,
		Thresholds: DiseaseThresholdParams{
			MeanStartInfectiousness: c.MeanStartInfectiousness,
			MeanStartSymptomatic:    c.MeanStartSymptomatic,
			MeanTimeInfectious:      c.MeanTimeInfectious,
			MeanTimeSymptomatic:     c.MeanTimeSymptomatic,
		},
	}
}

// ContactMatrixConfig holds the four cluster kinds' age-bucketed contact
// rates, each given as parallel bucket bounds and a rate matrix written as
// nested rows (§4.5/§6's external contact-matrix interface).
type ContactMatrixConfig struct {
	Household    AgeMatrixConfig `toml:"household"`
	DayCluster   AgeMatrixConfig `toml:"day_cluster"`
	HomeDistrict AgeMatrixConfig `toml:"home_district"`
	DayDistrict  AgeMatrixConfig `toml:"day_district"`
}

// AgeMatrixConfig is one cluster kind's contact matrix in TOML-friendly
// flattened form.
type AgeMatrixConfig struct {
	BucketMin []float64 `toml:"bucket_min"`
	BucketMax []float64 `toml:"bucket_max"`
	Rates     [][]float64 `toml:"rates"`
}

func (c AgeMatrixConfig) toMatrix() *AgeContactMatrix {
	buckets := make([]AgeBucket, len(c.BucketMin))
	for i := range buckets {
		buckets[i] = AgeBucket{Min: c.BucketMin[i], Max: c.BucketMax[i]}
	}
	return &AgeContactMatrix{Buckets: buckets, Rates: c.Rates}
}

// Validate checks the configuration's structural and keyword invariants,
// following the teacher's check-then-set-validated-flag idiom.
func (c *RunConfig) Validate() error {
	if c.NumDays <= 0 {
		return errors.Errorf(InvalidIntParameterError, "num_days", c.NumDays, "must be positive")
	}
	if c.NumThreads <= 0 {
		return errors.Errorf(InvalidIntParameterError, "num_threads", c.NumThreads, "must be positive")
	}
	if c.TransmissionB1 == 0 {
		return errors.Errorf(InvalidFloatParameterError, "transmission_b1", c.TransmissionB1, "must be nonzero")
	}
	switch strings.ToLower(c.Logger) {
	case "csv", "sqlite", "none", "":
	default:
		return errors.Errorf(UnrecognizedKeywordError, c.Logger, "logger")
	}
	if len(c.Population.HouseholdSizeDistribution) == 0 {
		return errors.Errorf(MissingRequiredKeyError, "population.household_size_distribution", "config")
	}
	beta := c.Beta()
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return errors.Errorf(InvalidFloatParameterError, "beta", beta, "must be finite")
	}
	if beta < 0 {
		return errors.Errorf(InvalidFloatParameterError, "beta", beta, "must be non-negative")
	}
	for name, m := range map[string]AgeMatrixConfig{
		"contact.household":    c.Contact.Household,
		"contact.day_cluster":  c.Contact.DayCluster,
		"contact.home_district": c.Contact.HomeDistrict,
		"contact.day_district": c.Contact.DayDistrict,
	} {
		for _, row := range m.Rates {
			for _, rate := range row {
				if rate < 0 {
					return errors.Errorf(InvalidFloatParameterError, name+".rates", rate, "must be non-negative")
				}
			}
		}
	}
	c.validated = true
	return nil
}

// Beta returns the calibrated per-contact transmission probability for
// this run's configured R0, per §4.8: beta = (R0 - b0) / b1.
func (c *RunConfig) Beta() float64 {
	return (c.R0 - c.TransmissionB0) / c.TransmissionB1
}
