package stride

import "testing"

func TestSampleApartSatisfiesGapConstraints(t *testing.T) {
	rng := newRNGService(11, 1, 0)
	for trial := 0; trial < 20; trial++ {
		v, err := SampleApart(rng, IntRange{0, 100}, IntRange{1, 40}, 5)
		if err != nil {
			t.Fatalf("unexpected SampleApart error: %s", err)
		}
		if len(v) != 5 {
			t.Errorf(UnequalIntParameterError, "SampleApart result length", 5, len(v))
		}
		for i := 0; i < len(v)-1; i++ {
			if v[i] > v[i+1] {
				t.Error("SampleApart result must be sorted")
			}
			if gap := v[i+1] - v[i]; gap < 1 {
				t.Errorf(UnequalIntParameterError, "adjacent gap below minimum", 1, gap)
			}
		}
		if span := v[len(v)-1] - v[0]; span > 40 {
			t.Errorf(UnequalIntParameterError, "span above maximum", 40, span)
		}
	}
}

func TestSampleApartInfeasibleReturnsError(t *testing.T) {
	rng := newRNGService(12, 1, 0)
	// A gap.Max of 0 forces all three values to be equal, while a gap.Min
	// of 1 forbids equal neighbours, so no draw can ever be accepted.
	_, err := SampleApart(rng, IntRange{0, 1000}, IntRange{1, 0}, 3)
	if err == nil {
		t.Error("expected SampleApart to fail when gap constraints are infeasible")
	}
}

func TestGeneratePopulationHouseholdSizeDistribution(t *testing.T) {
	params := PopulationParams{
		PopulationSize:            IntRange{200, 200},
		HouseholdSizeDistribution: []int{3, 2, 1}, // size-1: 3, size-2: 2, size-3: 1 (index 0 = size 1)
		ChildMaxAge:               17,
		ChildAgeGap:               IntRange{0, 5},
		ParentAgeRange:            IntRange{20, 60},
		ParentAgeGap:              IntRange{0, 20},
		ChildParentGapMinimum:     18,
		LiveAloneMinimumAge:       18,
		MaximumAge:                90,
		SchoolKindergartenAge:     3,
		SchoolPrimaryAge:          6,
		SchoolSecondaryAge:        12,
		SchoolHigherEducation:     18,
		SchoolGraduationAge:       24,
		SchoolMeanSize:            300,
		ProbabilityHigherEd:       0.3,
		WorkAgeRange:              IntRange{25, 65},
		WorkMeanSize:              20,
		ProbabilityWork:           0.8,
		CommunityMeanSize:         500,
		Thresholds: DiseaseThresholdParams{
			MeanStartInfectiousness: 2,
			MeanStartSymptomatic:    4,
			MeanTimeInfectious:      6,
			MeanTimeSymptomatic:     4,
		},
	}
	rng := newRNGService(99, 1, 0)
	pop, err := GeneratePopulation(params, rng)
	if err != nil {
		t.Fatalf("unexpected error generating population: %s", err)
	}
	if pop.Size() == 0 {
		t.Fatal("expected a nonempty population")
	}

	householdSizes := map[int]int{}
	for _, p := range pop.People {
		householdSizes[p.HouseholdID] = max(householdSizes[p.HouseholdID], p.HouseholdSize)
	}
	for id, size := range householdSizes {
		if size < 1 || size > 3 {
			t.Errorf("household %d has implausible size %d", id, size)
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func TestGeneratePersonIDsAreDenseAndStable(t *testing.T) {

	params := PopulationParams{
		PopulationSize:            IntRange{50, 50},
		HouseholdSizeDistribution: []int{1},
		LiveAloneMinimumAge:       18,
		MaximumAge:                90,
		ParentAgeGap:              IntRange{0, 20},
		SchoolMeanSize:            300,
		WorkMeanSize:              20,
		WorkAgeRange:              IntRange{25, 65},
		CommunityMeanSize:         500,
		Thresholds: DiseaseThresholdParams{
			MeanStartInfectiousness: 2,
			MeanStartSymptomatic:    4,
			MeanTimeInfectious:      6,
			MeanTimeSymptomatic:     4,
		},
	}
	rng := newRNGService(5, 1, 0)
	pop, err := GeneratePopulation(params, rng)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for i, p := range pop.People {
		if p.ID != i {
			t.Errorf(UnequalIntParameterError, "person index as ID", i, p.ID)
		}
	}
}
