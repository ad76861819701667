package stride

import "testing"

func testPopulationConfig() PopulationConfig {
	return PopulationConfig{
		SizeMin:                   100,
		SizeMax:                   100,
		HouseholdSizeDistribution: []int{4, 3, 2, 1},
		ChildMaxAge:               17,
		ChildAgeGapMin:            0,
		ChildAgeGapMax:            5,
		ParentAgeMin:              20,
		ParentAgeMax:              60,
		ParentAgeGapMin:           0,
		ParentAgeGapMax:           20,
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
		WorkAgeMin:                25,
		WorkAgeMax:                65,
		WorkMeanSize:              20,
		ProbabilityWork:           0.8,
		CommunityMeanSize:         500,
		MeanStartInfectiousness:   2,
		MeanStartSymptomatic:      4,
		MeanTimeInfectious:        6,
		MeanTimeSymptomatic:       4,
	}
}

func flatMatrix(rate float64) AgeMatrixConfig {
	return AgeMatrixConfig{
		BucketMin: []float64{0},
		BucketMax: []float64{150},
		Rates:     [][]float64{{rate}},
	}
}

func testRunConfig(r0 float64) *RunConfig {
	return &RunConfig{
		NumDays:        10,
		NumThreads:     2,
		RandomSeed:     1,
		Logger:         "none",
		R0:             r0,
		TransmissionB0: 0,
		TransmissionB1: 1,
		Population:     testPopulationConfig(),
		Contact: ContactMatrixConfig{
			Household:    flatMatrix(1),
			DayCluster:   flatMatrix(1),
			HomeDistrict: flatMatrix(1),
			DayDistrict:  flatMatrix(1),
		},
	}
}

func countInfected(pop *Population) int {
	n := 0
	for _, p := range pop.People {
		switch p.Health.State {
		case Exposed, Infectious, InfectiousAndSymptomatic, Symptomatic:
			n++
		}
	}
	return n
}

// countEverInfected counts every person who has left Susceptible,
// including those who have since recovered.
func countEverInfected(pop *Population) int {
	n := 0
	for _, p := range pop.People {
		if p.Health.State != Susceptible {
			n++
		}
	}
	return n
}

// Scenario 1: r0=0 means beta=0, so a seeded index case can never spread.
// The index case itself may recover within the run, so the count compared
// is of everyone ever infected, not of those currently infected.
func TestScenarioTinyDeterministicZeroR0(t *testing.T) {
	conf := testRunConfig(0)
	if err := conf.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %s", err)
	}
	sim, err := NewSimulator(conf, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error building simulator: %s", err)
	}
	sim.SeedIndexCase(0)

	initial := countEverInfected(sim.population)
	if err := sim.Run(10); err != nil {
		t.Fatalf("unexpected error running simulation: %s", err)
	}
	if got := countEverInfected(sim.population); got != initial {
		t.Errorf(UnequalIntParameterError, "infected count with r0=0", initial, got)
	}
}

// Scenario 2: a guaranteed contact and guaranteed transmission between one
// infectious and one susceptible member of a 2-person household.
func TestScenarioSingleInfectiousSingleSusceptibleBetaOne(t *testing.T) {
	infector := NewPerson(0, 30, 1, 1, 0, 1, false, validThresholds())
	infector.Health.State = Infectious
	victim := NewPerson(1, 30, 1, 1, 0, 1, false, validThresholds())

	c := NewCluster(1, HouseholdKind)
	c.AddMember(infector)
	c.AddMember(victim)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	updateCluster(c, 0, newTestMatrix(1), 1, rng, false, clusterEventSink{})

	if victim.Health.State != Exposed {
		t.Errorf(UnequalStringParameterError, "victim state", Exposed.String(), victim.Health.State.String())
	}
}

// Scenario 3: an all-Recovered population can never gain new infections,
// regardless of how high R0 is configured.
func TestScenarioAllRecoveredNeverIncreases(t *testing.T) {
	conf := testRunConfig(5)
	if err := conf.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %s", err)
	}
	sim, err := NewSimulator(conf, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error building simulator: %s", err)
	}
	for _, p := range sim.population.People {
		p.Health.State = Recovered
	}

	for day := 0; day < 30; day++ {
		sim.RunDay(day)
		if got := countInfected(sim.population); got != 0 {
			t.Fatalf("expected infected count to stay 0 in an all-Recovered population, got %d on day %d", got, day)
		}
	}
}

// Scenario 4: SampleApart's returned vector respects every gap/span/count
// constraint (see also population_test.go's property-style coverage).
func TestScenarioSampleApartConstraints(t *testing.T) {
	rng := newRNGService(4, 1, 0)
	v, err := SampleApart(rng, IntRange{0, 20}, IntRange{2, 10}, 4)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(v) != 4 {
		t.Fatalf(UnequalIntParameterError, "result length", 4, len(v))
	}
	for i := 0; i < len(v)-1; i++ {
		if v[i+1]-v[i] < 2 {
			t.Errorf("adjacent diff %d-%d below gap minimum 2", v[i+1], v[i])
		}
	}
	if span := v[len(v)-1] - v[0]; span > 10 {
		t.Errorf(UnequalIntParameterError, "span", 10, span)
	}
}

// Scenario 5: a household_size_distribution concentrated entirely on size
// 2 produces only size-2 households.
func TestScenarioHouseholdSizeDistributionAllSizeTwo(t *testing.T) {
	params := PopulationParams{
		PopulationSize:            IntRange{1000, 1000},
		HouseholdSizeDistribution: []int{0, 10, 0, 0},
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
	rng := newRNGService(55, 1, 0)
	pop, err := GeneratePopulation(params, rng)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	for _, p := range pop.People {
		if p.HouseholdSize != 2 {
			t.Errorf(UnequalIntParameterError, "household size", 2, p.HouseholdSize)
		}
	}
}

// Scenario 6: a day cluster containing one 40-year-old is promoted to
// WorkKind. NewSimulator gives SchoolKind and WorkKind the same day-cluster
// contact matrix, so the promotion does not change which rates are read.
func TestScenarioSchoolToWorkPromotion(t *testing.T) {
	t1 := validThresholds()
	people := []*Person{
		NewPerson(0, 10, 1, 1, 7, 1, true, t1),
		NewPerson(1, 40, 2, 1, 7, 1, true, t1),
	}
	pop := NewPopulation(people)

	set, err := AssembleClusters(pop)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	cluster := set.DayClusters()[7]
	if cluster.Kind != WorkKind {
		t.Errorf(UnequalStringParameterError, "promoted cluster kind", WorkKind.String(), cluster.Kind.String())
	}
}

// Reproducibility: two runs built from identical (config, seed,
// thread_count) must produce identical per-day infected counts, even
// though runBatch spreads clusters across multiple worker goroutines.
// A goroutine-scheduling-dependent (rather than index-derived) assignment
// of clusters to RNG streams would make this test flaky.
func TestReproducibilityAcrossIdenticalConfigSeedThreads(t *testing.T) {
	runOnce := func() []int {
		conf := testRunConfig(3)
		conf.NumThreads = 4
		conf.RandomSeed = 77
		if err := conf.Validate(); err != nil {
			t.Fatalf("unexpected validation error: %s", err)
		}
		sim, err := NewSimulator(conf, 1, nil)
		if err != nil {
			t.Fatalf("unexpected error building simulator: %s", err)
		}
		sim.SeedIndexCase(0)

		counts := make([]int, 10)
		for day := 0; day < 10; day++ {
			sim.RunDay(day)
			counts[day] = countInfected(sim.population)
		}
		return counts
	}

	a := runOnce()
	b := runOnce()
	for day := range a {
		if a[day] != b[day] {
			t.Errorf("day %d: infected count diverged between identical (config, seed, thread_count) runs: %d vs %d", day, a[day], b[day])
		}
	}
}
