package stride

import (
	"math"

	"github.com/google/uuid"
	rv "github.com/kentwait/randomvariate"
)

// Population is the full set of persons generated for one realization. It
// exclusively owns every *Person; a person's index in People IS its ID, a
// dense and stable mapping maintained by GeneratePopulation and never
// altered afterward. Clusters only ever borrow pointers into it.
//
// ID tags the population itself (not any one person) so that independently
// generated populations can be told apart in summary/report output, the
// [NEW] supplement noted in SPEC_FULL.md §3.
type Population struct {
	ID     uuid.UUID
	People []*Person
}

// NewPopulation wraps an already-generated, densely-indexed person slice.
func NewPopulation(people []*Person) *Population {
	return &Population{ID: uuid.New(), People: people}
}

// Size returns the number of persons in the population.
func (pop *Population) Size() int {
	return len(pop.People)
}

// Get returns the person with the given id, or nil if out of range.
func (pop *Population) Get(id int) *Person {
	if id < 0 || id >= len(pop.People) {
		return nil
	}
	return pop.People[id]
}

// IntRange is an inclusive [Min, Max] bound on a sampled integer, the Go
// rendering of the original generator's InclusiveRange<int>.
type IntRange struct {
	Min, Max int
}

func (r IntRange) contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// PopulationParams configures population generation (component F),
// grounded on original_source/PopulationGenerator.cpp's `model` tree.
type PopulationParams struct {
	PopulationSize IntRange

	HouseholdSizeDistribution []int // index 0 = households of size 1, etc.

	ChildMaxAge            int
	ChildAgeGap            IntRange
	ParentAgeRange         IntRange
	ParentAgeGap           IntRange
	ChildParentGapMinimum  int
	LiveAloneMinimumAge    int
	MaximumAge             int

	SchoolKindergartenAge  int
	SchoolPrimaryAge       int
	SchoolSecondaryAge     int
	SchoolHigherEducation  int
	SchoolGraduationAge    int
	SchoolMeanSize         float64
	ProbabilityHigherEd    float64

	WorkAgeRange     IntRange
	WorkMeanSize     float64
	ProbabilityWork  float64

	CommunityMeanSize float64

	Thresholds DiseaseThresholdParams
}

// DiseaseThresholdParams are the Poisson means used to sample each
// person's HealthThresholds at creation (§3). Grounded on the teacher's
// disease.Sample(random) call in PopulationGenerator.cpp's GeneratePerson,
// rendered here as four independent Poisson-distributed day counts instead
// of an opaque model object.
type DiseaseThresholdParams struct {
	MeanStartInfectiousness float64
	MeanStartSymptomatic    float64
	MeanTimeInfectious      float64
	MeanTimeSymptomatic     float64
}

// sampleThresholds draws a HealthThresholds from Poisson-distributed day
// counts, retrying rejection-style on the rare draw that violates the §3
// ordering invariant. Unlike the per-worker cluster kernel, disease
// threshold sampling at population-generation time is single-threaded and
// not itself required to be reproducible-per-worker, so it is drawn from
// github.com/kentwait/randomvariate's shared generator rather than from a
// worker's private rngService (see rng.go's doc comment for why the
// kernel cannot do the same).
func sampleThresholds(p DiseaseThresholdParams) HealthThresholds {
	for {
		t := HealthThresholds{
			StartInfectiousness: poissonAtLeastOne(p.MeanStartInfectiousness),
			StartSymptomatic:    poissonAtLeastOne(p.MeanStartSymptomatic),
			TimeInfectious:      poissonAtLeastOne(p.MeanTimeInfectious),
			TimeSymptomatic:     poissonAtLeastOne(p.MeanTimeSymptomatic),
		}
		if t.Valid() {
			return t
		}
	}
}

// poissonAtLeastOne draws from rv.Poisson, re-drawing on a zero result
// since every threshold must be a strictly positive day count (§3).
func poissonAtLeastOne(mean float64) int {
	for {
		if n := rv.Poisson(mean); n > 0 {
			return n
		}
	}
}

// generator holds the running state of one population-generation pass,
// mirroring the teacher's fields-on-Generator idiom (population_model::Generator).
type generator struct {
	params PopulationParams
	rng    *rngService

	numSchools    int
	numWorks      int
	numCommunities int

	householdID int
	nextID      int

	people []*Person
}

// GeneratePopulation builds a full Population per §4.6: households are
// generated largest-to-smallest by the configured size distribution until
// the cumulative share of the target population size is met at each step.
func GeneratePopulation(params PopulationParams, rng *rngService) (*Population, error) {
	size := rng.IntRange(params.PopulationSize.Min, params.PopulationSize.Max)

	hsd := params.HouseholdSizeDistribution
	total := 0
	for _, w := range hsd {
		total += w
	}
	if total <= 0 {
		total = 1
	}

	g := &generator{
		params:         params,
		rng:            rng,
		numSchools:     ceilDiv(size, params.SchoolMeanSize),
		numWorks:       ceilDiv(size, params.WorkMeanSize),
		numCommunities: ceilDiv(size, params.CommunityMeanSize),
		householdID:    1,
	}

	currentGoal := 0
	for h := len(hsd); h >= 1; h-- {
		currentGoal += size * hsd[h-1] / total
		for len(g.people) < currentGoal {
			if err := g.generateHousehold(h); err != nil {
				return nil, err
			}
		}
	}

	return NewPopulation(g.people), nil
}

func ceilDiv(n int, mean float64) int {
	if mean <= 0 {
		return 1
	}
	v := int(math.Ceil(float64(n) / mean))
	if v < 1 {
		return 1
	}
	return v
}

// generateHousehold adds one household of the given size to the
// in-progress population, per §4.6's size>2 vs size<=2 split.
func (g *generator) generateHousehold(size int) error {
	start := len(g.people)
	p := g.params

	if size > 2 {
		childAges, err := SampleApart(g.rng, IntRange{1, p.ChildMaxAge}, p.ChildAgeGap, size-2)
		if err != nil {
			return err
		}
		for _, age := range childAges {
			g.generatePerson(float64(age))
		}

		eldest := childAges[len(childAges)-1]
		parentRange := p.ParentAgeRange
		if floor := eldest + p.ChildParentGapMinimum; floor > parentRange.Min {
			parentRange.Min = floor
		}
		parentAges, err := SampleApart(g.rng, parentRange, p.ParentAgeGap, 2)
		if err != nil {
			return err
		}
		for _, age := range parentAges {
			g.generatePerson(float64(age))
		}
	} else {
		ages, err := SampleApart(g.rng, IntRange{p.LiveAloneMinimumAge, p.MaximumAge}, p.ParentAgeGap, size)
		if err != nil {
			return err
		}
		for _, age := range ages {
			g.generatePerson(float64(age))
		}
	}

	for _, person := range g.people[start:] {
		person.HouseholdID = g.householdID
		person.HouseholdSize = len(g.people) - start
	}
	g.householdID++
	return nil
}

func (g *generator) generatePerson(age float64) {
	schoolID, hasSchool := g.schoolID(age)
	workID := g.workID(age)
	dayClusterID := schoolID + workID // mutually exclusive by age; see person.go's hasSchoolID note
	homeDistrictID := g.communityID()
	dayDistrictID := g.communityID()

	thresholds := sampleThresholds(g.params.Thresholds)
	person := NewPerson(g.nextID, age, 0, homeDistrictID, dayClusterID, dayDistrictID, hasSchool, thresholds)
	g.nextID++
	g.people = append(g.people, person)
}

// schoolID assigns a school id and type tier following the original's
// "(random(num_schools)/4)*4+tier+1" encoding, preserved verbatim per the
// spec's Open Question (b): the four school types (kindergarten, primary,
// secondary, higher-ed) are interleaved across school ids modulo 4, rather
// than partitioned into four separate id ranges.
func (g *generator) schoolID(age float64) (id int, hasSchool bool) {
	p := g.params
	a := int(age)
	if a < p.SchoolKindergartenAge || a > p.SchoolGraduationAge {
		return 0, false
	}
	if a >= p.SchoolHigherEducation && g.rng.Float64() > p.ProbabilityHigherEd {
		return 0, false
	}

	tier := 0
	switch {
	case a >= p.SchoolHigherEducation:
		tier = 3
	case a >= p.SchoolSecondaryAge:
		tier = 2
	case a >= p.SchoolPrimaryAge:
		tier = 1
	}

	return (g.rng.IntRange(0, g.numSchools-1)/4)*4 + tier + 1, true
}

func (g *generator) workID(age float64) int {
	p := g.params
	if p.WorkAgeRange.contains(int(age)) && g.rng.Float64() < p.ProbabilityWork {
		return g.rng.IntRange(1, g.numWorks)
	}
	return 0
}

func (g *generator) communityID() int {
	return g.rng.IntRange(1, g.numCommunities)
}

// SampleApart is the rejection-sampling primitive from §4.6: it draws
// `count` values uniformly from range, up to 100 tries, accepting the
// first draw whose sorted span fits within gap.Max and whose every
// adjacent difference is at least gap.Min.
func SampleApart(rng *rngService, rangeBound, gap IntRange, count int) ([]int, error) {
	v := make([]int, count)
	for tries := 0; tries < 100; tries++ {
		for i := range v {
			v[i] = rng.IntRange(rangeBound.Min, rangeBound.Max)
		}
		sortInts(v)

		if v[len(v)-1]-v[0] > gap.Max {
			continue
		}

		ok := true
		for i := 0; i < len(v)-1; i++ {
			if v[i+1]-v[i] < gap.Min {
				ok = false
				break
			}
		}
		if ok {
			return v, nil
		}
	}
	return nil, SampleApartInfeasibleError(rangeBound.Min, rangeBound.Max, gap.Min, gap.Max, count)
}

func sortInts(v []int) {
	for i := 1; i < len(v); i++ {
		for j := i; j > 0 && v[j-1] > v[j]; j-- {
			v[j-1], v[j] = v[j], v[j-1]
		}
	}
}
