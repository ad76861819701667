package stride

import (
	"log"
	"sync"

	"github.com/segmentio/ksuid"
)

// Simulator is the day-advancing driver (component H): it owns the
// population, assembled clusters, calendar, and per-worker RNG streams,
// and processes each day as four serialized cluster-kind batches. Within
// a batch, clusters update concurrently over a fixed worker pool, grounded
// on the teacher's goroutine+WaitGroup+channel fan-out in
// si_simulation.go's Update/Transmit methods.
type Simulator struct {
	RunID ksuid.KSUID

	population *Population
	clusters   *ClusterSet
	calendar   *Calendar
	signals    *runSignals

	matrices map[ClusterKind]*AgeContactMatrix
	beta     float64

	numThreads     int
	trackIndexCase bool
	rngs           []*rngService

	logger DataLogger
}

// NewSimulator builds a Simulator from a validated RunConfig: it generates
// the population, assembles clusters, derives average cluster sizes
// (excluding the sentinel index 0), scales each kind's contact matrix by
// its average size (§4.8), and calibrates beta from R0.
func NewSimulator(conf *RunConfig, instance int, logger DataLogger) (*Simulator, error) {
	if !conf.validated {
		if err := conf.Validate(); err != nil {
			return nil, err
		}
	}

	genRNG := newRNGService(conf.RandomSeed, 1, 0)
	pop, err := GeneratePopulation(conf.Population.toParams(), genRNG)
	if err != nil {
		return nil, err
	}

	clusters, err := AssembleClusters(pop)
	if err != nil {
		return nil, err
	}

	dayClusterMatrix := conf.Contact.DayCluster.toMatrix()
	matrices := map[ClusterKind]*AgeContactMatrix{
		HouseholdKind:    conf.Contact.Household.toMatrix(),
		SchoolKind:       dayClusterMatrix,
		WorkKind:         dayClusterMatrix,
		HomeDistrictKind: conf.Contact.HomeDistrict.toMatrix(),
		DayDistrictKind:  conf.Contact.DayDistrict.toMatrix(),
	}
	// SchoolKind and WorkKind intentionally point at the same matrix: a day
	// cluster is one physical Cluster that may be promoted from SchoolKind
	// to WorkKind at assembly time (§4.7), so there is only one average
	// size and one scaled matrix to compute for the pair, not two.
	for kind, members := range map[ClusterKind][]*Cluster{
		HouseholdKind:    clusters.Households(),
		SchoolKind:       clusters.DayClusters(),
		HomeDistrictKind: clusters.HomeDistricts(),
		DayDistrictKind:  clusters.DayDistricts(),
	} {
		matrices[kind].ScaleBy(averageClusterSize(members))
	}

	start, err := conf.StartDateTime()
	if err != nil {
		return nil, err
	}

	rngs := make([]*rngService, conf.NumThreads)
	for i := range rngs {
		rngs[i] = newRNGService(conf.RandomSeed, conf.NumThreads, i)
	}

	sim := &Simulator{
		RunID:          ksuid.New(),
		population:     pop,
		clusters:       clusters,
		calendar:       NewCalendar(start, nil, nil),
		signals:        newRunSignals(conf.CheckpointEvery),
		matrices:       matrices,
		beta:           conf.Beta(),
		numThreads:     conf.NumThreads,
		trackIndexCase: conf.TrackIndexCase,
		rngs:           rngs,
		logger:         logger,
	}
	return sim, nil
}

// averageClusterSize computes the mean size over clusters[1:] (index 0 is
// always the "not a member" sentinel and must never be counted). A nil
// slot is an id no person references and counts as an empty cluster.
func averageClusterSize(clusters []*Cluster) float64 {
	if len(clusters) <= 1 {
		return 1
	}
	total := 0
	n := 0
	for _, c := range clusters[1:] {
		if c != nil {
			total += len(c.members)
		}
		n++
	}
	if n == 0 {
		return 1
	}
	return float64(total) / float64(n)
}

// SeedIndexCase marks the given person as Exposed and, when index-case
// tracking is enabled, as the root of the tracked lineage.
func (s *Simulator) SeedIndexCase(personID int) {
	p := s.population.Get(personID)
	if p == nil {
		return
	}
	if p.Health.StartInfection() {
		p.Health.IndexCase = true
	}
}

// Run advances the simulation for numDays, or until an interrupt is
// requested between days, writing per-day aggregate counts and
// transmission events through the logger.
func (s *Simulator) Run(numDays int) error {
	if s.logger != nil {
		if err := s.logger.Init(); err != nil {
			return err
		}
		defer s.logger.Close()
	}

	for day := 0; day < numDays; day++ {
		if s.signals.ShouldStop() {
			log.Printf("run %s: stopping after day %d on interrupt\n", s.RunID, day-1)
			break
		}
		s.RunDay(day)
		if s.signals.ShouldCheckpoint(day) {
			log.Printf("run %s: checkpoint due at day %d\n", s.RunID, day)
		}
		s.calendar.AdvanceDay()
	}
	return nil
}

// RunDay processes exactly one day: refresh presence, then update the
// four cluster-kind batches in fixed order (Households → DayClusters →
// HomeDistricts → DayDistricts), per §5's "batch order is part of the
// contract" rule, then advances every person's health by one day and
// emits the day's aggregate counts.
func (s *Simulator) RunDay(day int) {
	for _, p := range s.population.People {
		p.UpdatePresence(s.calendar)
	}

	transmissions := make(chan TransmissionPackage, 64)
	var logWG sync.WaitGroup
	if s.logger != nil {
		logWG.Add(1)
		go func() {
			defer logWG.Done()
			s.logger.WriteTransmissions(transmissions)
		}()
	}

	sink := clusterEventSink{}
	if s.logger != nil {
		raw := make(chan transmissionEvent, 64)
		sink.transmissions = raw
		go func() {
			for ev := range raw {
				transmissions <- TransmissionPackage{
					runID: s.RunID, day: ev.day, clusterID: ev.clusterID,
					clusterKnd: ev.clusterKnd, infectorID: ev.infectorID, victimID: ev.victimID,
				}
			}
			close(transmissions)
		}()
	}

	s.runBatch(s.clusters.Households(), day, sink)
	s.runBatch(s.clusters.DayClusters(), day, sink)
	s.runBatch(s.clusters.HomeDistricts(), day, sink)
	s.runBatch(s.clusters.DayDistricts(), day, sink)

	if sink.transmissions != nil {
		close(sink.transmissions)
	}
	logWG.Wait()

	for _, p := range s.population.People {
		p.Health.Update(day)
	}

	if s.logger != nil {
		counts := s.aggregateCounts(day)
		c := make(chan DayCountsPackage, 1)
		c <- counts
		close(c)
		s.logger.WriteDayCounts(c)
	}
}

// runBatch updates every cluster of one kind concurrently across a fixed
// worker pool sized to numThreads. The "one cluster of a kind per person"
// invariant (§5) makes each worker's Health writes disjoint from every
// other worker's in the same batch, so no additional locking is needed.
//
// Cluster index i (i >= 1) is assigned to worker (i-1)%workers by a fixed
// formula, where workers is numThreads capped at the number of
// non-sentinel clusters, not pulled off a shared work queue: which worker (and therefore which
// rngService stream) updates a given cluster must depend only on
// (numThreads, cluster index), never on goroutine-scheduling order, or two
// runs of identical (seed, thread_count) could disagree on which stream
// drew which cluster's contact/transmission draws and diverge (§8's
// reproducibility property).
func (s *Simulator) runBatch(clusters []*Cluster, day int, sink clusterEventSink) {
	if len(clusters) <= 1 {
		return
	}
	workers := s.numThreads
	if workers > len(clusters)-1 {
		workers = len(clusters) - 1
	}
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := s.rngs[w%len(s.rngs)]
			for i := 1 + w; i < len(clusters); i += workers {
				c := clusters[i]
				if c == nil {
					continue
				}
				updateCluster(c, day, s.matrices[c.Kind], s.beta, rng, s.trackIndexCase, sink)
			}
		}(w)
	}
	wg.Wait()
}

// aggregateCounts tallies the population's disease states for one day's
// log row (§4.11).
func (s *Simulator) aggregateCounts(day int) DayCountsPackage {
	counts := DayCountsPackage{runID: s.RunID, day: day}
	for _, p := range s.population.People {
		switch p.Health.State {
		case Susceptible:
			counts.susceptible++
		case Exposed:
			counts.exposed++
		case Infectious:
			counts.infectious++
		case InfectiousAndSymptomatic:
			counts.infectiousSymptomatic++
		case Symptomatic:
			counts.symptomatic++
		case Recovered:
			counts.recovered++
		case Immune:
			counts.immune++
		}
	}
	return counts
}

// Interrupt requests that Run stop before starting its next day.
func (s *Simulator) Interrupt() {
	s.signals.Interrupt()
}
