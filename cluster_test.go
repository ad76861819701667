package stride

import "testing"

func newTestMatrix(rate float64) *AgeContactMatrix {
	return &AgeContactMatrix{
		Buckets: []AgeBucket{{0, 150}},
		Rates:   [][]float64{{rate}},
	}
}

func TestUpdateClusterDeterministicTransmission(t *testing.T) {
	infector := NewPerson(0, 30, 1, 1, 1, 1, false, validThresholds())
	infector.Health.State = Infectious

	victim := NewPerson(1, 30, 1, 1, 1, 1, false, validThresholds())

	c := NewCluster(1, HouseholdKind)
	c.AddMember(infector)
	c.AddMember(victim)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	matrix := newTestMatrix(1) // contact guaranteed
	updateCluster(c, 0, matrix, 1 /* beta guaranteed */, rng, false, clusterEventSink{})

	if victim.Health.State != Exposed {
		t.Errorf(UnequalStringParameterError, "victim state after guaranteed transmission", Exposed.String(), victim.Health.State.String())
	}
}

func TestUpdateClusterNoContactNoTransmission(t *testing.T) {
	infector := NewPerson(0, 30, 1, 1, 1, 1, false, validThresholds())
	infector.Health.State = Infectious
	victim := NewPerson(1, 30, 1, 1, 1, 1, false, validThresholds())

	c := NewCluster(1, HouseholdKind)
	c.AddMember(infector)
	c.AddMember(victim)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	matrix := newTestMatrix(0) // contact never happens
	updateCluster(c, 0, matrix, 1, rng, false, clusterEventSink{})

	if victim.Health.State != Susceptible {
		t.Error("expected no transmission when the contact rate is zero")
	}
}

func TestUpdateClusterBothInfectiousNoTransmission(t *testing.T) {
	a := NewPerson(0, 30, 1, 1, 1, 1, false, validThresholds())
	a.Health.State = Infectious
	b := NewPerson(1, 30, 1, 1, 1, 1, false, validThresholds())
	b.Health.State = Infectious

	c := NewCluster(1, HouseholdKind)
	c.AddMember(a)
	c.AddMember(b)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	updateCluster(c, 0, newTestMatrix(1), 1, rng, false, clusterEventSink{})

	if a.Health.State != Infectious || b.Health.State != Infectious {
		t.Error("two already-infectious members must never transmit to each other")
	}
}

func TestUpdateClusterAbsentMembersExcluded(t *testing.T) {
	infector := NewPerson(0, 30, 1, 1, 1, 1, false, validThresholds())
	infector.Health.State = Infectious
	infector.InHousehold = true

	victim := NewPerson(1, 30, 1, 1, 1, 1, false, validThresholds())
	victim.InHousehold = false // absent today

	c := NewCluster(1, HouseholdKind)
	c.AddMember(infector)
	c.AddMember(victim)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	updateCluster(c, 0, newTestMatrix(1), 1, rng, false, clusterEventSink{})

	if victim.Health.State != Susceptible {
		t.Error("an absent member must never be exposed to contact sampling")
	}
}

func TestUpdateClusterIndexCaseModeGatesNonLineageInfector(t *testing.T) {
	infector := NewPerson(0, 30, 1, 1, 1, 1, false, validThresholds())
	infector.Health.State = Infectious
	infector.Health.IndexCase = false // not part of the tracked lineage

	victim := NewPerson(1, 30, 1, 1, 1, 1, false, validThresholds())

	c := NewCluster(1, HouseholdKind)
	c.AddMember(infector)
	c.AddMember(victim)
	c.FreezeSize()

	rng := newRNGService(1, 1, 0)
	updateCluster(c, 0, newTestMatrix(1), 1, rng, true, clusterEventSink{})

	if victim.Health.State != Susceptible {
		t.Error("index-case tracking must suppress transmission from a non-lineage infector")
	}
}

func TestAgeContactMatrixBucketIndexClamping(t *testing.T) {
	m := &AgeContactMatrix{Buckets: []AgeBucket{{0, 10}, {11, 20}}}
	if idx := m.BucketIndex(99); idx != 1 {
		t.Errorf(UnequalIntParameterError, "bucket index above range", 1, idx)
	}
}

func TestAgeContactMatrixScaleBy(t *testing.T) {
	m := &AgeContactMatrix{Rates: [][]float64{{4, 8}, {8, 4}}}
	m.ScaleBy(2)
	if m.Rates[0][0] != 2 || m.Rates[0][1] != 4 {
		t.Error("ScaleBy must divide every rate by the given divisor")
	}
}
