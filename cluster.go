package stride

// ClusterKind tags a Cluster's contact-matrix selection and presence
// predicate. This is the tagged-variant-plus-dispatch-table rendering of
// the "deep virtual dispatch" note in §9: the kernel's per-kind divergence
// is limited to which contact matrix and which presence flag it reads.
type ClusterKind int

const (
	HouseholdKind ClusterKind = iota
	SchoolKind
	WorkKind
	HomeDistrictKind
	DayDistrictKind
)

func (k ClusterKind) String() string {
	switch k {
	case HouseholdKind:
		return "household"
	case SchoolKind:
		return "school"
	case WorkKind:
		return "work"
	case HomeDistrictKind:
		return "home_district"
	case DayDistrictKind:
		return "day_district"
	default:
		return "unknown"
	}
}

// present reports whether p participates in this cluster kind today.
func (k ClusterKind) present(p *Person) bool {
	switch k {
	case HouseholdKind:
		return p.InHousehold
	case SchoolKind, WorkKind:
		return p.InDayCluster
	case HomeDistrictKind:
		return p.InHomeDistrict
	case DayDistrictKind:
		return p.InDayDistrict
	default:
		return false
	}
}

// Cluster is a context in which contacts may occur: a household, a home
// district, a day cluster (school or work), or a day district. A Cluster
// never owns its members; it only borrows *Person references assembled
// once by the cluster assembler (§4.7) and never reordered.
type Cluster struct {
	ID      int
	Kind    ClusterKind
	members []*Person
	size    int
}

// NewCluster creates an empty cluster of the given id and (tentative) kind.
func NewCluster(id int, kind ClusterKind) *Cluster {
	return &Cluster{ID: id, Kind: kind}
}

// AddMember appends a borrowed person reference. Only the assembler calls
// this; after assembly, membership is frozen.
func (c *Cluster) AddMember(p *Person) {
	c.members = append(c.members, p)
}

// Size returns the cluster's member count, fixed at the end of assembly.
func (c *Cluster) Size() int {
	return c.size
}

// FreezeSize caches the member count. Called once by the assembler.
func (c *Cluster) FreezeSize() {
	c.size = len(c.members)
}

// AgeBucket is one row/column of a contact matrix, covering the inclusive
// age range [Min, Max].
type AgeBucket struct {
	Min, Max float64
}

func (b AgeBucket) contains(age float64) bool {
	return age >= b.Min && age <= b.Max
}

// AgeContactMatrix holds a cluster kind's per-age-bucket-pair contact rate,
// already divided by that kind's average cluster size (§4.8). Rates is
// square and, by construction from config, symmetric.
type AgeContactMatrix struct {
	Buckets []AgeBucket
	Rates   [][]float64
}

// BucketIndex resolves an age to its bucket, clamping to the last bucket
// for ages above the configured range.
func (m *AgeContactMatrix) BucketIndex(age float64) int {
	for i, b := range m.Buckets {
		if b.contains(age) {
			return i
		}
	}
	if len(m.Buckets) == 0 {
		return 0
	}
	return len(m.Buckets) - 1
}

// Rate returns the symmetric contact rate between two age buckets.
func (m *AgeContactMatrix) Rate(i, j int) float64 {
	if i < 0 || j < 0 || i >= len(m.Rates) || j >= len(m.Rates[i]) {
		return 0
	}
	return m.Rates[i][j]
}

// MeanContacts sums bucket i's row, i.e. the mean number of daily contacts
// a person in that bucket has within this cluster kind, before dividing by
// average cluster size.
func (m *AgeContactMatrix) MeanContacts(i int) float64 {
	var total float64
	for _, r := range m.Rates[i] {
		total += r
	}
	return total
}

// ScaleBy divides every rate by d, turning mean-contact-number into a
// per-pair contact probability (§4.8: rate vector = mean contacts /
// average cluster size).
func (m *AgeContactMatrix) ScaleBy(d float64) {
	if d <= 0 {
		return
	}
	for i := range m.Rates {
		for j := range m.Rates[i] {
			m.Rates[i][j] /= d
		}
	}
}

// transmissionEvent records one infection caused by a cluster's update, for
// the Transmissions log (§6).
type transmissionEvent struct {
	day        int
	clusterID  int
	clusterKnd ClusterKind
	infectorID int
	victimID   int
}

// contactEvent records one sampled contact, for the Contacts log (§6).
type contactEvent struct {
	day       int
	clusterID int
	i, j      int
}

// clusterEventSink receives events emitted by the cluster kernel; nil
// fields are valid and mean "don't log that kind of event". The Simulator
// sets transmissions only when it has a DataLogger and never sets
// contacts; there is no configurable log level.
type clusterEventSink struct {
	transmissions chan<- transmissionEvent
	contacts      chan<- contactEvent
}

// updateCluster is the hot-path kernel (§4.5): for every unordered pair of
// present members, it samples a contact, and on contact, tests
// transmission between exactly one infectious and one susceptible member.
//
// trackIndexCase, when true, suppresses transmission unless the infector
// carries the index-case lineage flag, restricting counted infections to
// the seeded case's descendants (§4.5 "index-case tracking" mode).
func updateCluster(c *Cluster, day int, matrix *AgeContactMatrix, beta float64, rng *rngService, trackIndexCase bool, sink clusterEventSink) {
	present := make([]*Person, 0, len(c.members))
	for _, p := range c.members {
		if c.Kind.present(p) {
			present = append(present, p)
		}
	}

	for i := 0; i < len(present); i++ {
		for j := i + 1; j < len(present); j++ {
			a, b := present[i], present[j]
			bi := matrix.BucketIndex(a.Age)
			bj := matrix.BucketIndex(b.Age)
			pc := matrix.Rate(bi, bj)

			if !rng.Bernoulli(pc) {
				continue
			}
			if sink.contacts != nil {
				sink.contacts <- contactEvent{day: day, clusterID: c.ID, i: a.ID, j: b.ID}
			}

			aInf := a.Health.IsInfectious()
			bInf := b.Health.IsInfectious()
			if aInf == bInf {
				// both infectious or both not: no transmission possible
				continue
			}
			infector, victim := b, a
			if aInf {
				infector, victim = a, b
			}
			if victim.Health.State != Susceptible {
				continue
			}
			if trackIndexCase && !infector.Health.IndexCase {
				continue
			}
			if !rng.Bernoulli(beta) {
				continue
			}
			if victim.Health.StartInfection() {
				if trackIndexCase {
					victim.Health.IndexCase = true
				}
				if sink.transmissions != nil {
					sink.transmissions <- transmissionEvent{
						day: day, clusterID: c.ID, clusterKnd: c.Kind,
						infectorID: infector.ID, victimID: victim.ID,
					}
				}
			}
		}
	}
}
