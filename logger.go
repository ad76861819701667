package stride

import "github.com/segmentio/ksuid"

// DataLogger is the general definition of a logger that records
// simulation data to file, whether it writes text or a database,
// grounded on the teacher's DataLogger interface (logger.go).
type DataLogger interface {
	// SetBasePath sets the base path of the logger, with i distinguishing
	// parallel realizations sharing the same base path.
	SetBasePath(path string, i int)
	// Init initializes the logger: creates files/tables and writes headers.
	Init() error
	// WriteDayCounts records one day's per-state aggregate counts.
	WriteDayCounts(c <-chan DayCountsPackage)
	// WriteTransmissions records individual transmission events.
	WriteTransmissions(c <-chan TransmissionPackage)
	// Close releases any resources the logger holds open.
	Close() error
}

// DayCountsPackage is one day's aggregate state counts, the per-day row
// consumed by the epidemic-curve report (§4.11).
type DayCountsPackage struct {
	runID                 ksuid.KSUID
	day                    int
	susceptible            int
	exposed                int
	infectious             int
	infectiousSymptomatic  int
	symptomatic            int
	recovered              int
	immune                 int
}

// TransmissionPackage records one infection event, for the Transmissions
// log (§6).
type TransmissionPackage struct {
	runID      ksuid.KSUID
	day        int
	clusterID  int
	clusterKnd ClusterKind
	infectorID int
	victimID   int
}
