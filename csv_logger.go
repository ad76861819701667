package stride

import (
	"bytes"
	"fmt"
	"strings"
)

// CSVLogger is a DataLogger that writes simulation data as comma-delimited
// files, grounded on the teacher's CSVLogger (csv_logger.go/logger.go):
// same SetBasePath/Init/per-channel-Write shape, Stride's own columns.
type CSVLogger struct {
	runID         string
	dayCountsPath string
	transmitPath  string
}

// NewCSVLogger creates a new CSV-backed logger rooted at basepath.
func NewCSVLogger(basepath string, i int) *CSVLogger {
	l := new(CSVLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the base path of the logger's output files.
func (l *CSVLogger) SetBasePath(basepath string, i int) {
	trimmed := strings.TrimSuffix(basepath, ".")
	l.dayCountsPath = fmt.Sprintf("%s.%03d.counts.csv", trimmed, i)
	l.transmitPath = fmt.Sprintf("%s.%03d.transmissions.csv", trimmed, i)
}

// Init creates the CSV files and writes their header rows.
func (l *CSVLogger) Init() error {
	if err := NewFile(l.dayCountsPath, []byte("day,susceptible,exposed,infectious,infectious_symptomatic,symptomatic,recovered,immune\n")); err != nil {
		return err
	}
	return NewFile(l.transmitPath, []byte("day,cluster_id,cluster_kind,infector_id,victim_id\n"))
}

// WriteDayCounts appends one row per DayCountsPackage received.
func (l *CSVLogger) WriteDayCounts(c <-chan DayCountsPackage) {
	const template = "%d,%d,%d,%d,%d,%d,%d,%d\n"
	var b bytes.Buffer
	for pack := range c {
		b.WriteString(fmt.Sprintf(template,
			pack.day, pack.susceptible, pack.exposed, pack.infectious,
			pack.infectiousSymptomatic, pack.symptomatic, pack.recovered, pack.immune,
		))
	}
	// TODO: surface this error to the driver instead of dropping it
	AppendToFile(l.dayCountsPath, b.Bytes())
}

// WriteTransmissions appends one row per TransmissionPackage received.
func (l *CSVLogger) WriteTransmissions(c <-chan TransmissionPackage) {
	const template = "%d,%d,%s,%d,%d\n"
	var b bytes.Buffer
	for pack := range c {
		b.WriteString(fmt.Sprintf(template,
			pack.day, pack.clusterID, pack.clusterKnd.String(), pack.infectorID, pack.victimID,
		))
	}
	AppendToFile(l.transmitPath, b.Bytes())
}

// Close is a no-op for CSVLogger: each write opens and closes its own
// file handle.
func (l *CSVLogger) Close() error {
	return nil
}
