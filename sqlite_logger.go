package stride

import (
	"database/sql"
	"fmt"
	"strings"

	// sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLogger is a DataLogger that writes simulation data to a SQLite
// database, grounded on the teacher's SQLiteLogger (sqlite_logger.go):
// one table per log kind, instance-numbered table names, WAL-mode
// exclusive-locking connections.
type SQLiteLogger struct {
	path       string
	instanceID int
	db         *sql.DB
}

// NewSQLiteLogger creates a new logger that writes to a SQLite database.
func NewSQLiteLogger(basepath string, i int) *SQLiteLogger {
	l := new(SQLiteLogger)
	l.SetBasePath(basepath, i)
	return l
}

// SetBasePath sets the database file path.
func (l *SQLiteLogger) SetBasePath(basepath string, i int) {
	l.path = strings.TrimSuffix(basepath, ".") + ".db"
	l.instanceID = i
}

// Init opens the database connection and creates this instance's tables.
func (l *SQLiteLogger) Init() error {
	db, err := openSQLiteDBOptimized(l.path)
	if err != nil {
		return err
	}
	l.db = db

	stmts := []string{
		fmt.Sprintf(`create table if not exists counts%03d (
			id integer not null primary key, day int,
			susceptible int, exposed int, infectious int,
			infectious_symptomatic int, symptomatic int, recovered int, immune int
		)`, l.instanceID),
		fmt.Sprintf(`create table if not exists transmissions%03d (
			id integer not null primary key, day int, cluster_id int,
			cluster_kind text, infector_id int, victim_id int
		)`, l.instanceID),
	}
	for _, stmt := range stmts {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("%q: %s", err, stmt)
		}
	}
	return nil
}

// WriteDayCounts inserts one row per DayCountsPackage received.
func (l *SQLiteLogger) WriteDayCounts(c <-chan DayCountsPackage) {
	tableName := fmt.Sprintf("counts%03d", l.instanceID)
	stmtText := "insert into " + tableName +
		"(day, susceptible, exposed, infectious, infectious_symptomatic, symptomatic, recovered, immune) values(?, ?, ?, ?, ?, ?, ?, ?)"

	tx, err := l.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(stmtText)
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()
	for pack := range c {
		stmt.Exec(pack.day, pack.susceptible, pack.exposed, pack.infectious,
			pack.infectiousSymptomatic, pack.symptomatic, pack.recovered, pack.immune)
	}
	tx.Commit()
}

// WriteTransmissions inserts one row per TransmissionPackage received.
func (l *SQLiteLogger) WriteTransmissions(c <-chan TransmissionPackage) {
	tableName := fmt.Sprintf("transmissions%03d", l.instanceID)
	stmtText := "insert into " + tableName +
		"(day, cluster_id, cluster_kind, infector_id, victim_id) values(?, ?, ?, ?, ?)"

	tx, err := l.db.Begin()
	if err != nil {
		return
	}
	stmt, err := tx.Prepare(stmtText)
	if err != nil {
		tx.Rollback()
		return
	}
	defer stmt.Close()
	for pack := range c {
		stmt.Exec(pack.day, pack.clusterID, pack.clusterKnd.String(), pack.infectorID, pack.victimID)
	}
	tx.Commit()
}

// Close closes the underlying database connection.
func (l *SQLiteLogger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func openSQLiteDBOptimized(path string) (*sql.DB, error) {
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal=WAL&_locking=EXCLUSIVE&_sync=NORMAL", path))
}
