// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/impactnet/impact/impact"
	"github.com/impactnet/impact/log"
)

var logger = log.WithContext("pkg", "logdb")

// LogDB is the append-only audit log of committed events.
type LogDB struct {
	path          string
	db            *sql.DB
	stmts         *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		stmts:         newStmtCache(db),
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmts.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Insert appends events in one transaction and returns them with their assigned sequence.
func (db *LogDB) Insert(events []*impact.Event) ([]*Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	stmt, err := db.stmts.Prepare(insertEventQuery)
	if err != nil {
		return nil, err
	}

	inserted := make([]*Event, 0, len(events))
	err = db.execInTx(func(tx *sql.Tx) error {
		txStmt := tx.Stmt(stmt)
		for _, ev := range events {
			res, err := txStmt.Exec(ev.Kind, ev.Subject.Bytes(), ev.Time, []byte(ev.Data))
			if err != nil {
				return err
			}
			seq, err := res.LastInsertId()
			if err != nil {
				return err
			}
			inserted = append(inserted, &Event{
				Seq:     uint64(seq),
				Kind:    ev.Kind,
				Subject: ev.Subject,
				Time:    ev.Time,
				Data:    ev.Data,
			})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "insert events")
	}
	for _, ev := range inserted {
		metricInsertedEvents().AddWithLabel(1, map[string]string{"kind": ev.Kind})
	}
	return inserted, nil
}

// NewestSeq returns the sequence of the last inserted event, 0 if the log is empty.
func (db *LogDB) NewestSeq(ctx context.Context) (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, kind, subject, time, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleFilter(filter)

	var (
		args []any
		stmt = query + " WHERE 1"
	)
	if filter.Range != nil {
		condition := "seq"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt += " AND " + condition + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND " + condition + " <= ?"
		}
	}
	if filter.Subject != nil {
		args = append(args, filter.Subject.Bytes())
		stmt += " AND subject = ?"
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ")"
		for _, k := range filter.Kinds {
			args = append(args, k)
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmts.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			kind    string
			subject []byte
			time    uint64
			data    []byte
		)
		if err := rows.Scan(&seq, &kind, &subject, &time, &data); err != nil {
			return nil, err
		}
		events = append(events, &Event{
			Seq:     seq,
			Kind:    kind,
			Subject: impact.BytesToAddress(subject),
			Time:    time,
			Data:    data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
