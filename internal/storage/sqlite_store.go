package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/submm-lab/specsens/internal/sensitivity"
)

// maxRowsPerInsert bounds a single batch insert statement. Each row binds
// one session reference plus every result column, and SQLite limits bound
// variables to 999 per statement by default.
const maxRowsPerInsert = 20

// SqliteStore handles database operations over a single SQLite file. It
// keeps separate lazily-opened connections for writing (WAL) and reading.
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a store over the given database path. The schema is
// initialized on first write.
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(schemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) CreateSession(ctx context.Context, instrument string, config any) (sessionID int64, err error) {
	var configData sql.NullString

	if config != nil {
		switch v := config.(type) {
		case string:
			configData.Valid = true
			configData.String = v

		case []byte:
			configData.Valid = true
			configData.String = string(v)

		default:
			var p []byte
			if p, err = json.Marshal(config); err != nil {
				err = fmt.Errorf("marshaling config: %w", err)
				return
			}

			configData.Valid = true
			configData.String = string(p)
		}
	}

	db, err := s.getWriteDB()
	if err != nil {
		err = fmt.Errorf("getting write connection: %w", err)
		return
	}

	stmt, err := db.PrepareContext(ctx, insertSessionSQL)
	if err != nil {
		err = fmt.Errorf("preparing statement: %w", err)
		return
	}
	defer closeWithError(stmt, &err)

	result, err := stmt.ExecContext(ctx, instrument, configData)
	if err != nil {
		err = fmt.Errorf("inserting session: %w", err)
		return
	}

	sessionID, err = result.LastInsertId()
	if err != nil {
		err = fmt.Errorf("getting session ID: %w", err)
	}
	return
}

func (s *SqliteStore) Session(ctx context.Context, id int64) (session *Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	var sess Session
	var config sql.NullString
	if err = db.QueryRowContext(ctx, selectSessionSQL, id).Scan(&sess.ID, &sess.StartTime, &sess.Instrument, &config); err != nil {
		err = fmt.Errorf("scanning session: %w", err)
		return
	}
	if config.Valid {
		sess.Config = &config.String
	}

	return &sess, nil
}

func (s *SqliteStore) Sessions(ctx context.Context) (sessions []*Session, err error) {
	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	rows, err := db.QueryContext(ctx, selectSessionsSQL)
	if err != nil {
		err = fmt.Errorf("querying sessions: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var sess Session
		var config sql.NullString
		if err = rows.Scan(&sess.ID, &sess.StartTime, &sess.Instrument, &config); err != nil {
			err = fmt.Errorf("scanning session: %w", err)
			return
		}
		if config.Valid {
			sess.Config = &config.String
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

func (s *SqliteStore) StoreResults(ctx context.Context, sessionID int64, table sensitivity.Table) (err error) {
	if len(table) == 0 {
		return
	}

	db, err := s.getWriteDB()
	if err != nil {
		return fmt.Errorf("getting write connection: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer rollbackWithError(tx, &err)

	head := insertResultsSQL()
	placeholder := resultPlaceholder()

	for start := 0; start < len(table); start += maxRowsPerInsert {
		end := min(start+maxRowsPerInsert, len(table))
		chunk := table[start:end]

		values := make([]any, 0, len(chunk)*(len(resultColumns)+1))

		var sb strings.Builder
		sb.WriteString(head)

		for i, row := range chunk {
			values = append(values, sessionID)
			for _, v := range row.Values() {
				values = append(values, v)
			}

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder)
		}

		if _, err = tx.ExecContext(ctx, sb.String(), values...); err != nil {
			return fmt.Errorf("batch inserting results: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ReaderOption narrows a Results query.
type ReaderOption func(*resultsQuery)

type resultsQuery struct {
	minFreq *float64
	maxFreq *float64
}

// WithMinFreq returns only rows at or above the given frequency in Hz.
func WithMinFreq(freq float64) ReaderOption {
	return func(q *resultsQuery) {
		q.minFreq = &freq
	}
}

// WithMaxFreq returns only rows at or below the given frequency in Hz.
func WithMaxFreq(freq float64) ReaderOption {
	return func(q *resultsQuery) {
		q.maxFreq = &freq
	}
}

func (s *SqliteStore) Results(ctx context.Context, sessionID int64, opts ...ReaderOption) (table sensitivity.Table, err error) {
	var q resultsQuery
	for _, opt := range opts {
		opt(&q)
	}

	db, err := s.getReadDB()
	if err != nil {
		err = fmt.Errorf("getting read connection: %w", err)
		return
	}

	query, filterArgs := selectResultsSQL(q.minFreq, q.maxFreq)
	args := append([]any{sessionID}, filterArgs...)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		err = fmt.Errorf("querying results: %w", err)
		return
	}
	defer closeWithError(rows, &err)

	values := make([]float64, len(resultColumns))
	dests := make([]any, len(values))
	for i := range values {
		dests[i] = &values[i]
	}

	for rows.Next() {
		if err = rows.Scan(dests...); err != nil {
			err = fmt.Errorf("scanning result row: %w", err)
			return
		}
		table = append(table, sensitivity.FromValues(values))
	}
	return table, rows.Err()
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		var writeErr, readErr error

		if s.writeDB != nil {
			writeErr = s.writeDB.Close()
			s.writeDB = nil
		}

		if s.readDB != nil {
			readErr = s.readDB.Close()
			s.readDB = nil
		}

		switch {
		case writeErr != nil && readErr != nil:
			s.closeErr = errors.Join(writeErr, readErr)
		case writeErr != nil:
			s.closeErr = writeErr
		case readErr != nil:
			s.closeErr = readErr
		}
	})

	return s.closeErr
}
