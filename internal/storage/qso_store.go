// Package storage provides persistence for TermLog.
package storage

import (
	"database/sql"
	"strings"
	"time"

	"github.com/termlog/termlog/internal/core"
)

// QSOStore handles QSO persistence
type QSOStore struct {
	db *DB
}

// NewQSOStore creates a new QSO store
func NewQSOStore(db *DB) *QSOStore {
	return &QSOStore{db: db}
}

const qsoColumns = `id, callsign, frequency, mode, rst_sent, rst_rcvd, time_utc, notes,
	session_id, exchange_sent, exchange_rcvd,
	name, qth, state, country, gridsquare, cq_zone, itu_zone,
	pota_ref, sota_ref, tx_pwr, operator, my_gridsquare, my_pota_ref, created_at`

// Add inserts a new QSO and returns its ID. The callsign is stored
// uppercased; the timestamp is normalized to UTC.
func (s *QSOStore) Add(q *core.QSO) (int64, error) {
	now := time.Now().UTC()
	q.CreatedAt = now
	if q.Time.IsZero() {
		q.Time = now
	}

	res, err := s.db.conn.Exec(`
		INSERT INTO qsos (
		    callsign, frequency, mode, rst_sent, rst_rcvd, time_utc, notes,
		    session_id, exchange_sent, exchange_rcvd,
		    name, qth, state, country, gridsquare, cq_zone, itu_zone,
		    pota_ref, sota_ref, tx_pwr, operator, my_gridsquare, my_pota_ref,
		    created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		strings.ToUpper(q.Callsign), q.Frequency, string(q.Mode),
		q.RSTSent, q.RSTRcvd, q.Time.UTC(), q.Notes,
		nullString(q.SessionID), nullString(q.ExchangeSent), nullString(q.ExchangeRcvd),
		nullString(q.Name), nullString(q.QTH), nullString(q.State), nullString(q.Country),
		nullString(q.GridSquare), nullInt(q.CQZone), nullInt(q.ITUZone),
		nullString(q.POTARef), nullString(q.SOTARef),
		nullFloat(q.TxPower), nullString(q.Operator), nullString(q.MyGrid), nullString(q.MyPOTA),
		q.CreatedAt,
	)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	q.ID = id
	return id, nil
}

// GetByID returns a QSO by ID
func (s *QSOStore) GetByID(id int64) (*core.QSO, error) {
	row := s.db.conn.QueryRow(`SELECT `+qsoColumns+` FROM qsos WHERE id = ?`, id)
	q, err := scanQSO(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrRecordNotFound
	}
	return q, err
}

// List returns QSOs newest first, optionally filtered by session.
func (s *QSOStore) List(limit, offset int, sessionID string) ([]*core.QSO, error) {
	var rows *sql.Rows
	var err error
	if sessionID != "" {
		rows, err = s.db.conn.Query(`
			SELECT `+qsoColumns+` FROM qsos
			WHERE session_id = ?
			ORDER BY time_utc DESC
			LIMIT ? OFFSET ?`, sessionID, limit, offset)
	} else {
		rows, err = s.db.conn.Query(`
			SELECT `+qsoColumns+` FROM qsos
			ORDER BY time_utc DESC
			LIMIT ? OFFSET ?`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQSOs(rows)
}

// Recent returns the most recent QSOs.
func (s *QSOStore) Recent(count int) ([]*core.QSO, error) {
	return s.List(count, 0, "")
}

// BySession returns every QSO of a session in logged order, oldest first.
// Used to rehydrate the scoring engine on startup.
func (s *QSOStore) BySession(sessionID string) ([]*core.QSO, error) {
	rows, err := s.db.conn.Query(`
		SELECT `+qsoColumns+` FROM qsos
		WHERE session_id = ?
		ORDER BY time_utc ASC, id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQSOs(rows)
}

// All returns the entire log in logged order, oldest first. Exports
// want chronological output.
func (s *QSOStore) All() ([]*core.QSO, error) {
	rows, err := s.db.conn.Query(`
		SELECT ` + qsoColumns + ` FROM qsos
		ORDER BY time_utc ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQSOs(rows)
}

// Search finds QSOs by partial callsign match, newest first.
func (s *QSOStore) Search(callsign string) ([]*core.QSO, error) {
	rows, err := s.db.conn.Query(`
		SELECT `+qsoColumns+` FROM qsos
		WHERE callsign LIKE ?
		ORDER BY time_utc DESC`, "%"+strings.ToUpper(callsign)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQSOs(rows)
}

// CheckDupe reports whether the callsign has been worked before,
// optionally narrowed by mode and session. This is the host's plain
// log-history dupe check; mode-specific dupe rules live in the engine.
func (s *QSOStore) CheckDupe(callsign string, mode core.EmissionMode, sessionID string) (bool, error) {
	query := "SELECT COUNT(*) FROM qsos WHERE callsign = ?"
	args := []interface{}{strings.ToUpper(callsign)}

	if mode != "" {
		query += " AND mode = ?"
		args = append(args, string(mode))
	}
	if sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}

	var count int
	if err := s.db.conn.QueryRow(query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update rewrites an existing QSO.
func (s *QSOStore) Update(q *core.QSO) error {
	res, err := s.db.conn.Exec(`
		UPDATE qsos SET
		    callsign = ?, frequency = ?, mode = ?, rst_sent = ?, rst_rcvd = ?,
		    time_utc = ?, notes = ?, session_id = ?, exchange_sent = ?, exchange_rcvd = ?,
		    name = ?, qth = ?, state = ?, country = ?, gridsquare = ?,
		    cq_zone = ?, itu_zone = ?, pota_ref = ?, sota_ref = ?,
		    tx_pwr = ?, operator = ?, my_gridsquare = ?, my_pota_ref = ?
		WHERE id = ?`,
		strings.ToUpper(q.Callsign), q.Frequency, string(q.Mode), q.RSTSent, q.RSTRcvd,
		q.Time.UTC(), q.Notes, nullString(q.SessionID), nullString(q.ExchangeSent), nullString(q.ExchangeRcvd),
		nullString(q.Name), nullString(q.QTH), nullString(q.State), nullString(q.Country), nullString(q.GridSquare),
		nullInt(q.CQZone), nullInt(q.ITUZone), nullString(q.POTARef), nullString(q.SOTARef),
		nullFloat(q.TxPower), nullString(q.Operator), nullString(q.MyGrid), nullString(q.MyPOTA),
		q.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

// Delete removes a QSO by ID.
func (s *QSOStore) Delete(id int64) error {
	res, err := s.db.conn.Exec("DELETE FROM qsos WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

// Count returns the total QSO count, optionally for one session.
func (s *QSOStore) Count(sessionID string) (int, error) {
	var count int
	var err error
	if sessionID != "" {
		err = s.db.conn.QueryRow("SELECT COUNT(*) FROM qsos WHERE session_id = ?", sessionID).Scan(&count)
	} else {
		err = s.db.conn.QueryRow("SELECT COUNT(*) FROM qsos").Scan(&count)
	}
	return count, err
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQSO(row rowScanner) (*core.QSO, error) {
	q := &core.QSO{}
	var sessionID, exchSent, exchRcvd sql.NullString
	var name, qth, state, country, grid sql.NullString
	var cqZone, ituZone sql.NullInt64
	var potaRef, sotaRef, operator, myGrid, myPOTA sql.NullString
	var txPwr sql.NullFloat64
	var mode string
	var createdAt sql.NullTime

	err := row.Scan(
		&q.ID, &q.Callsign, &q.Frequency, &mode, &q.RSTSent, &q.RSTRcvd, &q.Time, &q.Notes,
		&sessionID, &exchSent, &exchRcvd,
		&name, &qth, &state, &country, &grid, &cqZone, &ituZone,
		&potaRef, &sotaRef, &txPwr, &operator, &myGrid, &myPOTA, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	q.Mode = core.EmissionMode(mode)
	q.SessionID = sessionID.String
	q.ExchangeSent = exchSent.String
	q.ExchangeRcvd = exchRcvd.String
	q.Name = name.String
	q.QTH = qth.String
	q.State = state.String
	q.Country = country.String
	q.GridSquare = grid.String
	q.CQZone = int(cqZone.Int64)
	q.ITUZone = int(ituZone.Int64)
	q.POTARef = potaRef.String
	q.SOTARef = sotaRef.String
	q.TxPower = txPwr.Float64
	q.Operator = operator.String
	q.MyGrid = myGrid.String
	q.MyPOTA = myPOTA.String
	if createdAt.Valid {
		q.CreatedAt = createdAt.Time
	}
	q.Time = q.Time.UTC()
	return q, nil
}

func scanQSOs(rows *sql.Rows) ([]*core.QSO, error) {
	var out []*core.QSO
	for rows.Next() {
		q, err := scanQSO(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
