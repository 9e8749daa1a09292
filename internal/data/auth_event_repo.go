package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clubdesk/clubdesk-ui-api/internal/data/pgxutil"
	domainauth "github.com/clubdesk/clubdesk-ui-api/internal/domain/auth"
)

// AuthEventRepo persists the login audit trail.
type AuthEventRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAuthEventRepo creates a new AuthEventRepo with real time provider.
func NewAuthEventRepo(db *sql.DB) *AuthEventRepo {
	return &AuthEventRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewAuthEventRepoWithTimeProvider creates a new AuthEventRepo with a custom
// time provider (useful for tests).
func NewAuthEventRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AuthEventRepo {
	return &AuthEventRepo{DB: db, timeProvider: tp}
}

// Record inserts one audit event. A zero At timestamp is filled from the
// repo's time provider. Implements ports.AuthEventRecorder.
func (r *AuthEventRepo) Record(ctx context.Context, event domainauth.AuthEvent) error {
	if event.ID == "" || event.SessionID == "" || event.Kind == "" {
		return ErrAuthEventInvalid
	}
	at := event.At
	if at.IsZero() {
		at = r.timeProvider.Now()
	}

	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		_, execErr := conn.Exec(ctx, `
			INSERT INTO auth_events (id, session_id, user_id, kind, detail, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, event.ID, event.SessionID, event.UserID, string(event.Kind), event.Detail, at.UTC())
		return execErr
	})
	if err != nil {
		return r.mapWriteErr(err)
	}
	return nil
}

// ListRecentByUser returns the newest events for a user, newest first.
func (r *AuthEventRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]domainauth.AuthEvent, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if limit <= 0 {
		limit = 50
	}

	var out []domainauth.AuthEvent
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, `
			SELECT id, session_id, user_id, kind, detail, occurred_at
			FROM auth_events
			WHERE user_id = $1
			ORDER BY occurred_at DESC, id
			LIMIT $2
		`, userID, limit)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()

		for rows.Next() {
			var ev domainauth.AuthEvent
			var kind string
			if scanErr := rows.Scan(&ev.ID, &ev.SessionID, &ev.UserID, &kind, &ev.Detail, &ev.At); scanErr != nil {
				return scanErr
			}
			ev.Kind = domainauth.AuthEventKind(kind)
			out = append(out, ev)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	return out, nil
}

// CountFailedLoginsSince reports how many failed logins a session produced
// after the cutoff, for operator dashboards.
func (r *AuthEventRepo) CountFailedLoginsSince(ctx context.Context, sessionID string, cutoff sql.NullTime) (int, error) {
	if sessionID == "" {
		return 0, errors.New("session ID is required")
	}

	var count int
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT count(*)
			FROM auth_events
			WHERE session_id = $1
			  AND kind = $2
			  AND ($3::timestamptz IS NULL OR occurred_at >= $3)
		`, sessionID, string(domainauth.AuthEventLoginFailed), cutoff)
		return row.Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("count failed logins: %w", err)
	}
	return count, nil
}

func (r *AuthEventRepo) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrAuthEventExists
	}
	return fmt.Errorf("insert auth event: %w", err)
}
