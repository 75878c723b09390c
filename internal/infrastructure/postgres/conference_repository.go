package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.ConferenceRepository = (*ConferenceRepo)(nil)

// ConferenceRepo implementación de ConferenceRepository sobre PostgreSQL
// (usable con pool o tx). Tablas conference_sessions y conference_items
// (PK compuesta session_id + product_id para el upsert de escaneos).
type ConferenceRepo struct {
	q Querier
}

// NewConferenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConferenceRepository(q Querier) *ConferenceRepo {
	return &ConferenceRepo{q: q}
}

// Create persiste una sesión nueva (in_progress, sin renglones).
func (r *ConferenceRepo) Create(session *entity.ConferenceSession) error {
	query := `
		INSERT INTO conference_sessions (id, source_ref, source_type, location_id, status, started_by, created_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		session.ID, session.SourceRef, session.SourceType, session.LocationID,
		session.Status, session.StartedBy, session.CreatedAt, session.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("create conference session: %w", err)
	}
	return nil
}

// GetByID obtiene la sesión con sus renglones cargados.
func (r *ConferenceRepo) GetByID(id string) (*entity.ConferenceSession, error) {
	query := `
		SELECT id, source_ref, source_type, location_id, status, started_by, created_at, finished_at
		FROM conference_sessions WHERE id = $1`
	var s entity.ConferenceSession
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.SourceRef, &s.SourceType, &s.LocationID,
		&s.Status, &s.StartedBy, &s.CreatedAt, &s.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conference session: %w", err)
	}

	s.Items = map[string]*entity.ConferenceItem{}
	itemsQuery := `
		SELECT product_id, expected, scanned, delta
		FROM conference_items WHERE session_id = $1`
	rows, err := r.q.Query(context.Background(), itemsQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list conference items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.ConferenceItem
		if err := rows.Scan(&item.ProductID, &item.Expected, &item.Scanned, &item.Delta); err != nil {
			return nil, fmt.Errorf("scan conference item: %w", err)
		}
		s.Items[item.ProductID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertScan registra el escaneo de un producto; reescanear sobrescribe.
func (r *ConferenceRepo) UpsertScan(sessionID, productID string, scanned decimal.Decimal) error {
	query := `
		INSERT INTO conference_items (session_id, product_id, expected, scanned, delta)
		VALUES ($1, $2, 0, $3, 0)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET scanned = EXCLUDED.scanned`
	_, err := r.q.Exec(context.Background(), query, sessionID, productID, scanned)
	if err != nil {
		return fmt.Errorf("upsert conference scan: %w", err)
	}
	return nil
}

// beginner lo satisfacen tanto *pgxpool.Pool como pgx.Tx (savepoint anidado).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Close fija el estado terminal de la sesión y persiste esperado/delta por
// renglón como una sola unidad: la transición y los renglones quedan todos o
// ninguno. La condición status = 'in_progress' en el update garantiza que la
// transición terminal ocurre exactamente una vez.
func (r *ConferenceRepo) Close(session *entity.ConferenceSession) error {
	ctx := context.Background()
	b, ok := r.q.(beginner)
	if !ok {
		return r.closeWith(r.q, session)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin close conference: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if err := r.closeWith(tx, session); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit close conference: %w", err)
	}
	return nil
}

func (r *ConferenceRepo) closeWith(q Querier, session *entity.ConferenceSession) error {
	query := `
		UPDATE conference_sessions SET status = $2, finished_at = $3
		WHERE id = $1 AND status = $4`
	tag, err := q.Exec(context.Background(), query,
		session.ID, session.Status, session.FinishedAt, entity.ConferenceStatusInProgress,
	)
	if err != nil {
		return fmt.Errorf("close conference session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConferenceClosed
	}

	itemQuery := `
		INSERT INTO conference_items (session_id, product_id, expected, scanned, delta)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id, product_id)
		DO UPDATE SET expected = EXCLUDED.expected, scanned = EXCLUDED.scanned, delta = EXCLUDED.delta`
	for _, item := range session.Items {
		if _, err := q.Exec(context.Background(), itemQuery,
			session.ID, item.ProductID, item.Expected, item.Scanned, item.Delta,
		); err != nil {
			return fmt.Errorf("close conference item: %w", err)
		}
	}
	return nil
}
