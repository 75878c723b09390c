package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = "id, lot_id, product_id, location_id, lot_code, type, quantity, uncovered, correlation_ref, note, created_at, created_by"

// MovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Solo INSERT y SELECT: el libro es inmutable.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un asiento del libro.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	lotID := (*string)(nil)
	if movement.LotID != "" {
		lotID = &movement.LotID
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, lotID, movement.ProductID, movement.LocationID, movement.LotCode,
		movement.Type, movement.Quantity, movement.Uncovered,
		movement.CorrelationRef, movement.Note, movement.CreatedAt, movement.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por id.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	mov, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return mov, nil
}

// List consulta el libro con filtros (producto, ubicación, referencia de
// correlación, rango de fechas, solo-uncovered) y paginación.
func (r *MovementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, filter.ProductID)
		pos++
	}
	if filter.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, filter.LocationID)
		pos++
	}
	if filter.CorrelationRef != "" {
		query += fmt.Sprintf(" AND correlation_ref = $%d", pos)
		args = append(args, filter.CorrelationRef)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	if filter.OnlyUncovered {
		query += " AND uncovered"
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		mov, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, mov)
	}
	return list, rows.Err()
}

// SumEntriesByCorrelation suma por producto los asientos de clase entrada de
// una ubicación con la referencia dada (lo esperado para un conteo ciego).
func (r *MovementRepo) SumEntriesByCorrelation(locationID, correlationRef string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT product_id, SUM(quantity)
		FROM movements
		WHERE location_id = $1 AND correlation_ref = $2 AND type IN ($3, $4)
		GROUP BY product_id`
	rows, err := r.q.Query(context.Background(), query,
		locationID, correlationRef, entity.MovementTypeENTRY, entity.MovementTypeTRANSFERIN,
	)
	if err != nil {
		return nil, fmt.Errorf("sum entries by correlation: %w", err)
	}
	defer rows.Close()

	sums := map[string]decimal.Decimal{}
	for rows.Next() {
		var productID string
		var qty decimal.Decimal
		if err := rows.Scan(&productID, &qty); err != nil {
			return nil, fmt.Errorf("scan correlation sum: %w", err)
		}
		sums[productID] = qty
	}
	return sums, rows.Err()
}

func (r *MovementRepo) scanOne(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var lotID *string
	err := row.Scan(
		&m.ID, &lotID, &m.ProductID, &m.LocationID, &m.LotCode, &m.Type,
		&m.Quantity, &m.Uncovered, &m.CorrelationRef, &m.Note, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	if lotID != nil {
		m.LotID = *lotID
	}
	return &m, nil
}
