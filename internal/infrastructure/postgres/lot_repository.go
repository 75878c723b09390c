package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

const lotColumns = "id, product_id, location_id, lot_code, expiration_date, unit_cost, received_date, quantity, updated_at"

// LotRepo implementación de LotRepository sobre PostgreSQL (usable con pool o tx).
// Tabla lots con constraint único (product_id, location_id, lot_code).
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// GetByID obtiene un lote por id.
func (r *LotRepo) GetByID(id string) (*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE id = $1`
	lot, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return lot, nil
}

// GetByKeyForUpdate obtiene el lote de la clave de identidad bloqueado para
// la transacción en curso (SELECT FOR UPDATE).
func (r *LotRepo) GetByKeyForUpdate(productID, locationID, lotCode string) (*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots WHERE product_id = $1 AND location_id = $2 AND lot_code = $3
		FOR UPDATE`
	lot, err := r.scanOne(r.q.QueryRow(context.Background(), query, productID, locationID, lotCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get lot for update: %w", err)
	}
	return lot, nil
}

// FindOrCreate devuelve el lote de la clave de identidad, creándolo en cero
// si no existe. El vencimiento y el costo quedan fijados en la creación; un
// reingreso con otro vencimiento u otro costo unitario para el mismo código
// es domain.ErrLotConflict, nunca una sobrescritura silenciosa.
func (r *LotRepo) FindOrCreate(productID, locationID, lotCode string, expiration time.Time, unitCost decimal.Decimal, receivedAt time.Time) (*entity.Lot, error) {
	existing, err := r.GetByKeyForUpdate(productID, locationID, lotCode)
	if err == nil {
		if !sameDay(existing.ExpirationDate, expiration) || !existing.UnitCost.Equal(unitCost) {
			return nil, domain.ErrLotConflict
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	lot := &entity.Lot{
		ID:             uuid.New().String(),
		ProductID:      productID,
		LocationID:     locationID,
		LotCode:        lotCode,
		ExpirationDate: expiration,
		UnitCost:       unitCost,
		ReceivedDate:   receivedAt,
		Quantity:       decimal.Zero,
		UpdatedAt:      receivedAt,
	}
	query := `
		INSERT INTO lots (` + lotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(context.Background(), query,
		lot.ID, lot.ProductID, lot.LocationID, lot.LotCode,
		lot.ExpirationDate, lot.UnitCost, lot.ReceivedDate, lot.Quantity, lot.UpdatedAt,
	)
	if err != nil {
		// Carrera con otro escritor sobre la misma clave: releer la fila ya
		// creada y validar el vencimiento contra ella.
		if isUniqueViolation(err) {
			existing, rerr := r.GetByKeyForUpdate(productID, locationID, lotCode)
			if rerr != nil {
				return nil, rerr
			}
			if !sameDay(existing.ExpirationDate, expiration) || !existing.UnitCost.Equal(unitCost) {
				return nil, domain.ErrLotConflict
			}
			return existing, nil
		}
		return nil, fmt.Errorf("create lot: %w", err)
	}
	return lot, nil
}

// ListAvailableForUpdate lista lotes con existencia en orden FEFO y los
// bloquea para la transacción (vencimiento asc, recepción asc, id asc).
func (r *LotRepo) ListAvailableForUpdate(productID, locationID string) ([]*entity.Lot, error) {
	query := `
		SELECT ` + lotColumns + `
		FROM lots
		WHERE product_id = $1 AND location_id = $2 AND quantity > 0
		ORDER BY expiration_date ASC, received_date ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, productID, locationID)
	if err != nil {
		return nil, fmt.Errorf("list available lots: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// ApplyDelta ajusta la cantidad de forma atómica y condicional: el update
// solo aplica si el resultado no queda negativo. Devuelve la cantidad
// resultante; domain.ErrInsufficientStock si la condición no se cumple.
func (r *LotRepo) ApplyDelta(lotID string, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE lots SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`
	var quantity decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, lotID, delta).Scan(&quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domain.ErrInsufficientStock
		}
		return decimal.Zero, fmt.Errorf("apply lot delta: %w", err)
	}
	return quantity, nil
}

// List consulta lotes con filtros para la superficie de auditoría.
func (r *LotRepo) List(filter repository.LotFilter) ([]*entity.Lot, error) {
	query := `SELECT ` + lotColumns + ` FROM lots WHERE 1=1`
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
	if !filter.IncludeEmpty {
		query += " AND quantity > 0"
	}
	query += fmt.Sprintf(" ORDER BY expiration_date ASC, received_date ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *LotRepo) scanOne(row pgx.Row) (*entity.Lot, error) {
	var l entity.Lot
	err := row.Scan(
		&l.ID, &l.ProductID, &l.LocationID, &l.LotCode,
		&l.ExpirationDate, &l.UnitCost, &l.ReceivedDate, &l.Quantity, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotRepo) scanAll(rows pgx.Rows) ([]*entity.Lot, error) {
	var list []*entity.Lot
	for rows.Next() {
		lot, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lot: %w", err)
		}
		list = append(list, lot)
	}
	return list, rows.Err()
}

// sameDay compara vencimientos a granularidad de día (la fecha de vencimiento
// de un lote es una fecha, no un instante).
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
