package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/metrics"
)

// AllocateUseCase descuenta una cantidad solicitada de un producto en una
// ubicación drenando lotes en orden FEFO, un asiento EXIT por cada descuento
// parcial, todo dentro de una transacción.
type AllocateUseCase struct {
	txRunner TxRunner
	metrics  *metrics.Metrics
}

// NewAllocateUseCase construye el caso de uso.
func NewAllocateUseCase(txRunner TxRunner, m *metrics.Metrics) *AllocateUseCase {
	return &AllocateUseCase{txRunner: txRunner, metrics: m}
}

// AllocationInput entrada para una asignación FEFO.
type AllocationInput struct {
	ProductID      string
	LocationID     string
	Quantity       decimal.Decimal
	CorrelationRef string
	// AllowUncovered: si los lotes se agotan con remanente, el faltante se
	// asienta como movimiento uncovered en lugar de fallar la operación del
	// iniciador. Con false, el faltante es domain.ErrInsufficientStock y no
	// se aplica nada.
	AllowUncovered bool
	Note           string
	ActorID        string
}

// AllocationResult resultado de una asignación. La suma de los asientos
// emitidos (Covered + Uncovered) siempre es igual a Requested. Short es una
// advertencia para el iniciador, no un error: bloquear una transacción de
// negocio ya completada por un hueco de datos no es política de este núcleo.
type AllocationResult struct {
	Requested decimal.Decimal
	Covered   decimal.Decimal
	Uncovered decimal.Decimal
	Short     bool
	Movements []*entity.Movement
}

// Allocate consume la cantidad solicitada en orden FEFO. Cada descuento se
// re-chequea en el momento de aplicarse (delta condicional sobre la fila
// bloqueada), no contra el snapshot del listado inicial.
func (uc *AllocateUseCase) Allocate(ctx context.Context, input AllocationInput) (*AllocationResult, error) {
	if input.ProductID == "" || input.LocationID == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	result := &AllocationResult{Requested: input.Quantity}

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		_ repository.TransferRepository,
	) error {
		// El resultado se reconstruye en cada intento: la tx puede reintentarse.
		result.Covered = decimal.Zero
		result.Uncovered = decimal.Zero
		result.Short = false
		result.Movements = nil

		lots, err := lotRepo.ListAvailableForUpdate(input.ProductID, input.LocationID)
		if err != nil {
			return err
		}

		remaining := input.Quantity
		for _, lot := range lots {
			if !remaining.GreaterThan(decimal.Zero) {
				break
			}
			take := decimal.Min(lot.Quantity, remaining)
			if !take.GreaterThan(decimal.Zero) {
				continue
			}
			if _, err := lotRepo.ApplyDelta(lot.ID, take.Neg()); err != nil {
				// Otro escritor drenó el lote entre el listado y el descuento:
				// el delta condicional lo detecta; se sigue con el siguiente lote.
				if errors.Is(err, domain.ErrInsufficientStock) {
					continue
				}
				return err
			}
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				LotID:          lot.ID,
				ProductID:      input.ProductID,
				LocationID:     input.LocationID,
				LotCode:        lot.LotCode,
				Type:           entity.MovementTypeEXIT,
				Quantity:       take,
				CorrelationRef: input.CorrelationRef,
				Note:           input.Note,
				CreatedAt:      now,
				CreatedBy:      input.ActorID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			result.Movements = append(result.Movements, mov)
			result.Covered = result.Covered.Add(take)
			remaining = remaining.Sub(take)
		}

		if remaining.GreaterThan(decimal.Zero) {
			if !input.AllowUncovered {
				return domain.ErrInsufficientStock
			}
			// Lotes agotados con remanente: el faltante se asienta explícito
			// (sin lote) para que quede visible y consultable en el libro.
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				ProductID:      input.ProductID,
				LocationID:     input.LocationID,
				Type:           entity.MovementTypeEXIT,
				Quantity:       remaining,
				Uncovered:      true,
				CorrelationRef: input.CorrelationRef,
				Note:           input.Note,
				CreatedAt:      now,
				CreatedBy:      input.ActorID,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			result.Movements = append(result.Movements, mov)
			result.Uncovered = remaining
			result.Short = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for range result.Movements {
		uc.metrics.Movement(entity.MovementTypeEXIT)
	}
	if result.Short {
		qty, _ := result.Uncovered.Float64()
		uc.metrics.UncoveredQty(qty)
	}
	return result, nil
}
