package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/metrics"
)

// RegisterEntryUseCase registra entradas de mercancía por lote de forma
// transaccional: find-or-create del lote por clave de identidad, suma de
// cantidad y asiento ENTRY en el libro.
type RegisterEntryUseCase struct {
	txRunner     TxRunner
	locationRepo repository.LocationRepository
	metrics      *metrics.Metrics
}

// NewRegisterEntryUseCase construye el caso de uso.
func NewRegisterEntryUseCase(txRunner TxRunner, locationRepo repository.LocationRepository, m *metrics.Metrics) *RegisterEntryUseCase {
	return &RegisterEntryUseCase{txRunner: txRunner, locationRepo: locationRepo, metrics: m}
}

// EntryInput entrada para registrar una entrada de mercancía.
type EntryInput struct {
	ProductID      string
	LocationID     string
	LotCode        string
	ExpirationDate time.Time
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	SourceDocument string // referencia de correlación (factura, importación)
	Note           string
	ActorID        string
}

// RegisterEntry valida la entrada, hace find-or-create del lote y asienta el
// movimiento. Reingresos con la misma clave (producto, ubicación, código de
// lote, vencimiento) acumulan sobre el mismo lote; un vencimiento distinto
// para el mismo código falla con domain.ErrLotConflict, nunca sobrescribe.
func (uc *RegisterEntryUseCase) RegisterEntry(ctx context.Context, input EntryInput) (*entity.Movement, error) {
	if input.ProductID == "" || input.LocationID == "" || input.LotCode == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) || input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if input.ExpirationDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if loc, err := uc.locationRepo.GetByID(input.LocationID); err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		_ repository.TransferRepository,
	) error {
		lot, err := lotRepo.FindOrCreate(
			input.ProductID, input.LocationID, input.LotCode,
			input.ExpirationDate, input.UnitCost, now,
		)
		if err != nil {
			return err
		}
		if _, err := lotRepo.ApplyDelta(lot.ID, input.Quantity); err != nil {
			return err
		}
		mov = &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          lot.ID,
			ProductID:      input.ProductID,
			LocationID:     input.LocationID,
			LotCode:        input.LotCode,
			Type:           entity.MovementTypeENTRY,
			Quantity:       input.Quantity,
			CorrelationRef: input.SourceDocument,
			Note:           input.Note,
			CreatedAt:      now,
			CreatedBy:      input.ActorID,
		}
		return movRepo.Create(mov)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.Movement(entity.MovementTypeENTRY)
	return mov, nil
}
