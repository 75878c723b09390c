package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/pkg/logger"
	"github.com/jhoicas/lotes-api/pkg/metrics"
)

// TransferUseCase reubica la cantidad de un lote entre dos ubicaciones como
// una sola unidad lógica: débito en origen y abono en destino dentro de la
// misma transacción, ambos asientos con el id de la transferencia. Nunca es
// observable un estado con el origen debitado y el destino sin abonar.
type TransferUseCase struct {
	txRunner     TxRunner
	transferRepo repository.TransferRepository
	locationRepo repository.LocationRepository
	log          *logger.Logger
	metrics      *metrics.Metrics
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	transferRepo repository.TransferRepository,
	locationRepo repository.LocationRepository,
	log *logger.Logger,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		transferRepo: transferRepo,
		locationRepo: locationRepo,
		log:          log,
		metrics:      m,
	}
}

// TransferInput entrada para una transferencia de lote.
type TransferInput struct {
	ProductID      string
	SourceLocation string
	DestLocation   string
	LotCode        string
	Quantity       decimal.Decimal
	ActorID        string
}

// Transfer valida, registra la transferencia en pending y aplica débito +
// abono + completed en una transacción. Si la tx falla, el rollback recompensa
// el origen y la transferencia queda cancelled; completed solo existe junto a
// sus dos asientos durables.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.Transfer, error) {
	if input.ProductID == "" || input.LotCode == "" || input.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if input.SourceLocation == "" || input.DestLocation == "" || input.SourceLocation == input.DestLocation {
		return nil, domain.ErrInvalidInput
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if loc, err := uc.locationRepo.GetByID(input.SourceLocation); err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}
	if loc, err := uc.locationRepo.GetByID(input.DestLocation); err != nil || loc == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	transfer := &entity.Transfer{
		ID:             uuid.New().String(),
		ProductID:      input.ProductID,
		SourceLocation: input.SourceLocation,
		DestLocation:   input.DestLocation,
		LotCode:        input.LotCode,
		Quantity:       input.Quantity,
		Status:         entity.TransferStatusPending,
		InitiatedBy:    input.ActorID,
		CreatedAt:      now,
	}
	// El registro pending se persiste antes de mover nada: si la aplicación
	// transaccional falla queda rastro auditable de la solicitud.
	if err := uc.transferRepo.Create(transfer); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		source, err := lotRepo.GetByKeyForUpdate(input.ProductID, input.SourceLocation, input.LotCode)
		if err != nil {
			return err
		}
		if source.Quantity.LessThan(input.Quantity) {
			return domain.ErrInsufficientStock
		}
		if _, err := lotRepo.ApplyDelta(source.ID, input.Quantity.Neg()); err != nil {
			return err
		}
		outMov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          source.ID,
			ProductID:      input.ProductID,
			LocationID:     input.SourceLocation,
			LotCode:        input.LotCode,
			Type:           entity.MovementTypeTRANSFEROUT,
			Quantity:       input.Quantity,
			CorrelationRef: transfer.ID,
			CreatedAt:      now,
			CreatedBy:      input.ActorID,
		}
		if err := movRepo.Create(outMov); err != nil {
			return err
		}

		// Lado destino: cualquier falla aquí dejaría el origen debitado a
		// medias; el rollback de la tx es la recompensa y el error se marca
		// como falla de atomicidad. El error interno se envuelve con %w para
		// que su sentinela (ej. conflicto de lote en destino) siga visible
		// vía errors.Is.
		dest, err := lotRepo.FindOrCreate(
			input.ProductID, input.DestLocation, input.LotCode,
			source.ExpirationDate, source.UnitCost, now,
		)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferAtomicity, err)
		}
		if _, err := lotRepo.ApplyDelta(dest.ID, input.Quantity); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferAtomicity, err)
		}
		inMov := &entity.Movement{
			ID:             uuid.New().String(),
			LotID:          dest.ID,
			ProductID:      input.ProductID,
			LocationID:     input.DestLocation,
			LotCode:        input.LotCode,
			Type:           entity.MovementTypeTRANSFERIN,
			Quantity:       input.Quantity,
			CorrelationRef: transfer.ID,
			CreatedAt:      now,
			CreatedBy:      input.ActorID,
		}
		if err := movRepo.Create(inMov); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrTransferAtomicity, err)
		}

		completedAt := now
		return transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusCompleted, &completedAt)
	})
	if err != nil {
		if uerr := uc.transferRepo.UpdateStatus(transfer.ID, entity.TransferStatusCancelled, nil); uerr != nil {
			uc.log.Error().Err(uerr).Str("transfer_id", transfer.ID).Msg("marcar transferencia cancelada")
		}
		transfer.Status = entity.TransferStatusCancelled
		uc.metrics.Transfer(entity.TransferStatusCancelled)
		if errors.Is(err, domain.ErrTransferAtomicity) {
			uc.log.Error().Err(err).Str("transfer_id", transfer.ID).Msg("abono en destino falló; origen recompensado por rollback")
		}
		return nil, err
	}

	completedAt := now
	transfer.Status = entity.TransferStatusCompleted
	transfer.CompletedAt = &completedAt
	uc.metrics.Transfer(entity.TransferStatusCompleted)
	uc.metrics.Movement(entity.MovementTypeTRANSFEROUT)
	uc.metrics.Movement(entity.MovementTypeTRANSFERIN)
	return transfer, nil
}
