package inventory

import (
	"context"

	"github.com/jhoicas/lotes-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de lotes:
// un movimiento o queda persistido completo antes de retornar, o la llamada
// falla sin comprometer ninguna mutación de lote.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error) error
}
