package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/jhoicas/lotes-api/internal/application/inventory"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/repository"
	"github.com/jhoicas/lotes-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del caso de uso de asignación FEFO sobre la infraestructura en memoria
// (misma semántica transaccional que el runner de PostgreSQL: serialización y
// rollback por snapshot).
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "prod-001"
	testLocationID = "loc-tienda-01"
	testActorID    = "user-cajero-01"
)

// seedLot crea un lote con existencia inicial directamente por el repo.
func seedLot(t *testing.T, store *memory.Store, lotCode string, expiration time.Time, qty decimal.Decimal) *entity.Lot {
	t.Helper()
	repo := memory.NewLotRepository(store)
	lot, err := repo.FindOrCreate(testProductID, testLocationID, lotCode, expiration, decimal.NewFromInt(100), time.Now())
	require.NoError(t, err)
	_, err = repo.ApplyDelta(lot.ID, qty)
	require.NoError(t, err)
	lot.Quantity = qty
	return lot
}

func lotQuantity(t *testing.T, store *memory.Store, lotID string) decimal.Decimal {
	t.Helper()
	lot, err := memory.NewLotRepository(store).GetByID(lotID)
	require.NoError(t, err)
	return lot.Quantity
}

func TestAllocate_DrenaEnOrdenFEFO(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	// Tres lotes de 5 unidades con vencimientos escalonados.
	l1 := seedLot(t, store, "L-1", base, decimal.NewFromInt(5))
	l2 := seedLot(t, store, "L-2", base.AddDate(0, 1, 0), decimal.NewFromInt(5))
	l3 := seedLot(t, store, "L-3", base.AddDate(0, 2, 0), decimal.NewFromInt(5))

	uc := appinv.NewAllocateUseCase(memory.NewTxRunner(store), nil)
	result, err := uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:      testProductID,
		LocationID:     testLocationID,
		Quantity:       decimal.NewFromInt(7),
		CorrelationRef: "venta-123",
		ActorID:        testActorID,
	})
	require.NoError(t, err)

	assert.False(t, result.Short, "con existencia suficiente no hay faltante")
	assert.True(t, result.Covered.Equal(decimal.NewFromInt(7)))
	assert.True(t, result.Uncovered.IsZero())

	// 5 del lote que vence primero y 2 del siguiente; el tercero ni se toca.
	require.Len(t, result.Movements, 2)
	assert.Equal(t, l1.ID, result.Movements[0].LotID)
	assert.True(t, result.Movements[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, l2.ID, result.Movements[1].LotID)
	assert.True(t, result.Movements[1].Quantity.Equal(decimal.NewFromInt(2)))

	assert.True(t, lotQuantity(t, store, l1.ID).IsZero())
	assert.True(t, lotQuantity(t, store, l2.ID).Equal(decimal.NewFromInt(3)))
	assert.True(t, lotQuantity(t, store, l3.ID).Equal(decimal.NewFromInt(5)),
		"el lote de vencimiento más lejano no debe consumirse")
}

func TestAllocate_FaltanteSeAsientaComoUncovered(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	seedLot(t, store, "L-1", base, decimal.NewFromInt(5))
	seedLot(t, store, "L-2", base.AddDate(0, 1, 0), decimal.NewFromInt(5))
	seedLot(t, store, "L-3", base.AddDate(0, 2, 0), decimal.NewFromInt(1))

	uc := appinv.NewAllocateUseCase(memory.NewTxRunner(store), nil)
	result, err := uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:      testProductID,
		LocationID:     testLocationID,
		Quantity:       decimal.NewFromInt(12),
		CorrelationRef: "venta-456",
		AllowUncovered: true,
		ActorID:        testActorID,
	})
	require.NoError(t, err, "el faltante es advertencia, no error")

	assert.True(t, result.Short)
	assert.True(t, result.Covered.Equal(decimal.NewFromInt(11)))
	assert.True(t, result.Uncovered.Equal(decimal.NewFromInt(1)))
	// Conservación: lo asentado siempre suma lo solicitado.
	assert.True(t, result.Covered.Add(result.Uncovered).Equal(result.Requested))

	// El último asiento es el faltante explícito: sin lote y marcado uncovered.
	require.Len(t, result.Movements, 4)
	last := result.Movements[3]
	assert.True(t, last.Uncovered)
	assert.Empty(t, last.LotID)
	assert.Equal(t, entity.MovementTypeEXIT, last.Type)
	assert.True(t, last.Quantity.Equal(decimal.NewFromInt(1)))

	// Y queda consultable en el libro con el filtro de faltantes.
	uncovered, err := memory.NewMovementRepository(store).List(repository.MovementFilter{OnlyUncovered: true})
	require.NoError(t, err)
	require.Len(t, uncovered, 1)
	assert.Equal(t, "venta-456", uncovered[0].CorrelationRef)
}

func TestAllocate_SinAllowUncovered_FallaYNoAplicaNada(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	l1 := seedLot(t, store, "L-1", base, decimal.NewFromInt(5))

	uc := appinv.NewAllocateUseCase(memory.NewTxRunner(store), nil)
	_, err := uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   decimal.NewFromInt(8),
		ActorID:    testActorID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback completo: ni descuentos parciales ni asientos en el libro.
	assert.True(t, lotQuantity(t, store, l1.ID).Equal(decimal.NewFromInt(5)),
		"un rechazo no debe dejar descuentos parciales")
	movements, err := memory.NewMovementRepository(store).List(repository.MovementFilter{})
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestAllocate_CantidadInvalida(t *testing.T) {
	store := memory.NewStore()
	uc := appinv.NewAllocateUseCase(memory.NewTxRunner(store), nil)

	_, err := uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   decimal.Zero,
		ActorID:    testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero se rechaza")

	_, err = uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   decimal.NewFromInt(-3),
		ActorID:    testActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa se rechaza")
}

// drainedLotRepo simula otro escritor drenando un lote entre el listado FEFO
// y el descuento: ApplyDelta sobre ese lote devuelve el error de stock ya
// envuelto por la infraestructura, como lo haría un repo real.
type drainedLotRepo struct {
	repository.LotRepository
	drainedID string
}

func (r drainedLotRepo) ApplyDelta(lotID string, delta decimal.Decimal) (decimal.Decimal, error) {
	if lotID == r.drainedID {
		return decimal.Zero, fmt.Errorf("aplicar delta condicional: %w", domain.ErrInsufficientStock)
	}
	return r.LotRepository.ApplyDelta(lotID, delta)
}

type drainedTxRunner struct {
	inner     *memory.TxRunner
	drainedID string
}

func (r drainedTxRunner) Run(ctx context.Context, fn func(
	lotRepo repository.LotRepository,
	movRepo repository.MovementRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return r.inner.Run(ctx, func(
		lotRepo repository.LotRepository,
		movRepo repository.MovementRepository,
		transferRepo repository.TransferRepository,
	) error {
		return fn(drainedLotRepo{LotRepository: lotRepo, drainedID: r.drainedID}, movRepo, transferRepo)
	})
}

// TestAllocate_LoteDrenadoPorOtroEscritor_SeOmite: el re-chequeo en el momento
// del descuento detecta el lote drenado aunque el error venga envuelto, y la
// asignación continúa con el siguiente lote en orden FEFO.
func TestAllocate_LoteDrenadoPorOtroEscritor_SeOmite(t *testing.T) {
	store := memory.NewStore()
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	l1 := seedLot(t, store, "L-1", base, decimal.NewFromInt(5))
	l2 := seedLot(t, store, "L-2", base.AddDate(0, 1, 0), decimal.NewFromInt(5))

	uc := appinv.NewAllocateUseCase(drainedTxRunner{
		inner:     memory.NewTxRunner(store),
		drainedID: l1.ID,
	}, nil)
	result, err := uc.Allocate(context.Background(), appinv.AllocationInput{
		ProductID:  testProductID,
		LocationID: testLocationID,
		Quantity:   decimal.NewFromInt(4),
		ActorID:    testActorID,
	})
	require.NoError(t, err)

	require.Len(t, result.Movements, 1)
	assert.Equal(t, l2.ID, result.Movements[0].LotID, "el lote drenado se omite y se sigue con el siguiente")
	assert.True(t, result.Covered.Equal(decimal.NewFromInt(4)))
	assert.False(t, result.Short)
	assert.True(t, lotQuantity(t, store, l2.ID).Equal(decimal.NewFromInt(1)))
}

// TestAllocate_ConcurrenciaNuncaSobrevende lanza N asignaciones de 1 unidad
// contra una existencia Q < N. La suma de lo cubierto debe ser exactamente Q,
// el resto sale como faltante explícito y el lote jamás queda negativo.
func TestAllocate_ConcurrenciaNuncaSobrevende(t *testing.T) {
	const n = 8
	stock := decimal.NewFromInt(5)

	store := memory.NewStore()
	lot := seedLot(t, store, "L-1", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), stock)
	uc := appinv.NewAllocateUseCase(memory.NewTxRunner(store), nil)

	var wg sync.WaitGroup
	results := make([]*appinv.AllocationResult, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = uc.Allocate(context.Background(), appinv.AllocationInput{
				ProductID:      testProductID,
				LocationID:     testLocationID,
				Quantity:       decimal.NewFromInt(1),
				AllowUncovered: true,
				ActorID:        testActorID,
			})
		}(i)
	}
	wg.Wait()

	totalCovered := decimal.Zero
	totalUncovered := decimal.Zero
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		totalCovered = totalCovered.Add(results[i].Covered)
		totalUncovered = totalUncovered.Add(results[i].Uncovered)
	}

	assert.True(t, totalCovered.Equal(stock),
		"lo cubierto entre todos debe ser exactamente la existencia inicial")
	assert.True(t, totalUncovered.Equal(decimal.NewFromInt(n).Sub(stock)),
		"el excedente sale como faltante explícito")

	final := lotQuantity(t, store, lot.ID)
	assert.True(t, final.IsZero(), "el lote termina en cero, nunca negativo")
}
