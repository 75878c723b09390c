package conference_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lotes-api/internal/application/conference"
	"github.com/jhoicas/lotes-api/internal/domain"
	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del conteo ciego: el operador escanea sin ver lo esperado; al cerrar,
// lo escaneado se compara contra los asientos de clase entrada del origen.
// Cerrar nunca muta lotes: la conciliación es otra operación.
// ──────────────────────────────────────────────────────────────────────────────

const (
	confLocationID = "loc-tienda-03"
	confActorID    = "user-bodeguero-02"
	confTransferID = "transfer-777"
)

type confFixture struct {
	uc    *conference.UseCase
	store *memory.Store
}

func newConfFixture(t *testing.T) *confFixture {
	t.Helper()
	store := memory.NewStore()
	locationRepo := memory.NewLocationRepository(store)
	require.NoError(t, locationRepo.Create(&entity.Location{
		ID: confLocationID, Name: "Tienda Sur", Kind: entity.LocationKindStore,
	}))
	require.NoError(t, memory.NewTransferRepository(store).Create(&entity.Transfer{
		ID:           confTransferID,
		ProductID:    "prod-001",
		DestLocation: confLocationID,
		Status:       entity.TransferStatusCompleted,
		CreatedAt:    time.Now(),
	}))
	uc := conference.NewUseCase(
		memory.NewConferenceRepository(store),
		memory.NewMovementRepository(store),
		memory.NewTransferRepository(store),
		locationRepo,
		nil,
	)
	return &confFixture{uc: uc, store: store}
}

// seedExpected asienta lo que el origen dice haber enviado: movimientos de
// clase entrada en la ubicación con la referencia de correlación del origen.
func (fx *confFixture) seedExpected(t *testing.T, productID string, qty int64) {
	t.Helper()
	require.NoError(t, memory.NewMovementRepository(fx.store).Create(&entity.Movement{
		LotID:          "lot-x",
		ProductID:      productID,
		LocationID:     confLocationID,
		Type:           entity.MovementTypeTRANSFERIN,
		Quantity:       decimal.NewFromInt(qty),
		CorrelationRef: confTransferID,
		CreatedAt:      time.Now(),
		CreatedBy:      confActorID,
	}))
}

func (fx *confFixture) start(t *testing.T) *entity.ConferenceSession {
	t.Helper()
	session, err := fx.uc.Start(context.Background(), conference.StartInput{
		SourceRef:  confTransferID,
		SourceType: entity.ConferenceSourceTransfer,
		LocationID: confLocationID,
		ActorID:    confActorID,
	})
	require.NoError(t, err)
	return session
}

func TestStart_AbreSesionEnProgreso(t *testing.T) {
	fx := newConfFixture(t)
	session := fx.start(t)

	assert.Equal(t, entity.ConferenceStatusInProgress, session.Status)
	assert.Equal(t, confTransferID, session.SourceRef)
	assert.Empty(t, session.Items)
	assert.False(t, session.Terminal())
}

func TestStart_TransferenciaInexistente(t *testing.T) {
	fx := newConfFixture(t)
	_, err := fx.uc.Start(context.Background(), conference.StartInput{
		SourceRef:  "transfer-no-existe",
		SourceType: entity.ConferenceSourceTransfer,
		LocationID: confLocationID,
		ActorID:    confActorID,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStart_OrigenImportNoExigeTransferencia(t *testing.T) {
	fx := newConfFixture(t)
	session, err := fx.uc.Start(context.Background(), conference.StartInput{
		SourceRef:  "import-2026-001",
		SourceType: entity.ConferenceSourceImport,
		LocationID: confLocationID,
		ActorID:    confActorID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ConferenceSourceImport, session.SourceType)
}

func TestStart_TipoDeOrigenInvalido(t *testing.T) {
	fx := newConfFixture(t)
	_, err := fx.uc.Start(context.Background(), conference.StartInput{
		SourceRef:  confTransferID,
		SourceType: "purchase_order",
		LocationID: confLocationID,
		ActorID:    confActorID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordScan_ReescanearSobrescribe(t *testing.T) {
	fx := newConfFixture(t)
	session := fx.start(t)

	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(10)))
	// Recuento del mismo producto: gana la última lectura, no se duplica.
	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(12)))

	stored, err := memory.NewConferenceRepository(fx.store).GetByID(session.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items["prod-001"].Scanned.Equal(decimal.NewFromInt(12)))
}

func TestRecordScan_CantidadNegativa(t *testing.T) {
	fx := newConfFixture(t)
	session := fx.start(t)
	err := fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFinish_TodoCoincide_Completed(t *testing.T) {
	fx := newConfFixture(t)
	fx.seedExpected(t, "prod-001", 10)
	fx.seedExpected(t, "prod-002", 3)
	session := fx.start(t)

	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(10)))
	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-002", decimal.NewFromInt(3)))

	closed, err := fx.uc.Finish(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ConferenceStatusCompleted, closed.Status)
	require.NotNil(t, closed.FinishedAt)
	for _, item := range closed.Items {
		assert.True(t, item.Delta.IsZero(), "sin divergencia todos los deltas son cero")
	}
}

func TestFinish_DiferenciaEnCantidad_Divergent(t *testing.T) {
	fx := newConfFixture(t)
	fx.seedExpected(t, "prod-001", 10)
	session := fx.start(t)

	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(12)))

	closed, err := fx.uc.Finish(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ConferenceStatusDivergent, closed.Status)
	item := closed.Items["prod-001"]
	require.NotNil(t, item)
	assert.True(t, item.Expected.Equal(decimal.NewFromInt(10)))
	assert.True(t, item.Delta.Equal(decimal.NewFromInt(2)), "delta = escaneado - esperado")
}

func TestFinish_EsperadoNuncaEscaneado_Divergent(t *testing.T) {
	fx := newConfFixture(t)
	fx.seedExpected(t, "prod-001", 10)
	fx.seedExpected(t, "prod-002", 5)
	session := fx.start(t)

	// Solo se escanea uno de los dos productos esperados.
	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(10)))

	closed, err := fx.uc.Finish(context.Background(), session.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ConferenceStatusDivergent, closed.Status)
	faltante := closed.Items["prod-002"]
	require.NotNil(t, faltante, "lo esperado no contado entra a la comparación con escaneado cero")
	assert.True(t, faltante.Scanned.IsZero())
	assert.True(t, faltante.Delta.Equal(decimal.NewFromInt(-5)))
}

func TestFinish_NoMutaLotes(t *testing.T) {
	fx := newConfFixture(t)
	lotRepo := memory.NewLotRepository(fx.store)
	lot, err := lotRepo.FindOrCreate("prod-001", confLocationID, "L-1",
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(50), time.Now())
	require.NoError(t, err)
	_, err = lotRepo.ApplyDelta(lot.ID, decimal.NewFromInt(10))
	require.NoError(t, err)

	fx.seedExpected(t, "prod-001", 10)
	session := fx.start(t)
	require.NoError(t, fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(7)))

	closed, err := fx.uc.Finish(context.Background(), session.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ConferenceStatusDivergent, closed.Status)

	after, err := lotRepo.GetByID(lot.ID)
	require.NoError(t, err)
	assert.True(t, after.Quantity.Equal(decimal.NewFromInt(10)),
		"cerrar con divergencia no corrige existencias; conciliar es otra operación")
}

func TestSesionTerminal_RechazaEscaneosYCierres(t *testing.T) {
	fx := newConfFixture(t)
	session := fx.start(t)

	_, err := fx.uc.Finish(context.Background(), session.ID)
	require.NoError(t, err)

	err = fx.uc.RecordScan(context.Background(), session.ID, "prod-001", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrConferenceClosed, "una sesión cerrada no acepta escaneos")

	_, err = fx.uc.Finish(context.Background(), session.ID)
	assert.ErrorIs(t, err, domain.ErrConferenceClosed, "el estado terminal se fija exactamente una vez")
}

func TestFinish_SesionInexistente(t *testing.T) {
	fx := newConfFixture(t)
	_, err := fx.uc.Finish(context.Background(), "sesion-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
