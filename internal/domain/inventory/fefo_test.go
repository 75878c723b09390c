package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
	"github.com/jhoicas/lotes-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del orden FEFO: vencimiento ascendente, desempate por fecha de
// recepción y luego por id. El orden debe ser determinista: dos réplicas con
// los mismos lotes siempre consumen en la misma secuencia.
// ──────────────────────────────────────────────────────────────────────────────

func lotFEFO(id string, exp, received time.Time) *entity.Lot {
	return &entity.Lot{ID: id, ExpirationDate: exp, ReceivedDate: received}
}

func TestLess_VencimientoMasProximoPrimero(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := lotFEFO("a", base, base)
	b := lotFEFO("b", base.AddDate(0, 0, 30), base)

	assert.True(t, inventory.Less(a, b), "el lote que vence antes se consume primero")
	assert.False(t, inventory.Less(b, a))
}

func TestLess_EmpateVencimiento_DesempataPorRecepcion(t *testing.T) {
	exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	viejo := lotFEFO("b", exp, exp.AddDate(0, -2, 0))
	nuevo := lotFEFO("a", exp, exp.AddDate(0, -1, 0))

	assert.True(t, inventory.Less(viejo, nuevo),
		"con el mismo vencimiento, el recibido antes se consume primero")
}

func TestLess_EmpateTotal_DesempataPorID(t *testing.T) {
	exp := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	a := lotFEFO("aaa", exp, exp)
	b := lotFEFO("bbb", exp, exp)

	assert.True(t, inventory.Less(a, b))
	assert.False(t, inventory.Less(b, a))
}

func TestSort_OrdenCompletoDeterminista(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lots := []*entity.Lot{
		lotFEFO("z", base.AddDate(0, 2, 0), base),
		lotFEFO("m", base.AddDate(0, 1, 0), base.AddDate(0, 0, 5)),
		lotFEFO("a", base.AddDate(0, 1, 0), base),
		lotFEFO("b", base, base),
	}

	inventory.Sort(lots)

	got := []string{lots[0].ID, lots[1].ID, lots[2].ID, lots[3].ID}
	assert.Equal(t, []string{"b", "a", "m", "z"}, got,
		"vencimiento asc, luego recepción asc, luego id")
}
