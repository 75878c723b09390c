package inventory

import (
	"sort"

	"github.com/jhoicas/lotes-api/internal/domain/entity"
)

// Orden FEFO (First-Expired-First-Out) para consumo de lotes (servicio de dominio).
// Criterio determinista: vencimiento ascendente, desempate por fecha de
// recepción ascendente y luego por id de lote.

// Less indica si a se consume antes que b bajo FEFO.
func Less(a, b *entity.Lot) bool {
	if !a.ExpirationDate.Equal(b.ExpirationDate) {
		return a.ExpirationDate.Before(b.ExpirationDate)
	}
	if !a.ReceivedDate.Equal(b.ReceivedDate) {
		return a.ReceivedDate.Before(b.ReceivedDate)
	}
	return a.ID < b.ID
}

// Sort ordena los lotes in place en orden de consumo FEFO.
func Sort(lots []*entity.Lot) {
	sort.Slice(lots, func(i, j int) bool { return Less(lots[i], lots[j]) })
}
