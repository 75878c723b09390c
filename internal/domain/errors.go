package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrLotConflict: reingreso de un lote con vencimiento o costo unitario
	// distinto para el mismo código de lote. Nunca se sobrescribe en silencio.
	ErrLotConflict = errors.New("lote en conflicto: vencimiento o costo distinto para el mismo código")
	// ErrConferenceClosed: mutación sobre una sesión de conteo en estado terminal.
	ErrConferenceClosed = errors.New("sesión de conteo cerrada")
	// ErrTransferAtomicity: falló el abono en destino después del débito en
	// origen; el origen se recompensa antes de devolver este error.
	ErrTransferAtomicity = errors.New("transferencia no atómica: abono en destino falló")
	// ErrTxConflict: contención transitoria sobre un lote (serialización o deadlock).
	// Reintentable; los errores de validación y de conflicto de lote no lo son.
	ErrTxConflict = errors.New("conflicto transitorio de transacción")
)
