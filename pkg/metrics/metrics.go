package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contadores Prometheus del motor de inventario. Todos los métodos de
// incremento son seguros con receptor nil (los use cases no exigen métricas).
type Metrics struct {
	registry *prometheus.Registry

	movementsTotal    *prometheus.CounterVec
	uncoveredQuantity prometheus.Counter
	transfersTotal    *prometheus.CounterVec
	conferencesTotal  *prometheus.CounterVec
	txRetriesTotal    prometheus.Counter
}

// New crea el registro y los contadores.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: reg,
		movementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_movements_total",
			Help: "Asientos escritos en el libro, por tipo.",
		}, []string{"type"}),
		uncoveredQuantity: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_uncovered_quantity_total",
			Help: "Cantidad acumulada asignada sin cobertura de existencias.",
		}),
		transfersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_transfers_total",
			Help: "Transferencias por estado final.",
		}, []string{"status"}),
		conferencesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inventory_conferences_total",
			Help: "Sesiones de conteo cerradas, por resultado.",
		}, []string{"result"}),
		txRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "inventory_tx_retries_total",
			Help: "Reintentos de transacción por contención (40001/40P01).",
		}),
	}
	reg.MustRegister(m.movementsTotal, m.uncoveredQuantity, m.transfersTotal, m.conferencesTotal, m.txRetriesTotal)
	return m
}

// Handler expone el endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Movement cuenta un asiento del libro.
func (m *Metrics) Movement(movType string) {
	if m == nil {
		return
	}
	m.movementsTotal.WithLabelValues(movType).Inc()
}

// UncoveredQty acumula la cantidad asignada sin cobertura.
func (m *Metrics) UncoveredQty(qty float64) {
	if m == nil {
		return
	}
	m.uncoveredQuantity.Add(qty)
}

// Transfer cuenta una transferencia por estado final.
func (m *Metrics) Transfer(status string) {
	if m == nil {
		return
	}
	m.transfersTotal.WithLabelValues(status).Inc()
}

// Conference cuenta el cierre de una sesión de conteo.
func (m *Metrics) Conference(result string) {
	if m == nil {
		return
	}
	m.conferencesTotal.WithLabelValues(result).Inc()
}

// TxRetry cuenta un reintento por contención.
func (m *Metrics) TxRetry() {
	if m == nil {
		return
	}
	m.txRetriesTotal.Inc()
}
