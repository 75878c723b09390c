package entity

import "time"

// Tipos de ubicación.
const (
	LocationKindStore     = "store"
	LocationKindWarehouse = "warehouse"
)

// Location representa una tienda o bodega donde se almacena inventario.
// El catálogo de productos vive fuera del núcleo; las ubicaciones sí se
// registran aquí porque la validación de transferencias las necesita.
type Location struct {
	ID        string
	Name      string
	Kind      string // store | warehouse
	CreatedAt time.Time
}
