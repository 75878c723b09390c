package repository

import "github.com/jhoicas/lotes-api/internal/domain/entity"

// LocationRepository define el puerto del registro de ubicaciones
// (tiendas y bodegas). Frontera con el colaborador externo: el núcleo solo
// necesita existencia y tipo para validar operaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	List() ([]*entity.Location, error)
}
