package service

import (
	"context"
	"errors"

	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/model"
	"cuadrecaja/internal/repository"

	"github.com/google/uuid"
)

type SucursalService interface {
	Crear(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error)
	Listar(ctx context.Context, incluirInactivas bool) ([]dto.SucursalResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type sucursalService struct {
	repo repository.SucursalRepository
}

func NewSucursalService(repo repository.SucursalRepository) SucursalService {
	return &sucursalService{repo: repo}
}

func (s *sucursalService) Crear(ctx context.Context, req dto.CrearSucursalRequest) (*dto.SucursalResponse, error) {
	sucursal := &model.Sucursal{
		Nombre:    req.Nombre,
		Empresa:   req.Empresa,
		Ubicacion: req.Ubicacion,
		CajaChica: req.CajaChica,
		Extras:    extrasFromInput(req.Extras),
		Activa:    true,
	}
	sucursal.Extras.Normalizar()
	if err := s.repo.Create(ctx, sucursal); err != nil {
		return nil, err
	}
	return sucursalToResponse(sucursal), nil
}

func (s *sucursalService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SucursalResponse, error) {
	sucursal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	return sucursalToResponse(sucursal), nil
}

func (s *sucursalService) Listar(ctx context.Context, incluirInactivas bool) ([]dto.SucursalResponse, error) {
	sucursales, err := s.repo.List(ctx, incluirInactivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SucursalResponse, len(sucursales))
	for i := range sucursales {
		resp[i] = *sucursalToResponse(&sucursales[i])
	}
	return resp, nil
}

func (s *sucursalService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarSucursalRequest) (*dto.SucursalResponse, error) {
	sucursal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("sucursal no encontrada")
	}
	if req.Nombre != "" {
		sucursal.Nombre = req.Nombre
	}
	if req.Empresa != "" {
		sucursal.Empresa = req.Empresa
	}
	if req.Ubicacion != "" {
		sucursal.Ubicacion = req.Ubicacion
	}
	if req.Extras != nil {
		sucursal.Extras = extrasFromInput(req.Extras)
		sucursal.Extras.Normalizar()
	}
	if err := s.repo.Update(ctx, sucursal); err != nil {
		return nil, err
	}
	return sucursalToResponse(sucursal), nil
}

// Desactivar is a soft delete: cuadres and pagos keep referencing the branch.
func (s *sucursalService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func extrasFromInput(in *dto.ExtrasSucursalInput) model.ExtrasSucursal {
	if in == nil {
		return model.ExtrasSucursal{}
	}
	return model.ExtrasSucursal{
		PedidosYa:              in.PedidosYa,
		AmericanExpress:        in.AmericanExpress,
		AmericanExpressPrecios: in.AmericanExpressPrecios,
	}
}

func sucursalToResponse(s *model.Sucursal) *dto.SucursalResponse {
	return &dto.SucursalResponse{
		ID:           s.ID.String(),
		Nombre:       s.Nombre,
		Empresa:      s.Empresa,
		Ubicacion:    s.Ubicacion,
		CajaChica:    s.CajaChica,
		Extras:       s.Extras,
		KPIDepositos: s.KPIDepositos,
		Activa:       s.Activa,
	}
}
