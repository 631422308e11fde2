package handler

import (
	"net/http"

	"cuadrecaja/internal/apierror"
	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/middleware"
	"cuadrecaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SucursalesHandler struct{ svc service.SucursalService }

func NewSucursalesHandler(svc service.SucursalService) *SucursalesHandler {
	return &SucursalesHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear sucursal
// @Tags         sucursales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearSucursalRequest true "Sucursal"
// @Success      201  {object} dto.SucursalResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sucursales [post]
func (h *SucursalesHandler) Crear(c *gin.Context) {
	var req dto.CrearSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener sucursal por ID
// @Tags         sucursales
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la sucursal"
// @Success      200 {object} dto.SucursalResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sucursales/{id} [get]
func (h *SucursalesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)
	if !claims.PuedeVerSucursal(id.String()) {
		c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar sucursales
// @Description  Los administradores ven todas; los demás roles sólo la propia.
// @Tags         sucursales
// @Produce      json
// @Security     BearerAuth
// @Param        incluir_inactivas query bool false "Incluir sucursales desactivadas"
// @Success      200 {array} dto.SucursalResponse
// @Router       /v1/sucursales [get]
func (h *SucursalesHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	incluirInactivas := c.Query("incluir_inactivas") == "true" && claims.Rol == middleware.RolAdministrador

	resp, err := h.svc.Listar(c.Request.Context(), incluirInactivas)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar sucursales"))
		return
	}
	if claims.Rol != middleware.RolAdministrador {
		propias := make([]dto.SucursalResponse, 0, 1)
		for _, s := range resp {
			if claims.PuedeVerSucursal(s.ID) {
				propias = append(propias, s)
			}
		}
		resp = propias
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Editar sucursal
// @Description  Actualiza metadatos y extras. El saldo de caja chica no se edita por aquí, sólo cambia vía deltas.
// @Tags         sucursales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                        true "UUID de la sucursal"
// @Param        body body dto.ActualizarSucursalRequest true "Sucursal editada"
// @Success      200  {object} dto.SucursalResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/sucursales/{id} [put]
func (h *SucursalesHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar sucursal
// @Description  Baja lógica: la sucursal deja de aceptar cuadres nuevos pero conserva su historial.
// @Tags         sucursales
// @Security     BearerAuth
// @Param        id path string true "UUID de la sucursal"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sucursales/{id} [delete]
func (h *SucursalesHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
