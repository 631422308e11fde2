package handler

import (
	"net/http"
	"strconv"

	"cuadrecaja/internal/apierror"
	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/middleware"
	"cuadrecaja/internal/repository"
	"cuadrecaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PagosHandler struct{ svc service.PagoService }

func NewPagosHandler(svc service.PagoService) *PagosHandler { return &PagosHandler{svc: svc} }

// Crear godoc
// @Summary      Registrar un pago del día
// @Description  Registra los pagos cubiertos con fondos de depósito, calcula el sobrante para mañana y aplica el delta de caja chica.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarPagoRequest true "Pago del día"
// @Success      201  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pagos [post]
func (h *PagosHandler) Crear(c *gin.Context) {
	var req dto.GuardarPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Crear(c.Request.Context(), creatorFromClaims(claims), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener un pago por ID
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del pago"
// @Success      200 {object} dto.PagoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pagos/{id} [get]
func (h *PagosHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	claims := middleware.GetClaims(c)
	if !claims.PuedeVerSucursal(resp.SucursalID) {
		c.JSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary      Listar pagos
// @Description  Lista paginada, filtrable por sucursal y rango de fechas. Los roles no administrativos sólo ven su propia sucursal.
// @Tags         pagos
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de la sucursal"
// @Param        desde       query string false "Fecha inicial YYYY-MM-DD"
// @Param        hasta       query string false "Fecha final YYYY-MM-DD"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 31)"
// @Success      200 {object} dto.PagoListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/pagos [get]
func (h *PagosHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	filter, err := pagoFilterFromQuery(c, claims)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pagos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Editar un pago existente
// @Description  Recalcula el sobrante contra el KPI congelado al crear y aplica el delta incremental de caja chica.
// @Tags         pagos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "UUID del pago"
// @Param        body body dto.GuardarPagoRequest true "Pago editado"
// @Success      200  {object} dto.PagoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/pagos/{id} [put]
func (h *PagosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.GuardarPagoRequest
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

// Eliminar godoc
// @Summary      Eliminar un pago
// @Description  Borra el registro y devuelve su caja chica usada al saldo.
// @Tags         pagos
// @Security     BearerAuth
// @Param        id path string true "UUID del pago"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pagos/{id} [delete]
func (h *PagosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}

func pagoFilterFromQuery(c *gin.Context, claims *middleware.JWTClaims) (repository.PagoFilter, error) {
	var filter repository.PagoFilter

	raw := c.Query("sucursal_id")
	if claims.Rol != middleware.RolAdministrador {
		if claims.SucursalID == nil {
			return filter, errUsuarioSinSucursal
		}
		raw = *claims.SucursalID
	}
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errSucursalInvalida
		}
		filter.SucursalID = &id
	}

	filter.Desde = c.Query("desde")
	filter.Hasta = c.Query("hasta")
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "31"))
	return filter, nil
}
