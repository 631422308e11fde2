package handler

import (
	"net/http"
	"strconv"

	"cuadrecaja/internal/apierror"
	"cuadrecaja/internal/dto"
	"cuadrecaja/internal/middleware"
	"cuadrecaja/internal/model"
	"cuadrecaja/internal/repository"
	"cuadrecaja/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CuadresHandler struct{ svc service.CuadreService }

func NewCuadresHandler(svc service.CuadreService) *CuadresHandler {
	return &CuadresHandler{svc: svc}
}

// Previsualizar godoc
// @Summary      Previsualizar totales de un cuadre
// @Description  Recalcula los totales derivados del formulario en vivo. No persiste nada.
// @Tags         cuadres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PreviewCuadreRequest true "Formulario en curso"
// @Success      200  {object} dto.TotalesResponse
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/cuadres/preview [post]
func (h *CuadresHandler) Previsualizar(c *gin.Context) {
	var req dto.PreviewCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	c.JSON(http.StatusOK, h.svc.Previsualizar(req))
}

// Crear godoc
// @Summary      Guardar un cuadre diario
// @Description  Valida el uso de caja chica, congela los totales y aplica el delta al saldo de la sucursal.
// @Tags         cuadres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.GuardarCuadreRequest true "Cuadre del día"
// @Success      201  {object} dto.CuadreResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cuadres [post]
func (h *CuadresHandler) Crear(c *gin.Context) {
	var req dto.GuardarCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if !claims.PuedeVerSucursal(req.SucursalID) {
		c.JSON(http.StatusForbidden, apierror.New("No puede guardar cuadres de otra sucursal"))
		return
	}

	resp, err := h.svc.Crear(c.Request.Context(), creatorFromClaims(claims), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener un cuadre por ID
// @Tags         cuadres
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del cuadre"
// @Success      200 {object} dto.CuadreResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cuadres/{id} [get]
func (h *CuadresHandler) Obtener(c *gin.Context) {
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
// @Summary      Listar cuadres
// @Description  Lista paginada, filtrable por sucursal y rango de fechas. Los roles no administrativos sólo ven su propia sucursal.
// @Tags         cuadres
// @Produce      json
// @Security     BearerAuth
// @Param        sucursal_id query string false "UUID de la sucursal"
// @Param        desde       query string false "Fecha inicial YYYY-MM-DD"
// @Param        hasta       query string false "Fecha final YYYY-MM-DD"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 31)"
// @Success      200 {object} dto.CuadreListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/cuadres [get]
func (h *CuadresHandler) Listar(c *gin.Context) {
	claims := middleware.GetClaims(c)
	filter, err := cuadreFilterFromQuery(c, claims)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar cuadres"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Editar un cuadre existente
// @Description  Recalcula totales y aplica el delta incremental de caja chica respecto al estado anterior.
// @Tags         cuadres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del cuadre"
// @Param        body body dto.GuardarCuadreRequest true "Cuadre editado"
// @Success      200  {object} dto.CuadreResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/cuadres/{id} [put]
func (h *CuadresHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.GuardarCuadreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	// Branch users may only edit their own branch. The service separately
	// rejects any attempt to move a cuadre to another sucursal, so checking
	// the request's sucursal_id covers the stored record too.
	claims := middleware.GetClaims(c)
	if !claims.PuedeVerSucursal(req.SucursalID) {
		c.JSON(http.StatusForbidden, apierror.New("No puede editar cuadres de otra sucursal"))
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
// @Summary      Eliminar un cuadre
// @Description  Borra el registro y revierte su delta de caja chica.
// @Tags         cuadres
// @Security     BearerAuth
// @Param        id path string true "UUID del cuadre"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cuadres/{id} [delete]
func (h *CuadresHandler) Eliminar(c *gin.Context) {
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

// DescargarReporte godoc
// @Summary      Descargar el PDF de cierre de un cuadre
// @Tags         cuadres
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "UUID del cuadre"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/cuadres/{id}/reporte [get]
func (h *CuadresHandler) DescargarReporte(c *gin.Context) {
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
	path, err := h.svc.GenerarReporte(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("No se pudo generar el reporte"))
		return
	}
	c.FileAttachment(path, "cuadre_"+resp.Fecha+".pdf")
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func creatorFromClaims(claims *middleware.JWTClaims) model.CreatorInfo {
	return model.CreatorInfo{
		UID:      claims.UserID,
		Username: claims.Username,
	}
}

// cuadreFilterFromQuery parses list filters and narrows the branch scope for
// non-admin callers to their own sucursal.
func cuadreFilterFromQuery(c *gin.Context, claims *middleware.JWTClaims) (repository.CuadreFilter, error) {
	var filter repository.CuadreFilter

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
