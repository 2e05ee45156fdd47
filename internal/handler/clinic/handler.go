package clinic

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helioscare/clinic-api/internal/handler"
	"github.com/helioscare/clinic-api/internal/model"
	clinicService "github.com/helioscare/clinic-api/internal/service/clinic"
)

type Handler struct {
	service clinicService.ClinicServicer
}

func NewHandler(service clinicService.ClinicServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	clinics := r.Group("/clinic")
	{
		clinics.POST("", h.CreateClinic)
		clinics.GET("", h.GetClinic)
		clinics.PUT("", h.UpdateClinic)
		clinics.DELETE("", h.DeleteClinic)
		clinics.GET("/members", h.ListMembers)
	}
}

type clinicRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
}

func (h *Handler) CreateClinic(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinic := &model.Clinic{Name: req.Name, Address: req.Address}
	created, err := h.service.CreateClinic(c.Request.Context(), handler.SessionFromContext(c), clinic)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) GetClinic(c *gin.Context) {
	clinic, err := h.service.GetClinic(c.Request.Context(), handler.SessionFromContext(c))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) UpdateClinic(c *gin.Context) {
	var req clinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	clinic := &model.Clinic{Name: req.Name, Address: req.Address}
	if err := h.service.UpdateClinic(c.Request.Context(), handler.SessionFromContext(c), clinic); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(clinic))
}

func (h *Handler) DeleteClinic(c *gin.Context) {
	if err := h.service.DeleteClinic(c.Request.Context(), handler.SessionFromContext(c)); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListMembers(c *gin.Context) {
	members, err := h.service.ListMembers(c.Request.Context(), handler.SessionFromContext(c))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}
