package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/helioscare/clinic-api/internal/handler"
	"github.com/helioscare/clinic-api/internal/model"
	doctorService "github.com/helioscare/clinic-api/internal/service/doctor"
)

type Handler struct {
	service doctorService.DoctorServicer
}

func NewHandler(service doctorService.DoctorServicer) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors")
	{
		doctors.POST("", h.UpsertDoctor)
		doctors.GET("", h.ListDoctors)
		doctors.GET("/:id", h.GetDoctor)
		doctors.DELETE("/:id", h.DeleteDoctor)
	}
	r.GET("/specialties", h.ListSpecialties)
}

// Binding tags only check transport shape; the domain validator aggregates
// every field failure in one pass.
type upsertDoctorRequest struct {
	ID                   *string `json:"id" binding:"omitempty,uuid"`
	Name                 string  `json:"name"`
	Specialty            string  `json:"specialty"`
	AppointmentPrice     float64 `json:"appointment_price"`
	AvailableFromWeekday int     `json:"available_from_weekday"`
	AvailableToWeekday   int     `json:"available_to_weekday"`
	AvailableFromTime    string  `json:"available_from_time"`
	AvailableToTime      string  `json:"available_to_time"`
}

func (h *Handler) UpsertDoctor(c *gin.Context) {
	var req upsertDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	input := &doctorService.UpsertDoctorInput{
		Name:                 req.Name,
		Specialty:            req.Specialty,
		AppointmentPrice:     req.AppointmentPrice,
		AvailableFromWeekday: req.AvailableFromWeekday,
		AvailableToWeekday:   req.AvailableToWeekday,
		AvailableFromTime:    req.AvailableFromTime,
		AvailableToTime:      req.AvailableToTime,
	}
	if req.ID != nil {
		id, err := uuid.Parse(*req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
			return
		}
		input.ID = &id
	}

	doctor, err := h.service.UpsertDoctor(c.Request.Context(), handler.SessionFromContext(c), input)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	status := http.StatusCreated
	if input.ID != nil {
		status = http.StatusOK
	}
	c.JSON(status, handler.NewSuccessResponse(doctor))
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	doctor, err := h.service.GetDoctor(c.Request.Context(), handler.SessionFromContext(c), id)
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctor))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListDoctors(c.Request.Context(), handler.SessionFromContext(c))
	if err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor ID"))
		return
	}

	if err := h.service.DeleteDoctor(c.Request.Context(), handler.SessionFromContext(c), id); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(model.Specialties))
}
