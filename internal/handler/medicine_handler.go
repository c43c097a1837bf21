package handler

import (
	"net/http"
	"strconv"
	"time"

	"pharmacy/internal/service"
	"pharmacy/pkg/pagination"
	"pharmacy/pkg/response"

	"github.com/gin-gonic/gin"
)

type MedicineHandler struct {
	medicineService service.MedicineService
	alerts          service.AlertClassifier
}

func NewMedicineHandler(medicineService service.MedicineService, alerts service.AlertClassifier) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService, alerts: alerts}
}

func (h *MedicineHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	api.GET("/medicines", g.Staff, h.ListMedicines)
	api.GET("/medicines/:id", g.Staff, h.GetMedicine)
	api.POST("/medicines", g.Admin, h.CreateMedicine)
	api.PUT("/medicines/:id", g.Admin, h.UpdateMedicine)
	api.DELETE("/medicines/:id", g.Admin, h.DeleteMedicine)

	api.PUT("/inventory/:id", g.Staff, h.UpdateStock)
	api.GET("/inventory/alerts", g.Staff, h.GetAlerts)
	api.GET("/inventory/stats", g.Staff, h.GetStats)
}

// ListMedicines handles retrieving the paginated catalog
// @Summary      List medicines
// @Description  Retrieves a paginated list of medicines with current stock
// @Tags         medicines
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        search    query     string  false  "Search by name or brand"
// @Param        category  query     string  false  "Filter by category"
// @Param        lowStock  query     bool    false  "Only medicines at or below the low stock threshold"
// @Success      200       {object}  response.Response{data=object}
// @Failure      500       {object}  response.Response
// @Router       /api/medicines [get]
func (h *MedicineHandler) ListMedicines(c *gin.Context) {
	p := pagination.Parse(c)
	lowStock, _ := strconv.ParseBool(c.DefaultQuery("lowStock", "false"))

	medicines, total, err := h.medicineService.ListMedicines(c.Request.Context(), service.MedicineListQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		LowStock: lowStock,
		Page:     p.Page,
		Limit:    p.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.OK(c, http.StatusOK, pagination.NewPage(medicines, total, p))
}

// GetMedicine
// @Summary      Get medicine
// @Tags         medicines
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Medicine ID"
// @Success      200  {object}  response.Response{data=model.Medicine}
// @Failure      404  {object}  response.Response
// @Router       /api/medicines/{id} [get]
func (h *MedicineHandler) GetMedicine(c *gin.Context) {
	medicine, err := h.medicineService.GetMedicine(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, medicine)
}

// CreateMedicine adds a catalog entry
// @Summary      Create medicine
// @Tags         medicines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.MedicineRequest  true  "Medicine"
// @Success      201      {object}  response.Response{data=model.Medicine}
// @Failure      400      {object}  response.Response
// @Router       /api/medicines [post]
func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var req service.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	medicine, err := h.medicineService.CreateMedicine(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, medicine)
}

// UpdateMedicine replaces every editable field of a catalog entry
// @Summary      Update medicine
// @Tags         medicines
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Medicine ID"
// @Param        payload  body      service.MedicineRequest  true  "Medicine"
// @Success      200      {object}  response.Response{data=model.Medicine}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/medicines/{id} [put]
func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	var req service.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, medicine)
}

// DeleteMedicine
// @Summary      Delete medicine
// @Tags         medicines
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Medicine ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/medicines/{id} [delete]
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	if err := h.medicineService.DeleteMedicine(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, "Medicine deleted successfully")
}

// UpdateStock lets pharmacists correct quantity, price or expiry
// @Summary      Update stock
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Medicine ID"
// @Param        payload  body      service.StockUpdateRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=model.Medicine}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/inventory/{id} [put]
func (h *MedicineHandler) UpdateStock(c *gin.Context) {
	var req service.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	medicine, err := h.medicineService.UpdateStock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, medicine)
}

// GetAlerts lists expired, near-expiry and low-stock medicines in that order
// @Summary      Inventory alerts
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.MedicineAlert}
// @Router       /api/inventory/alerts [get]
func (h *MedicineHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.alerts.Alerts(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, alerts)
}

// GetStats
// @Summary      Inventory stats
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.InventoryStats}
// @Router       /api/inventory/stats [get]
func (h *MedicineHandler) GetStats(c *gin.Context) {
	stats, err := h.alerts.Stats(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, stats)
}
