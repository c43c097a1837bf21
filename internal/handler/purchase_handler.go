package handler

import (
	"net/http"
	"time"

	"pharmacy/internal/export"
	"pharmacy/internal/service"
	"pharmacy/pkg/pagination"
	"pharmacy/pkg/response"

	"github.com/gin-gonic/gin"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
	loc             *time.Location
}

func NewPurchaseHandler(purchaseService service.PurchaseService, loc *time.Location) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, loc: loc}
}

func (h *PurchaseHandler) RegisterRoutes(api *gin.RouterGroup, g Guards) {
	api.POST("/purchases", g.Staff, h.CreatePurchase)
	api.GET("/purchases", g.Staff, h.ListPurchases)
	api.GET("/purchases/export", g.Admin, h.ExportPurchases)
	api.GET("/purchases/:id", g.Staff, h.GetPurchase)
	api.PUT("/purchases/:id/receive", g.Staff, h.ReceivePurchase)
	api.PUT("/purchases/:id/cancel", g.Staff, h.CancelPurchase)
}

func purchaseQuery(c *gin.Context, loc *time.Location) (service.PurchaseListQuery, error) {
	start, end, err := dateRange(c, loc)
	if err != nil {
		return service.PurchaseListQuery{}, err
	}
	p := pagination.Parse(c)
	return service.PurchaseListQuery{
		StartDate: start,
		EndDate:   end,
		Search:    c.Query("search"),
		Supplier:  c.Query("supplier"),
		Status:    c.Query("status"),
		Page:      p.Page,
		Limit:     p.Limit,
	}, nil
}

// CreatePurchase records a supplier order. Orders created as Received add stock immediately.
// @Summary      Create purchase
// @Tags         purchases
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreatePurchaseRequest  true  "Purchase"
// @Success      201      {object}  response.Response{data=model.Purchase}
// @Failure      400      {object}  response.Response
// @Router       /api/purchases [post]
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	var req service.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, purchase)
}

// ListPurchases
// @Summary      List purchases
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Number of items per page (default 20)"
// @Param        startDate  query     string  false  "YYYY-MM-DD"
// @Param        endDate    query     string  false  "YYYY-MM-DD, inclusive"
// @Param        search     query     string  false  "Medicine or order number"
// @Param        supplier   query     string  false  "Supplier"
// @Param        status     query     string  false  "Pending, Received or Cancelled"
// @Success      200        {object}  response.Response{data=object}
// @Failure      400        {object}  response.Response
// @Router       /api/purchases [get]
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
	q, err := purchaseQuery(c, h.loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	purchases, total, err := h.purchaseService.ListPurchases(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, pagination.NewPage(purchases, total, pagination.Params{Page: q.Page, Limit: q.Limit}))
}

// GetPurchase
// @Summary      Get purchase
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase ID"
// @Success      200  {object}  response.Response{data=model.Purchase}
// @Failure      404  {object}  response.Response
// @Router       /api/purchases/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, purchase)
}

// ReceivePurchase
// @Summary      Receive purchase
// @Description  Marks a pending purchase as received and adds its quantity to stock. Repeated calls change nothing.
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase ID"
// @Success      200  {object}  response.Response{data=model.Purchase}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/purchases/{id}/receive [put]
func (h *PurchaseHandler) ReceivePurchase(c *gin.Context) {
	purchase, err := h.purchaseService.ReceivePurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, purchase)
}

// CancelPurchase
// @Summary      Cancel purchase
// @Tags         purchases
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Purchase ID"
// @Success      200  {object}  response.Response{data=model.Purchase}
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/purchases/{id}/cancel [put]
func (h *PurchaseHandler) CancelPurchase(c *gin.Context) {
	purchase, err := h.purchaseService.CancelPurchase(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, http.StatusOK, purchase)
}

// ExportPurchases downloads purchases as CSV or XLSX
// @Summary      Export purchases
// @Tags         purchases
// @Security     BearerAuth
// @Produce      text/csv
// @Param        format  query  string  false  "csv (default) or xlsx"
// @Success      200
// @Failure      400  {object}  response.Response
// @Router       /api/purchases/export [get]
func (h *PurchaseHandler) ExportPurchases(c *gin.Context) {
	q, err := purchaseQuery(c, h.loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	purchases, err := h.purchaseService.ExportPurchases(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	writeTable(c, "purchases", export.PurchasesTable(purchases, h.loc))
}
