package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dukapos/dukapos-api/internal/application/service"
	"github.com/dukapos/dukapos-api/internal/domain/enum"
	"github.com/dukapos/dukapos-api/internal/domain/repository"
	"github.com/dukapos/dukapos-api/internal/presentation/http/dto/request"
	"github.com/dukapos/dukapos-api/internal/presentation/http/dto/response"
	"github.com/dukapos/dukapos-api/pkg/pagination"
)

// RefundHandler handles refund-related HTTP requests
type RefundHandler struct {
	refundService *service.RefundService
}

// NewRefundHandler creates a new refund handler
func NewRefundHandler(refundService *service.RefundService) *RefundHandler {
	return &RefundHandler{refundService: refundService}
}

// Create handles refund creation
func (h *RefundHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.CreateRefundInput{
		OrderID:     req.OrderID,
		RequestedBy: *userID,
		Type:        enum.RefundType(req.Type),
		Reason:      req.Reason,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.RefundItemInput{
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			Amount:            item.Amount,
			RestockingFee:     item.RestockingFee,
			ExchangeProductID: item.ExchangeProductID,
		})
	}

	refund, err := h.refundService.CreateRefund(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Refund created successfully", refund)
}

// Transition moves a refund through its lifecycle
func (h *RefundHandler) Transition(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid refund ID")
		return
	}

	var req request.TransitionRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	refund, err := h.refundService.TransitionRefund(c.Request.Context(), id, enum.RefundStatus(req.Status), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refund updated successfully", refund)
}

// Get handles fetching a single refund
func (h *RefundHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid refund ID")
		return
	}

	refund, err := h.refundService.GetRefund(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Refund retrieved successfully", refund)
}

// List handles listing refunds with filters and pagination
func (h *RefundHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.RefundFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
	}

	if orderIDStr := c.Query("order_id"); orderIDStr != "" {
		if orderID, err := uuid.Parse(orderIDStr); err == nil {
			params.OrderID = &orderID
		}
	}

	if statusStr := c.Query("status"); statusStr != "" {
		if statusInt, err := strconv.Atoi(statusStr); err == nil {
			status := enum.RefundStatus(statusInt)
			params.Status = &status
		}
	}

	result, err := h.refundService.ListRefunds(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Refunds retrieved successfully", result)
}
