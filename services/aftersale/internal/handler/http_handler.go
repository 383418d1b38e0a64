package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/service"
	"github.com/kyungseok/aftersale-msa-go/services/aftersale/internal/strategy"
)

// HTTPHandler AS 주문 HTTP 핸들러
type HTTPHandler struct {
	service *service.AftersaleService
	logger  *zap.Logger
}

// NewHTTPHandler HTTP 핸들러 생성
func NewHTTPHandler(service *service.AftersaleService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{service: service, logger: logger}
}

// Register 라우트 등록
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /shops/{shopId}/aftersales", h.handleCreate)
	mux.HandleFunc("GET /shops/{shopId}/aftersales/{id}", h.handleGet)
	mux.HandleFunc("PUT /shops/{shopId}/aftersales/{id}/confirm", h.handleConfirm)
	mux.HandleFunc("PUT /shops/{shopId}/aftersales/{id}/accept", h.handleAccept)
	mux.HandleFunc("PUT /shops/{shopId}/aftersales/{id}/process", h.handleProcess)
	mux.HandleFunc("PUT /shops/{shopId}/aftersales/{id}/cancel", h.handleCancel)
	mux.HandleFunc("GET /health", h.handleHealth)
}

type createRequest struct {
	OrderID    int64  `json:"orderId"`
	CustomerID int64  `json:"customerId"`
	ProductID  int64  `json:"productId"`
	Type       int    `json:"type"`
	Reason     string `json:"reason"`
}

type aftersaleResponse struct {
	ID              int64  `json:"id"`
	ShopID          int64  `json:"shopId"`
	OrderID         int64  `json:"orderId"`
	CustomerID      int64  `json:"customerId"`
	ProductID       int64  `json:"productId"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Reason          string `json:"reason"`
	Conclusion      string `json:"conclusion,omitempty"`
	ExpressID       *int64 `json:"expressId,omitempty"`
	ReturnExpressID *int64 `json:"returnExpressId,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func toResponse(order *domain.AftersaleOrder) aftersaleResponse {
	return aftersaleResponse{
		ID:              order.ID,
		ShopID:          order.ShopID,
		OrderID:         order.OrderID,
		CustomerID:      order.CustomerID,
		ProductID:       order.ProductID,
		Type:            order.Type.String(),
		Status:          order.Status.String(),
		Reason:          order.Reason,
		Conclusion:      order.Conclusion,
		ExpressID:       order.ExpressID,
		ReturnExpressID: order.ReturnExpressID,
	}
}

func (h *HTTPHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	shopID, err := pathInt64(r, "shopId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid shop id"))
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	aftersaleType, err := domain.TypeFromCode(req.Type)
	if err != nil {
		h.writeError(w, apperrors.Newf(apperrors.ErrCodeInvalidRequest, "invalid aftersale type: %d", req.Type))
		return
	}

	order, err := h.service.Create(r.Context(), service.CreateCommand{
		ShopID:     shopID,
		OrderID:    req.OrderID,
		CustomerID: req.CustomerID,
		ProductID:  req.ProductID,
		Type:       aftersaleType,
		Reason:     req.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toResponse(order))
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.service.Get(r.Context(), shopID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(order))
}

type confirmRequest struct {
	Approve     bool   `json:"approve"`
	Conclusion  string `json:"conclusion"`
	ServiceType int    `json:"serviceType"`
}

func (h *HTTPHandler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := h.service.Confirm(r.Context(), shopID, id, strategy.ConfirmArgs{
		Approve:     req.Approve,
		Conclusion:  req.Conclusion,
		ServiceType: req.ServiceType,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type acceptRequest struct {
	Accept     bool   `json:"accept"`
	Conclusion string `json:"conclusion"`
}

func (h *HTTPHandler) handleAccept(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := h.service.Accept(r.Context(), shopID, id, strategy.AcceptArgs{
		Accept:     req.Accept,
		Conclusion: req.Conclusion,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type processRequest struct {
	Conclusion string `json:"conclusion"`
}

func (h *HTTPHandler) handleProcess(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := h.service.Process(r.Context(), shopID, id, strategy.ProcessArgs{
		Conclusion: req.Conclusion,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *HTTPHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := h.service.Cancel(r.Context(), shopID, id, strategy.CancelArgs{
		Reason: req.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (h *HTTPHandler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	status := httpStatusOf(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("code", string(code)), zap.Error(err))
	}
	h.writeJSON(w, status, errorResponse{Code: string(code), Message: err.Error()})
}

func httpStatusOf(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeAftersaleNotFound, apperrors.ErrCodeServiceOrderNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeStateInvalid, apperrors.ErrCodeDuplicateRequest:
		return http.StatusConflict
	case apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeExternalService, apperrors.ErrCodeNetworkError, apperrors.ErrCodeTimeoutError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func pathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(r.PathValue(name), 10, 64)
}

func pathIDs(r *http.Request) (shopID int64, id int64, err error) {
	shopID, err = pathInt64(r, "shopId")
	if err != nil {
		return 0, 0, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid shop id")
	}
	id, err = pathInt64(r, "id")
	if err != nil {
		return 0, 0, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid aftersale id")
	}
	return shopID, id, nil
}
