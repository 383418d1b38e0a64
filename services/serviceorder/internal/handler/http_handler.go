package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/service"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/strategy"
)

// HTTPHandler 서비스 주문 HTTP 핸들러.
// /internal 경로는 AS 서비스 전용이고 나머지는 수리사/운영자용 공개 API다.
type HTTPHandler struct {
	orders    *service.ServiceOrderService
	providers *service.ProviderService
	logger    *zap.Logger
}

// NewHTTPHandler HTTP 핸들러 생성
func NewHTTPHandler(orders *service.ServiceOrderService, providers *service.ProviderService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{orders: orders, providers: providers, logger: logger}
}

// Register 라우트 등록
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	// AS 서비스 내부 API
	mux.HandleFunc("POST /internal/shops/{shopId}/aftersales/{aftersaleId}/serviceorders", h.handleCreateForAftersale)
	mux.HandleFunc("DELETE /internal/shops/{shopId}/aftersales/{aftersaleId}/serviceorders/cancel", h.handleCancelByAftersale)

	// 공개 API
	mux.HandleFunc("GET /shops/{shopId}/serviceorders/{id}", h.handleGet)
	mux.HandleFunc("PUT /shops/{shopId}/serviceorders/{id}/accept", h.handleAccept)
	mux.HandleFunc("PUT /shops/{shopId}/serviceorders/{id}/assign", h.handleAssign)
	mux.HandleFunc("PUT /shops/{shopId}/serviceorders/{id}/receive", h.handleReceive)
	mux.HandleFunc("PUT /shops/{shopId}/serviceorders/{id}/complete", h.handleComplete)
	mux.HandleFunc("PUT /shops/{shopId}/serviceorders/{id}/cancel", h.handleCancel)

	// 서비스 제공사 관리
	mux.HandleFunc("POST /providers/{providerId}/drafts", h.handleSubmitDraft)
	mux.HandleFunc("GET /providers/{providerId}/drafts", h.handleListDrafts)
	mux.HandleFunc("PUT /providers/drafts/{draftId}/review", h.handleReviewDraft)

	mux.HandleFunc("GET /health", h.handleHealth)
}

type createForAftersaleRequest struct {
	CustomerID  int64  `json:"customerId"`
	ProductID   int64  `json:"productId"`
	ServiceType int    `json:"serviceType"`
	Reason      string `json:"reason"`
}

type createdResponse struct {
	ID int64 `json:"id"`
}

func (h *HTTPHandler) handleCreateForAftersale(w http.ResponseWriter, r *http.Request) {
	shopID, err := pathInt64(r, "shopId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid shop id"))
		return
	}
	aftersaleID, err := pathInt64(r, "aftersaleId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid aftersale id"))
		return
	}

	var req createForAftersaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	serviceType, err := domain.TypeFromCode(req.ServiceType)
	if err != nil {
		h.writeError(w, apperrors.Newf(apperrors.ErrCodeInvalidRequest, "invalid service type: %d", req.ServiceType))
		return
	}

	order, err := h.orders.CreateForAftersale(r.Context(), service.CreateCommand{
		ShopID:      shopID,
		AftersaleID: aftersaleID,
		CustomerID:  req.CustomerID,
		ProductID:   req.ProductID,
		Type:        serviceType,
		Reason:      req.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, createdResponse{ID: order.ID})
}

func (h *HTTPHandler) handleCancelByAftersale(w http.ResponseWriter, r *http.Request) {
	shopID, err := pathInt64(r, "shopId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid shop id"))
		return
	}
	aftersaleID, err := pathInt64(r, "aftersaleId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid aftersale id"))
		return
	}

	reason := r.URL.Query().Get("reason")
	status, err := h.orders.CancelByAftersale(r.Context(), shopID, aftersaleID, reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type serviceOrderResponse struct {
	ID              int64  `json:"id"`
	ShopID          int64  `json:"shopId"`
	AftersaleID     int64  `json:"aftersaleId"`
	CustomerID      int64  `json:"customerId"`
	ProductID       int64  `json:"productId"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	ProviderID      *int64 `json:"providerId,omitempty"`
	StaffID         *int64 `json:"staffId,omitempty"`
	Reason          string `json:"reason,omitempty"`
	ExpressID       *int64 `json:"expressId,omitempty"`
	ReturnExpressID *int64 `json:"returnExpressId,omitempty"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func toResponse(order *domain.ServiceOrder) serviceOrderResponse {
	return serviceOrderResponse{
		ID:              order.ID,
		ShopID:          order.ShopID,
		AftersaleID:     order.AftersaleID,
		CustomerID:      order.CustomerID,
		ProductID:       order.ProductID,
		Type:            order.Type.String(),
		Status:          order.Status.String(),
		ProviderID:      order.ProviderID,
		StaffID:         order.StaffID,
		Reason:          order.Reason,
		ExpressID:       order.ExpressID,
		ReturnExpressID: order.ReturnExpressID,
	}
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	order, err := h.orders.Get(r.Context(), shopID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toResponse(order))
}

type acceptRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason"`
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

	status, err := h.orders.Accept(r.Context(), shopID, id, req.Approve, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type assignRequest struct {
	ProviderID int64 `json:"providerId"`
	StaffID    int64 `json:"staffId"`
}

func (h *HTTPHandler) handleAssign(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	status, err := h.orders.Assign(r.Context(), shopID, id, strategy.AssignArgs{
		ProviderID: req.ProviderID,
		StaffID:    req.StaffID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (h *HTTPHandler) handleReceive(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status, err := h.orders.MarkReceived(r.Context(), shopID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

func (h *HTTPHandler) handleComplete(w http.ResponseWriter, r *http.Request) {
	shopID, id, err := pathIDs(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status, err := h.orders.Complete(r.Context(), shopID, id)
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

	status, err := h.orders.Cancel(r.Context(), shopID, id, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statusResponse{Status: status.String()})
}

type submitDraftRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

type draftResponse struct {
	ID         int64      `json:"id"`
	ProviderID int64      `json:"providerId"`
	Name       string     `json:"name"`
	Contact    string     `json:"contact"`
	Address    string     `json:"address"`
	Status     string     `json:"status"`
	Opinion    string     `json:"opinion,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

func toDraftResponse(draft *domain.ServiceProviderDraft) draftResponse {
	return draftResponse{
		ID:         draft.ID,
		ProviderID: draft.ProviderID,
		Name:       draft.Name,
		Contact:    draft.Contact,
		Address:    draft.Address,
		Status:     draft.Status.String(),
		Opinion:    draft.Opinion,
		ReviewedAt: draft.ReviewedAt,
	}
}

func (h *HTTPHandler) handleSubmitDraft(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathInt64(r, "providerId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid provider id"))
		return
	}

	var req submitDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	draft, err := h.providers.SubmitDraft(r.Context(), providerID, req.Name, req.Contact, req.Address)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, toDraftResponse(draft))
}

func (h *HTTPHandler) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	providerID, err := pathInt64(r, "providerId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid provider id"))
		return
	}

	drafts, err := h.providers.ListDrafts(r.Context(), providerID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	responses := make([]draftResponse, 0, len(drafts))
	for _, draft := range drafts {
		responses = append(responses, toDraftResponse(draft))
	}
	h.writeJSON(w, http.StatusOK, responses)
}

type reviewDraftRequest struct {
	Approve bool   `json:"approve"`
	Opinion string `json:"opinion"`
}

func (h *HTTPHandler) handleReviewDraft(w http.ResponseWriter, r *http.Request) {
	draftID, err := pathInt64(r, "draftId")
	if err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid draft id"))
		return
	}

	var req reviewDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid request body"))
		return
	}

	draft, err := h.providers.ReviewDraft(r.Context(), draftID, req.Approve, req.Opinion)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toDraftResponse(draft))
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
	case apperrors.ErrCodeServiceOrderNotFound, apperrors.ErrCodeProviderNotFound, apperrors.ErrCodeDraftNotFound:
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
		return 0, 0, apperrors.New(apperrors.ErrCodeInvalidRequest, "invalid service order id")
	}
	return shopID, id, nil
}
