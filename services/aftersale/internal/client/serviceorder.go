package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/retry"
)

// ServiceOrderHTTPClient 서비스 주문 서비스 HTTP 클라이언트
type ServiceOrderHTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config
	logger      *zap.Logger
}

// NewServiceOrderHTTPClient 서비스 주문 HTTP 클라이언트 생성
func NewServiceOrderHTTPClient(baseURL string, logger *zap.Logger) *ServiceOrderHTTPClient {
	return &ServiceOrderHTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		retryConfig: retry.DefaultConfig(),
		logger:      logger,
	}
}

type createServiceOrderResponse struct {
	ID int64 `json:"id"`
}

// CreateServiceOrder AS 주문에 연결된 서비스 주문 생성
func (c *ServiceOrderHTTPClient) CreateServiceOrder(ctx context.Context, shopID, aftersaleID int64, req CreateServiceOrderRequest) (int64, error) {
	endpoint := fmt.Sprintf("%s/internal/shops/%d/aftersales/%d/serviceorders", c.baseURL, shopID, aftersaleID)

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeSerializationError, "failed to marshal service order request", err)
	}

	serviceOrderID, err := retry.DoWithResult(ctx, c.retryConfig, c.logger, func() (int64, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeNetworkError, "failed to build service order request", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeNetworkError, "service order service unreachable", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return 0, apperrors.Newf(apperrors.ErrCodeExternalService,
				"create service order failed: status=%d body=%s", resp.StatusCode, string(body))
		}

		var created createServiceOrderResponse
		if err := json.Unmarshal(body, &created); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeSerializationError, "failed to decode service order response", err)
		}
		return created.ID, nil
	})
	if err != nil {
		c.logger.Error("create service order failed",
			zap.Error(err),
			zap.Int64("shopId", shopID),
			zap.Int64("aftersaleId", aftersaleID))
		return 0, apperrors.Wrap(apperrors.ErrCodeExternalService, "create service order failed", err)
	}

	c.logger.Info("service order created",
		zap.Int64("shopId", shopID),
		zap.Int64("aftersaleId", aftersaleID),
		zap.Int64("serviceOrderId", serviceOrderID))
	return serviceOrderID, nil
}

// CancelServiceOrder AS 주문에 연결된 서비스 주문 취소
func (c *ServiceOrderHTTPClient) CancelServiceOrder(ctx context.Context, shopID, aftersaleID int64, reason string) error {
	endpoint := fmt.Sprintf("%s/internal/shops/%d/aftersales/%d/serviceorders/cancel?reason=%s",
		c.baseURL, shopID, aftersaleID, url.QueryEscape(reason))

	err := retry.Do(ctx, c.retryConfig, c.logger, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeNetworkError, "failed to build cancel request", err)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeNetworkError, "service order service unreachable", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			body, _ := io.ReadAll(resp.Body)
			return apperrors.Newf(apperrors.ErrCodeExternalService,
				"cancel service order failed: status=%d body=%s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		c.logger.Error("cancel service order failed",
			zap.Error(err),
			zap.Int64("shopId", shopID),
			zap.Int64("aftersaleId", aftersaleID))
		return apperrors.Wrap(apperrors.ErrCodeExternalService, "cancel service order failed", err)
	}

	c.logger.Info("service order cancelled",
		zap.Int64("shopId", shopID),
		zap.Int64("aftersaleId", aftersaleID))
	return nil
}
