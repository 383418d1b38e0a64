package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/retry"
)

// CreatePackageRequest 수리 상품 운송장 생성 요청
type CreatePackageRequest struct {
	ServiceOrderID int64  `json:"serviceOrderId"`
	CustomerID     int64  `json:"customerId"`
	ProductID      int64  `json:"productId"`
	Consignee      string `json:"consignee"`
	Mobile         string `json:"mobile"`
	RegionID       int64  `json:"regionId"`
	Address        string `json:"address"`
	Inbound        bool   `json:"inbound"` // true: 고객 → 수리사 방향
}

// Logistics 물류 협력 서비스 클라이언트
type Logistics interface {
	CreatePackage(ctx context.Context, shopID int64, req CreatePackageRequest) (int64, error)
	CancelPackage(ctx context.Context, shopID int64, packageID int64) error
}

// LogisticsHTTPClient 물류 서비스 HTTP 클라이언트
type LogisticsHTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	retryConfig retry.Config
	logger      *zap.Logger
}

// NewLogisticsHTTPClient 물류 HTTP 클라이언트 생성
func NewLogisticsHTTPClient(baseURL string, logger *zap.Logger) *LogisticsHTTPClient {
	return &LogisticsHTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		retryConfig: retry.DefaultConfig(),
		logger:      logger,
	}
}

type createPackageResponse struct {
	ID int64 `json:"id"`
}

// CreatePackage 운송장 생성
func (c *LogisticsHTTPClient) CreatePackage(ctx context.Context, shopID int64, req CreatePackageRequest) (int64, error) {
	url := fmt.Sprintf("%s/internal/shops/%d/packages", c.baseURL, shopID)

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrCodeSerializationError, "failed to marshal package request", err)
	}

	packageID, err := retry.DoWithResult(ctx, c.retryConfig, c.logger, func() (int64, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeNetworkError, "failed to build package request", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeNetworkError, "logistics service unreachable", err)
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			return 0, apperrors.Newf(apperrors.ErrCodeExternalService,
				"logistics create package failed: status=%d body=%s", resp.StatusCode, string(body))
		}

		var created createPackageResponse
		if err := json.Unmarshal(body, &created); err != nil {
			return 0, apperrors.Wrap(apperrors.ErrCodeSerializationError, "failed to decode package response", err)
		}
		return created.ID, nil
	})
	if err != nil {
		c.logger.Error("create package failed",
			zap.Error(err),
			zap.Int64("shopId", shopID),
			zap.Int64("serviceOrderId", req.ServiceOrderID))
		return 0, apperrors.Wrap(apperrors.ErrCodeExternalService, "logistics create package failed", err)
	}

	c.logger.Info("package created",
		zap.Int64("shopId", shopID),
		zap.Int64("serviceOrderId", req.ServiceOrderID),
		zap.Int64("packageId", packageID))
	return packageID, nil
}

// CancelPackage 운송장 취소
func (c *LogisticsHTTPClient) CancelPackage(ctx context.Context, shopID int64, packageID int64) error {
	url := fmt.Sprintf("%s/internal/shops/%d/packages/%d/cancel", c.baseURL, shopID, packageID)

	err := retry.Do(ctx, c.retryConfig, c.logger, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, url, nil)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeNetworkError, "failed to build cancel request", err)
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeNetworkError, "logistics service unreachable", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			body, _ := io.ReadAll(resp.Body)
			return apperrors.Newf(apperrors.ErrCodeExternalService,
				"logistics cancel package failed: status=%d body=%s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		c.logger.Error("cancel package failed",
			zap.Error(err),
			zap.Int64("shopId", shopID),
			zap.Int64("packageId", packageID))
		return apperrors.Wrap(apperrors.ErrCodeExternalService, "logistics cancel package failed", err)
	}

	c.logger.Info("package cancelled",
		zap.Int64("shopId", shopID),
		zap.Int64("packageId", packageID))
	return nil
}
