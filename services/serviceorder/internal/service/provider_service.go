package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/kyungseok/aftersale-msa-go/common/events"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/repository"
)

// ProviderService 서비스 제공사 관리.
// 제공사 정보 변경은 초안 제출 → 심사 → (승인 시) 반영의 흐름을 따른다.
type ProviderService struct {
	repo   repository.ProviderRepository
	outbox repository.OutboxRepository
	logger *zap.Logger
}

// NewProviderService 서비스 제공사 서비스 생성
func NewProviderService(repo repository.ProviderRepository, outbox repository.OutboxRepository, logger *zap.Logger) *ProviderService {
	return &ProviderService{repo: repo, outbox: outbox, logger: logger}
}

// SubmitDraft 제공사 정보 변경 초안 제출
func (s *ProviderService) SubmitDraft(ctx context.Context, providerID int64, name, contact, address string) (*domain.ServiceProviderDraft, error) {
	if _, err := s.repo.FindProvider(ctx, providerID); err != nil {
		return nil, err
	}

	draft := domain.NewDraft(providerID, name, contact, address)
	if err := s.repo.CreateDraft(ctx, draft); err != nil {
		return nil, err
	}

	s.logger.Info("provider draft submitted",
		zap.Int64("draftId", draft.ID),
		zap.Int64("providerId", providerID))
	return draft, nil
}

// ReviewDraft 초안 심사. 승인 시 초안 내용이 제공사 정보에 같은 트랜잭션으로 반영된다.
func (s *ProviderService) ReviewDraft(ctx context.Context, draftID int64, approve bool, opinion string) (*domain.ServiceProviderDraft, error) {
	draft, err := s.repo.FindDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.RequirePendingReview(); err != nil {
		return nil, err
	}

	var provider *domain.ServiceProvider
	if approve {
		provider, err = s.repo.FindProvider(ctx, draft.ProviderID)
		if err != nil {
			return nil, err
		}
		draft.Approve(opinion)
		draft.ApplyTo(provider)
	} else {
		draft.RejectReview(opinion)
	}

	if err := s.repo.SaveReview(ctx, draft, provider); err != nil {
		return nil, err
	}

	event := events.ProviderDraftReviewedEvent{
		BaseEvent:  newBaseEvent(events.EventProviderDraftReviewed),
		DraftID:    draft.ID,
		ProviderID: draft.ProviderID,
		Approved:   approve,
		Opinion:    opinion,
	}
	if payload, err := json.Marshal(event); err == nil {
		if err := s.outbox.Insert(ctx, string(events.EventProviderDraftReviewed), partitionKey(draft.ProviderID), payload); err != nil {
			s.logger.Warn("failed to enqueue draft reviewed event", zap.Int64("draftId", draft.ID), zap.Error(err))
		}
	}

	s.logger.Info("provider draft reviewed",
		zap.Int64("draftId", draft.ID),
		zap.Int64("providerId", draft.ProviderID),
		zap.Bool("approved", approve))
	return draft, nil
}

// ListDrafts 제공사의 초안 이력 조회
func (s *ProviderService) ListDrafts(ctx context.Context, providerID int64) ([]*domain.ServiceProviderDraft, error) {
	if _, err := s.repo.FindProvider(ctx, providerID); err != nil {
		return nil, err
	}
	return s.repo.ListDraftsByProvider(ctx, providerID)
}
