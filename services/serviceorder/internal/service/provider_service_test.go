package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
	"github.com/kyungseok/aftersale-msa-go/common/events"
	"github.com/kyungseok/aftersale-msa-go/common/logger"
	"github.com/kyungseok/aftersale-msa-go/services/serviceorder/internal/domain"
)

type fakeProviderRepo struct {
	providers map[int64]domain.ServiceProvider
	drafts    map[int64]domain.ServiceProviderDraft
	nextID    int64
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		providers: map[int64]domain.ServiceProvider{
			7: {ID: 7, Name: "Fix-It Co", Contact: "02-1234-5678", Address: "Seoul"},
		},
		drafts: make(map[int64]domain.ServiceProviderDraft),
		nextID: 1,
	}
}

func (r *fakeProviderRepo) FindProvider(_ context.Context, id int64) (*domain.ServiceProvider, error) {
	stored, ok := r.providers[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrCodeProviderNotFound, "service provider not found: %d", id)
	}
	copied := stored
	return &copied, nil
}

func (r *fakeProviderRepo) CreateDraft(_ context.Context, draft *domain.ServiceProviderDraft) error {
	draft.ID = r.nextID
	r.nextID++
	r.drafts[draft.ID] = *draft
	return nil
}

func (r *fakeProviderRepo) FindDraft(_ context.Context, id int64) (*domain.ServiceProviderDraft, error) {
	stored, ok := r.drafts[id]
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrCodeDraftNotFound, "provider draft not found: %d", id)
	}
	copied := stored
	return &copied, nil
}

func (r *fakeProviderRepo) ListDraftsByProvider(_ context.Context, providerID int64) ([]*domain.ServiceProviderDraft, error) {
	var drafts []*domain.ServiceProviderDraft
	for _, stored := range r.drafts {
		if stored.ProviderID == providerID {
			copied := stored
			drafts = append(drafts, &copied)
		}
	}
	return drafts, nil
}

func (r *fakeProviderRepo) SaveReview(_ context.Context, draft *domain.ServiceProviderDraft, provider *domain.ServiceProvider) error {
	r.drafts[draft.ID] = *draft
	if provider != nil {
		r.providers[provider.ID] = *provider
	}
	return nil
}

func newProviderFixture() (*ProviderService, *fakeProviderRepo, *outboxStub) {
	repo := newFakeProviderRepo()
	outbox := &outboxStub{}
	return NewProviderService(repo, outbox, logger.NewTestLogger()), repo, outbox
}

func TestSubmitDraft(t *testing.T) {
	svc, repo, _ := newProviderFixture()

	draft, err := svc.SubmitDraft(context.Background(), 7, "New Name", "new-contact", "new-address")

	require.NoError(t, err)
	assert.Equal(t, domain.DraftPending, draft.Status)
	assert.Len(t, repo.drafts, 1)
}

func TestSubmitDraft_UnknownProvider(t *testing.T) {
	svc, _, _ := newProviderFixture()

	_, err := svc.SubmitDraft(context.Background(), 42, "New Name", "c", "a")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeProviderNotFound))
}

func TestReviewDraft_ApproveAppliesToProvider(t *testing.T) {
	svc, repo, outbox := newProviderFixture()
	draft, err := svc.SubmitDraft(context.Background(), 7, "New Name", "new-contact", "new-address")
	require.NoError(t, err)

	reviewed, err := svc.ReviewDraft(context.Background(), draft.ID, true, "looks good")

	require.NoError(t, err)
	assert.Equal(t, domain.DraftApproved, reviewed.Status)
	assert.Equal(t, "New Name", repo.providers[7].Name)
	assert.Equal(t, "new-contact", repo.providers[7].Contact)
	assert.Contains(t, outbox.inserted, string(events.EventProviderDraftReviewed))
}

func TestReviewDraft_RejectKeepsProvider(t *testing.T) {
	svc, repo, _ := newProviderFixture()
	draft, err := svc.SubmitDraft(context.Background(), 7, "New Name", "new-contact", "new-address")
	require.NoError(t, err)

	reviewed, err := svc.ReviewDraft(context.Background(), draft.ID, false, "incomplete address")

	require.NoError(t, err)
	assert.Equal(t, domain.DraftRejected, reviewed.Status)
	assert.Equal(t, "Fix-It Co", repo.providers[7].Name)
}

func TestReviewDraft_AlreadyReviewed(t *testing.T) {
	svc, _, _ := newProviderFixture()
	draft, err := svc.SubmitDraft(context.Background(), 7, "New Name", "new-contact", "new-address")
	require.NoError(t, err)

	_, err = svc.ReviewDraft(context.Background(), draft.ID, true, "looks good")
	require.NoError(t, err)

	_, err = svc.ReviewDraft(context.Background(), draft.ID, false, "changed my mind")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
}

func TestListDrafts(t *testing.T) {
	svc, _, _ := newProviderFixture()
	_, err := svc.SubmitDraft(context.Background(), 7, "A", "c", "a")
	require.NoError(t, err)
	_, err = svc.SubmitDraft(context.Background(), 7, "B", "c", "a")
	require.NoError(t, err)

	drafts, err := svc.ListDrafts(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)
}
