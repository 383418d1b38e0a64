package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

func TestDraftReviewFlow(t *testing.T) {
	draft := NewDraft(7, "Fix-It Co", "02-1234-5678", "Seoul")
	assert.Equal(t, DraftPending, draft.Status)
	assert.Nil(t, draft.ReviewedAt)
	require.NoError(t, draft.RequirePendingReview())

	draft.Approve("looks good")
	assert.Equal(t, DraftApproved, draft.Status)
	assert.Equal(t, "looks good", draft.Opinion)
	require.NotNil(t, draft.ReviewedAt)

	// 이미 심사된 초안은 재심사 불가
	err := draft.RequirePendingReview()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
}

func TestDraftReject(t *testing.T) {
	draft := NewDraft(7, "Fix-It Co", "02-1234-5678", "Seoul")
	draft.RejectReview("incomplete address")

	assert.Equal(t, DraftRejected, draft.Status)
	assert.Equal(t, "incomplete address", draft.Opinion)
	require.NotNil(t, draft.ReviewedAt)
}

func TestDraftApplyTo(t *testing.T) {
	provider := &ServiceProvider{ID: 7, Name: "Old Name", Contact: "old", Address: "old"}
	draft := NewDraft(7, "New Name", "new-contact", "new-address")

	draft.ApplyTo(provider)

	assert.Equal(t, "New Name", provider.Name)
	assert.Equal(t, "new-contact", provider.Contact)
	assert.Equal(t, "new-address", provider.Address)
}

func TestDraftStatusCodeRoundTrip(t *testing.T) {
	for _, status := range []DraftStatus{DraftPending, DraftApproved, DraftRejected} {
		restored, err := DraftStatusFromCode(status.Code())
		require.NoError(t, err)
		assert.Equal(t, status, restored)
	}
}
