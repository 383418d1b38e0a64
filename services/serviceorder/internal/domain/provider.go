package domain

import (
	"time"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

// ServiceProvider 서비스 제공사
type ServiceProvider struct {
	ID        int64
	Name      string
	Contact   string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftStatus 제공사 변경 초안 심사 상태
type DraftStatus string

const (
	DraftPending  DraftStatus = "PENDING"
	DraftApproved DraftStatus = "APPROVED"
	DraftRejected DraftStatus = "REJECTED"
)

var draftStatusCodes = map[DraftStatus]int{
	DraftPending:  0,
	DraftApproved: 1,
	DraftRejected: 2,
}

var draftStatusByCode = map[int]DraftStatus{
	0: DraftPending,
	1: DraftApproved,
	2: DraftRejected,
}

// Code 심사 상태의 영속화 코드 반환
func (s DraftStatus) Code() int {
	return draftStatusCodes[s]
}

// DraftStatusFromCode 영속화 코드로부터 심사 상태 복원
func DraftStatusFromCode(code int) (DraftStatus, error) {
	status, ok := draftStatusByCode[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrCodeSerializationError,
			"unknown draft status code: %d", code)
	}
	return status, nil
}

func (s DraftStatus) String() string {
	return string(s)
}

// ServiceProviderDraft 제공사 정보 변경 초안.
// 심사 승인 시 초안 내용이 제공사 정보에 반영된다.
type ServiceProviderDraft struct {
	ID         int64
	ProviderID int64
	Name       string
	Contact    string
	Address    string
	Status     DraftStatus
	Opinion    string // 심사 의견
	CreatedAt  time.Time
	ReviewedAt *time.Time
}

// NewDraft 제공사 변경 초안 생성 (PENDING 상태)
func NewDraft(providerID int64, name, contact, address string) *ServiceProviderDraft {
	return &ServiceProviderDraft{
		ProviderID: providerID,
		Name:       name,
		Contact:    contact,
		Address:    address,
		Status:     DraftPending,
		CreatedAt:  time.Now(),
	}
}

// RequirePendingReview 심사 가능 상태인지 검사
func (d *ServiceProviderDraft) RequirePendingReview() error {
	if d.Status != DraftPending {
		return apperrors.Newf(apperrors.ErrCodeStateInvalid,
			"draft already reviewed: status %s", d.Status)
	}
	return nil
}

// Approve 초안 승인
func (d *ServiceProviderDraft) Approve(opinion string) {
	now := time.Now()
	d.Status = DraftApproved
	d.Opinion = opinion
	d.ReviewedAt = &now
}

// RejectReview 초안 반려
func (d *ServiceProviderDraft) RejectReview(opinion string) {
	now := time.Now()
	d.Status = DraftRejected
	d.Opinion = opinion
	d.ReviewedAt = &now
}

// ApplyTo 승인된 초안 내용을 제공사 정보에 반영
func (d *ServiceProviderDraft) ApplyTo(provider *ServiceProvider) {
	provider.Name = d.Name
	provider.Contact = d.Contact
	provider.Address = d.Address
	provider.UpdatedAt = time.Now()
}
