package domain

import apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"

// ServiceOrderType 서비스 주문 유형
type ServiceOrderType string

const (
	TypeOnsiteRepair ServiceOrderType = "ONSITE_REPAIR"  // 방문 수리
	TypeMailInRepair ServiceOrderType = "MAIL_IN_REPAIR" // 택배 수리
	TypeOther        ServiceOrderType = "OTHER"          // 기타
)

var typeCodes = map[ServiceOrderType]int{
	TypeOnsiteRepair: 0,
	TypeMailInRepair: 1,
	TypeOther:        2,
}

var typeByCode = map[int]ServiceOrderType{
	0: TypeOnsiteRepair,
	1: TypeMailInRepair,
	2: TypeOther,
}

// Code 유형의 영속화 코드 반환
func (t ServiceOrderType) Code() int {
	return typeCodes[t]
}

// TypeFromCode 영속화 코드로부터 유형 복원
func TypeFromCode(code int) (ServiceOrderType, error) {
	t, ok := typeByCode[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrCodeSerializationError,
			"unknown service order type code: %d", code)
	}
	return t, nil
}

// IsValid 유효한 유형인지 확인
func (t ServiceOrderType) IsValid() bool {
	_, ok := typeCodes[t]
	return ok
}

func (t ServiceOrderType) String() string {
	return string(t)
}
