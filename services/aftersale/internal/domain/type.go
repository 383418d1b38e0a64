package domain

import apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"

// AftersaleType AS 주문 유형
type AftersaleType string

const (
	TypeExchange AftersaleType = "EXCHANGE" // 교환
	TypeReturn   AftersaleType = "RETURN"   // 반품
	TypeRepair   AftersaleType = "REPAIR"   // 수리
)

var typeCodes = map[AftersaleType]int{
	TypeExchange: 0,
	TypeReturn:   1,
	TypeRepair:   2,
}

var typeByCode = map[int]AftersaleType{
	0: TypeExchange,
	1: TypeReturn,
	2: TypeRepair,
}

// Code 유형의 영속화 코드 반환
func (t AftersaleType) Code() int {
	return typeCodes[t]
}

// TypeFromCode 영속화 코드로부터 유형 복원
func TypeFromCode(code int) (AftersaleType, error) {
	t, ok := typeByCode[code]
	if !ok {
		return "", apperrors.Newf(apperrors.ErrCodeSerializationError,
			"unknown aftersale type code: %d", code)
	}
	return t, nil
}

// IsValid 유효한 유형인지 확인
func (t AftersaleType) IsValid() bool {
	_, ok := typeCodes[t]
	return ok
}

func (t AftersaleType) String() string {
	return string(t)
}
