package strategy

import (
	"context"

	"go.uber.org/zap"
)

// CompensatingAction 성공한 외부 사이드 이펙트를 되돌리는 보상 동작
type CompensatingAction struct {
	Name string
	Run  func(ctx context.Context) error
}

// Compensations 보상 동작 스택.
// 영속화 실패 시 오케스트레이터가 역순으로 실행한다.
type Compensations struct {
	actions []CompensatingAction
}

// Push 보상 동작 추가
func (c *Compensations) Push(name string, run func(ctx context.Context) error) {
	c.actions = append(c.actions, CompensatingAction{Name: name, Run: run})
}

// Empty 쌓인 보상 동작이 없는지 확인
func (c *Compensations) Empty() bool {
	return len(c.actions) == 0
}

// RunAll 보상 동작을 역순으로 실행 (best effort), 실패한 동작 이름 반환
func (c *Compensations) RunAll(ctx context.Context, logger *zap.Logger) []string {
	var failed []string
	for i := len(c.actions) - 1; i >= 0; i-- {
		action := c.actions[i]
		if err := action.Run(ctx); err != nil {
			logger.Error("compensating action failed",
				zap.String("action", action.Name),
				zap.Error(err))
			failed = append(failed, action.Name)
			continue
		}
		logger.Info("compensating action executed", zap.String("action", action.Name))
	}
	return failed
}
