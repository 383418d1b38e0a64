package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/kyungseok/aftersale-msa-go/common/errors"
)

func fastConfig() Config {
	return Config{
		MaxAttempts:        3,
		InitialInterval:    time.Millisecond,
		MaxInterval:        5 * time.Millisecond,
		BackoffCoefficient: 2.0,
		MaxElapsedTime:     time.Second,
	}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), zap.NewNop(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), zap.NewNop(), func() error {
		attempts++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_BusinessErrorShortCircuits(t *testing.T) {
	attempts := 0
	businessErr := apperrors.New(apperrors.ErrCodeStateInvalid, "cannot cancel completed order")

	err := Do(context.Background(), fastConfig(), zap.NewNop(), func() error {
		attempts++
		return businessErr
	})

	// 비즈니스 에러는 재시도 없이 즉시 반환
	assert.Equal(t, 1, attempts)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStateInvalid))
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, fastConfig(), zap.NewNop(), func() error {
		t.Fatal("fn should not run with cancelled context")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	result, err := DoWithResult(context.Background(), fastConfig(), zap.NewNop(), func() (int64, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("timeout")
		}
		return 888, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(888), result)
	assert.Equal(t, 2, attempts)
}
