package retry_sync

import (
	"context"

	retrySync "github.com/m04kA/SMC-AssistantBooking/internal/usecase/retry_sync"
)

type RetrySyncUseCase interface {
	Execute(ctx context.Context, req *retrySync.Request) (*retrySync.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
