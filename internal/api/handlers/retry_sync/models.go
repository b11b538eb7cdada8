package retry_sync

import (
	retrySync "github.com/m04kA/SMC-AssistantBooking/internal/usecase/retry_sync"
)

// SyncResponse HTTP response model
type SyncResponse struct {
	AppointmentID int64          `json:"appointmentId"`
	Tasks         []TaskResponse `json:"tasks"`
}

// TaskResponse результат задачи синхронизации
type TaskResponse struct {
	Kind     string  `json:"kind"`
	Status   string  `json:"status"`
	Attempts int     `json:"attempts"`
	Error    *string `json:"error,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *retrySync.Response) *SyncResponse {
	result := &SyncResponse{
		AppointmentID: resp.AppointmentID,
		Tasks:         make([]TaskResponse, 0, len(resp.Results)),
	}
	for _, r := range resp.Results {
		task := TaskResponse{Kind: string(r.Kind), Status: string(r.Status), Attempts: r.Attempts}
		if r.Error != "" {
			msg := r.Error
			task.Error = &msg
		}
		result.Tasks = append(result.Tasks, task)
	}
	return result
}
