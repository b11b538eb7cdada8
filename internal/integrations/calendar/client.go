package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client клиент внешнего календаря
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента календаря
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// IdempotencyKey ключ идемпотентности события записи
// Повторная отправка с тем же ключом не создает второе событие
func IdempotencyKey(appointmentID int64) string {
	return fmt.Sprintf("appointment-%d", appointmentID)
}

// CreateEvent создает событие и возвращает его идентификатор
// Одна попытка; повторы выполняет вызывающая сторона.
func (c *Client) CreateEvent(ctx context.Context, event *Event) (string, error) {
	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(event.CalendarID))

	body, err := json.Marshal(createEventRequest{
		Title:           event.Title,
		Description:     event.Description,
		Start:           event.Start.Format(time.RFC3339),
		End:             event.End.Format(time.RFC3339),
		DurationMinutes: int(event.End.Sub(event.Start) / time.Minute),
		TimeZone:        event.Start.Location().String(),
		Attendee:        event.Attendee,
		Service:         event.Service,
		ExternalRef:     IdempotencyKey(event.AppointmentID),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", IdempotencyKey(event.AppointmentID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: status code %d: %s", ErrRejected, resp.StatusCode, string(text))
	}

	var created createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: empty event id", ErrInvalidResponse)
	}

	return created.ID, nil
}
