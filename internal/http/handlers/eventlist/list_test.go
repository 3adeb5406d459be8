package eventlist

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	eventservice "github.com/anastasiapp/qa-start-tg-bot/internal/services/event"
)

// MockService реализует интерфейс eventlist.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Upcoming(ctx context.Context, limit int) ([]eventservice.UpcomingEvent, error) {
	args := m.Called(ctx, limit)
	if res := args.Get(0); res != nil {
		return res.([]eventservice.UpcomingEvent), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestEventListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "список с лимитом по умолчанию",
			url:  "/events",
			setupMock: func(m *MockService) {
				m.On("Upcoming", mock.Anything, 5).Return([]eventservice.UpcomingEvent{
					{ID: "e1", Title: "QA митап", StartAt: "2026-10-01T18:00:00.000Z"},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"QA митап"`,
		},
		{
			name: "limit из запроса перекрывает значение по умолчанию",
			url:  "/events?limit=2",
			setupMock: func(m *MockService) {
				m.On("Upcoming", mock.Anything, 2).Return([]eventservice.UpcomingEvent{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"events":[]`,
		},
		{
			name:           "отрицательный limit отклоняется",
			url:            "/events?limit=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "limit must be a positive integer",
		},
		{
			name: "ошибка сервиса",
			url:  "/events",
			setupMock: func(m *MockService) {
				m.On("Upcoming", mock.Anything, 5).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "could not list events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, 5)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
