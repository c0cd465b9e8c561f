package v1_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	v1 "github.com/uniclubs/campus-api/internal/api/handler/v1"
	"github.com/uniclubs/campus-api/internal/api/middleware"
	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/repository/memory"
	"github.com/uniclubs/campus-api/internal/service"
)

func newTicketRouter(t *testing.T, userID uint) (*gin.Engine, *memory.TicketStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewTicketStore()
	store.SeedEvent(domain.Event{ID: 1, Title: "Spring Gala", BasePrice: 100, TeamID: 7})
	store.SeedOrganizer(7, 9)

	handler := v1.NewTicketHandler(service.NewTicketService(store, store))

	router := gin.New()
	router.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, userID)
	})
	router.POST("/tickets/register", handler.HandleRegisterTicket)
	router.PATCH("/tickets/verifyQr", handler.HandleVerifyQR)
	router.POST("/tickets/rate", handler.HandleRateEvent)

	return router, store
}

func TestHandleRegisterTicket(t *testing.T) {
	router, _ := newTicketRouter(t, 42)

	req := httptest.NewRequest(http.MethodPost, "/tickets/register", strings.NewReader(`{"eventId":1}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"price":100`)

	// Same student again: conflict, not a second ticket.
	req = httptest.NewRequest(http.MethodPost, "/tickets/register", strings.NewReader(`{"eventId":1}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHandleRegisterTicket_EventNotFound(t *testing.T) {
	router, _ := newTicketRouter(t, 42)

	req := httptest.NewRequest(http.MethodPost, "/tickets/register", strings.NewReader(`{"eventId":999}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHandleVerifyQR_StatusMapping(t *testing.T) {
	// Student 42 registers through their own router; organizer 9 scans.
	studentRouter, store := newTicketRouter(t, 42)

	req := httptest.NewRequest(http.MethodPost, "/tickets/register", strings.NewReader(`{"eventId":1}`))
	resp := httptest.NewRecorder()
	studentRouter.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)

	organizerRouter := gin.New()
	organizerRouter.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextKeyUserID, uint(9))
	})
	handler := v1.NewTicketHandler(service.NewTicketService(store, store))
	organizerRouter.PATCH("/tickets/verifyQr", handler.HandleVerifyQR)

	req = httptest.NewRequest(http.MethodPatch, "/tickets/verifyQr", strings.NewReader(`{"eventId":1,"studentId":42}`))
	resp = httptest.NewRecorder()
	organizerRouter.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"scanned":true`)

	// A non-organizer caller is rejected.
	req = httptest.NewRequest(http.MethodPatch, "/tickets/verifyQr", strings.NewReader(`{"eventId":1,"studentId":42}`))
	resp = httptest.NewRecorder()
	studentRouter.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandleRateEvent_InvalidRating(t *testing.T) {
	router, _ := newTicketRouter(t, 42)

	req := httptest.NewRequest(http.MethodPost, "/tickets/register", strings.NewReader(`{"eventId":1}`))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)

	req = httptest.NewRequest(http.MethodPost, "/tickets/rate", strings.NewReader(`{"eventId":1,"rating":6}`))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
