package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uniclubs/campus-api/internal/api/handler/v1/request"
	"github.com/uniclubs/campus-api/internal/api/handler/v1/response"
	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/service"
)

type TicketService interface {
	RegisterForEvent(ctx context.Context, eventID, studentID uint) (domain.Ticket, error)
	CheckIn(ctx context.Context, eventID, studentID, organizerID uint) (domain.Ticket, error)
	RateEvent(ctx context.Context, eventID, studentID uint, rating int, feedback string) (domain.Ticket, error)
	IssueCertificate(ctx context.Context, eventID, studentID, organizerID uint, url string) (domain.Ticket, error)
	ListTickets(ctx context.Context, studentID uint) ([]domain.Ticket, error)
	ListBadges(ctx context.Context, studentID uint) ([]domain.DiscountBadge, error)
}

type TicketHandler struct {
	svc TicketService
}

func NewTicketHandler(svc TicketService) *TicketHandler {
	return &TicketHandler{
		svc: svc,
	}
}

// HandleRegisterTicket godoc
// @Summary      Register for an event
// @Description  Issues a ticket for the authenticated student. A usable discount badge for the event's team lowers the price and spends one usage credit.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterTicketRequest  true  "registration details"
// @Success      201      {object}  domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets/register [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleRegisterTicket(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterTicketRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.RegisterForEvent(ctx.Request.Context(), req.EventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrAlreadyRegistered):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyRegistered))
		default:
			err = fmt.Errorf("v1.HandleRegisterTicket -> h.svc.RegisterForEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, ticket)
}

// HandleVerifyQR godoc
// @Summary      Check a ticket in at the gate
// @Description  Marks the ticket as scanned. Only an organizer of the event's team may scan; re-scanning is a no-op success.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.VerifyQRRequest  true  "ticket identifiers"
// @Success      200      {object}  domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets/verifyQr [patch]
// @Security     BearerAuth
func (h *TicketHandler) HandleVerifyQR(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.VerifyQRRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.CheckIn(ctx.Request.Context(), req.EventID, req.StudentID, userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "studentID", req.StudentID))
		case errors.Is(err, service.ErrBadOrganizer):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBadOrganizer))
		default:
			err = fmt.Errorf("v1.HandleVerifyQR -> h.svc.CheckIn -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleRateEvent godoc
// @Summary      Rate an attended event
// @Description  Records a 0-5 rating with optional feedback on the student's ticket.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.RateEventRequest  true  "rating details"
// @Success      200      {object}  domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets/rate [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleRateEvent(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.RateEvent(ctx.Request.Context(), req.EventID, userID, req.Rating, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "eventID", req.EventID))
		case errors.Is(err, service.ErrInvalidRating):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRating))
		default:
			err = fmt.Errorf("v1.HandleRateEvent -> h.svc.RateEvent -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleIssueCertificate godoc
// @Summary      Issue an attendance certificate
// @Description  Attaches a certificate URL to a scanned ticket. Only an organizer of the event's team may issue, and only after check-in.
// @Tags         tickets
// @Accept       json
// @Produce      json
// @Param        request  body      request.IssueCertificateRequest  true  "certificate details"
// @Success      200      {object}  domain.Ticket
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /tickets/certificate [post]
// @Security     BearerAuth
func (h *TicketHandler) HandleIssueCertificate(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.IssueCertificateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ticket, err := h.svc.IssueCertificate(ctx.Request.Context(), req.EventID, req.StudentID, userID, req.CertificateURL)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", req.EventID))
		case errors.Is(err, service.ErrTicketNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ticket", "studentID", req.StudentID))
		case errors.Is(err, service.ErrBadOrganizer):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrBadOrganizer))
		case errors.Is(err, service.ErrNotCheckedIn):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotCheckedIn))
		default:
			err = fmt.Errorf("v1.HandleIssueCertificate -> h.svc.IssueCertificate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, ticket)
}

// HandleListTickets godoc
// @Summary      List the authenticated student's tickets
// @Tags         tickets
// @Produce      json
// @Success      200  {array}   domain.Ticket
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /tickets [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleListTickets(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tickets, err := h.svc.ListTickets(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListTickets -> h.svc.ListTickets -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, tickets)
}

// HandleListBadges godoc
// @Summary      List the authenticated student's discount badges
// @Tags         badges
// @Produce      json
// @Success      200  {array}   domain.DiscountBadge
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /badges [get]
// @Security     BearerAuth
func (h *TicketHandler) HandleListBadges(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	badges, err := h.svc.ListBadges(ctx.Request.Context(), userID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListBadges -> h.svc.ListBadges -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, badges)
}
