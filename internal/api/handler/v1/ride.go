package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uniclubs/campus-api/internal/api/handler/v1/request"
	"github.com/uniclubs/campus-api/internal/api/handler/v1/response"
	"github.com/uniclubs/campus-api/internal/domain"
	"github.com/uniclubs/campus-api/internal/service"
)

type RideService interface {
	CreateRide(ctx context.Context, ride domain.Ride) (domain.Ride, error)
	GetRide(ctx context.Context, rideID uint) (domain.Ride, error)
	ListRides(ctx context.Context, filter domain.RideFilter) ([]domain.Ride, error)
	JoinRide(ctx context.Context, rideID, studentID uint) error
	LeaveRide(ctx context.Context, rideID, studentID uint) error
	DeleteRide(ctx context.Context, rideID, requesterID uint) error
}

type RideHandler struct {
	svc RideService
}

func NewRideHandler(svc RideService) *RideHandler {
	return &RideHandler{
		svc: svc,
	}
}

func parseRideID(ctx *gin.Context) (uint, error) {
	rideID, err := strconv.ParseUint(ctx.Param("rideID"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid ride ID: %w", err)
	}

	return uint(rideID), nil
}

// HandleCreateRide godoc
// @Summary      Offer a new ride
// @Description  Creates a carpool ride; the number of seats offered becomes the ride's capacity.
// @Tags         rides
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateRideRequest  true  "ride details"
// @Success      201      {object}  domain.Ride
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /rides [post]
// @Security     BearerAuth
func (h *RideHandler) HandleCreateRide(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateRideRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var arrival time.Time
	if req.ArrivalTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.ArrivalTime)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid arrival time: %w", err)))
			return
		}
		arrival = parsed
	}

	ride, err := h.svc.CreateRide(ctx.Request.Context(), domain.Ride{
		FromLoc:        req.FromLoc,
		ToLoc:          req.ToLoc,
		Price:          req.Price,
		SeatsAvailable: req.SeatsAvailable,
		ArrivalTime:    arrival,
		Service:        req.Service,
		CreatedBy:      userID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateRide -> h.svc.CreateRide -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, ride)
}

// HandleGetRide godoc
// @Summary      Get a ride
// @Description  Retrieves a ride with its current passenger list.
// @Tags         rides
// @Produce      json
// @Param        rideID  path      int  true  "Ride ID"
// @Success      200     {object}  domain.Ride
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /rides/{rideID} [get]
// @Security     BearerAuth
func (h *RideHandler) HandleGetRide(ctx *gin.Context) {
	rideID, err := parseRideID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ride, err := h.svc.GetRide(ctx.Request.Context(), rideID)
	if err != nil {
		if errors.Is(err, service.ErrRideNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("ride", "ID", rideID))
			return
		}

		err = fmt.Errorf("v1.HandleGetRide -> h.svc.GetRide -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, ride)
}

// HandleListRides godoc
// @Summary      List rides
// @Description  Lists rides, optionally filtered by origin, destination and service.
// @Tags         rides
// @Produce      json
// @Param        fromLoc  query     string  false  "origin filter"
// @Param        toLoc    query     string  false  "destination filter"
// @Param        service  query     string  false  "service filter"
// @Success      200       {array}   domain.Ride
// @Failure      500       {object}  response.Err
// @Router       /rides [get]
// @Security     BearerAuth
func (h *RideHandler) HandleListRides(ctx *gin.Context) {
	filter := domain.RideFilter{
		FromLoc: ctx.Query("fromLoc"),
		ToLoc:   ctx.Query("toLoc"),
		Service: ctx.Query("service"),
	}

	rides, err := h.svc.ListRides(ctx.Request.Context(), filter)
	if err != nil {
		err = fmt.Errorf("v1.HandleListRides -> h.svc.ListRides -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, rides)
}

// HandleJoinRide godoc
// @Summary      Join a ride
// @Description  Claims one seat for the authenticated student. Fails when the ride is full or the student already joined.
// @Tags         rides
// @Produce      json
// @Param        rideID  path  int  true  "Ride ID"
// @Success      200
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /rides/{rideID}/join [post]
// @Security     BearerAuth
func (h *RideHandler) HandleJoinRide(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rideID, err := parseRideID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.JoinRide(ctx.Request.Context(), rideID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrRideNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ride", "ID", rideID))
		case errors.Is(err, service.ErrNoSeatsAvailable):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNoSeatsAvailable))
		case errors.Is(err, service.ErrAlreadyJoined):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyJoined))
		default:
			err = fmt.Errorf("v1.HandleJoinRide -> h.svc.JoinRide -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "seat booked"})
}

// HandleLeaveRide godoc
// @Summary      Leave a ride
// @Description  Releases the authenticated student's seat back to the ride.
// @Tags         rides
// @Produce      json
// @Param        rideID  path  int  true  "Ride ID"
// @Success      200
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /rides/{rideID}/leave [delete]
// @Security     BearerAuth
func (h *RideHandler) HandleLeaveRide(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rideID, err := parseRideID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.LeaveRide(ctx.Request.Context(), rideID, userID); err != nil {
		if errors.Is(err, service.ErrNotAMember) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrNotAMember))
			return
		}

		err = fmt.Errorf("v1.HandleLeaveRide -> h.svc.LeaveRide -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "seat released"})
}

// HandleDeleteRide godoc
// @Summary      Delete a ride
// @Description  Deletes a ride and its memberships. Only the creator may delete.
// @Tags         rides
// @Produce      json
// @Param        rideID  path  int  true  "Ride ID"
// @Success      200
// @Failure      400     {object}  response.Err
// @Failure      401     {object}  response.Err
// @Failure      403     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /rides/{rideID} [delete]
// @Security     BearerAuth
func (h *RideHandler) HandleDeleteRide(ctx *gin.Context) {
	userID, respErr := getUserID(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	rideID, err := parseRideID(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteRide(ctx.Request.Context(), rideID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrRideNotFound):
			response.RenderErr(ctx, response.ErrNotFound("ride", "ID", rideID))
		case errors.Is(err, service.ErrNotRideCreator):
			response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotRideCreator))
		default:
			err = fmt.Errorf("v1.HandleDeleteRide -> h.svc.DeleteRide -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "ride deleted"})
}
