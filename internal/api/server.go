package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/uniclubs/campus-api/docs"
	v1 "github.com/uniclubs/campus-api/internal/api/handler/v1"
	"github.com/uniclubs/campus-api/internal/api/middleware"
	"github.com/uniclubs/campus-api/internal/config"
	"github.com/uniclubs/campus-api/internal/repository"
	"github.com/uniclubs/campus-api/internal/repository/dao"
	"github.com/uniclubs/campus-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	rideHandler := s.initRideHandler(db)
	ticketHandler := s.initTicketHandler(db)
	eventHandler := s.initEventHandler(db)
	s.MountHandlers(rideHandler, ticketHandler, eventHandler)

	return s
}

func (s *Server) initRideHandler(db *gorm.DB) *v1.RideHandler {
	rideDAO := dao.NewRideDAO(db)
	repo := repository.NewRideRepository(rideDAO)
	svc := service.NewRideService(repo)
	handler := v1.NewRideHandler(svc)

	return handler
}

func (s *Server) initTicketHandler(db *gorm.DB) *v1.TicketHandler {
	ticketDAO := dao.NewTicketDAO(db)
	repo := repository.NewTicketRepository(ticketDAO)
	eventRepo := repository.NewEventRepository(dao.NewEventDAO(db))
	svc := service.NewTicketService(repo, eventRepo)
	handler := v1.NewTicketHandler(svc)

	return handler
}

func (s *Server) initEventHandler(db *gorm.DB) *v1.EventHandler {
	eventDAO := dao.NewEventDAO(db)
	repo := repository.NewEventRepository(eventDAO)
	svc := service.NewEventService(repo)
	handler := v1.NewEventHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(rideHandler *v1.RideHandler, ticketHandler *v1.TicketHandler, eventHandler *v1.EventHandler) {
	const basePath = "/api/v1"

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/rides", rideHandler.HandleListRides)
		authed.GET("/rides/:rideID", rideHandler.HandleGetRide)
		authed.POST("/rides", rideHandler.HandleCreateRide)
		authed.POST("/rides/:rideID/join", rideHandler.HandleJoinRide)
		authed.DELETE("/rides/:rideID/leave", rideHandler.HandleLeaveRide)
		authed.DELETE("/rides/:rideID", rideHandler.HandleDeleteRide)

		authed.GET("/events", eventHandler.HandleListEvents)
		authed.GET("/events/:eventID", eventHandler.HandleGetEvent)

		authed.GET("/tickets", ticketHandler.HandleListTickets)
		authed.POST("/tickets/register", ticketHandler.HandleRegisterTicket)
		authed.PATCH("/tickets/verifyQr", ticketHandler.HandleVerifyQR)
		authed.POST("/tickets/rate", ticketHandler.HandleRateEvent)
		authed.POST("/tickets/certificate", ticketHandler.HandleIssueCertificate)

		authed.GET("/badges", ticketHandler.HandleListBadges)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Activities API"
	docs.SwaggerInfo.Description = "Carpool seat booking and event ticketing for campus clubs."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
