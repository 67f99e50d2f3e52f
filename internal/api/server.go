package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-attendance-api/docs"
	v1 "github.com/vietanh2810/event-attendance-api/internal/api/handler/v1"
	"github.com/vietanh2810/event-attendance-api/internal/api/middleware"
	"github.com/vietanh2810/event-attendance-api/internal/broadcast"
	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/lock"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/scantoken"
	"github.com/vietanh2810/event-attendance-api/internal/repository"
	"github.com/vietanh2810/event-attendance-api/internal/repository/dao"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

// Dependencies are the process-wide collaborators built at startup.
type Dependencies struct {
	Codec     *scantoken.Codec
	Locker    lock.Locker
	Publisher broadcast.Publisher
	Hub       *broadcast.Hub
}

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine

	deps     Dependencies
	registry *service.RegistryService
	ledger   *service.LedgerService
}

type handlers struct {
	auth        *v1.AuthHandler
	event       *v1.EventHandler
	token       *v1.TokenHandler
	scan        *v1.ScanHandler
	attendance  *v1.AttendanceHandler
	eligibility *v1.EligibilityHandler
	feedback    *v1.FeedbackHandler
	feed        *v1.FeedHandler
}

func NewServer(conf *config.AppConfig, db *gorm.DB, deps Dependencies) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
		deps:   deps,
	}

	s.MountMiddlewares()

	s.registry = service.NewRegistryService(repository.NewEventRepository(dao.NewEventDAO(db)), deps.Publisher)
	s.ledger = service.NewLedgerService(repository.NewAttendanceRepository(dao.NewAttendanceDAO(db)), deps.Locker, deps.Publisher)

	s.MountHandlers(handlers{
		auth:        s.initAuthHandler(db),
		event:       v1.NewEventHandler(s.registry),
		token:       s.initTokenHandler(db),
		scan:        s.initScanHandler(db),
		attendance:  v1.NewAttendanceHandler(s.ledger),
		eligibility: v1.NewEligibilityHandler(s.initEligibilityService(db)),
		feedback:    s.initFeedbackHandler(db),
		feed:        v1.NewFeedHandler(deps.Hub),
	})

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initTokenHandler(db *gorm.DB) *v1.TokenHandler {
	stalls := repository.NewStallRepository(dao.NewStallDAO(db))
	users := repository.NewUserRepository(dao.NewUserDAO(db))
	svc := service.NewIssuanceService(s.Config.Token, s.registry, s.deps.Codec, stalls, users)
	handler := v1.NewTokenHandler(svc)

	return handler
}

func (s *Server) initScanAuthority(db *gorm.DB) *service.ScanAuthority {
	stalls := repository.NewStallRepository(dao.NewStallDAO(db))
	users := repository.NewUserRepository(dao.NewUserDAO(db))

	return service.NewScanAuthority(s.deps.Codec, s.registry, stalls, users)
}

func (s *Server) initScanHandler(db *gorm.DB) *v1.ScanHandler {
	svc := service.NewScanService(s.initScanAuthority(db), s.ledger)
	handler := v1.NewScanHandler(svc)

	return handler
}

func (s *Server) initEligibilityService(db *gorm.DB) *service.EligibilityService {
	stalls := repository.NewStallRepository(dao.NewStallDAO(db))
	submissions := repository.NewFeedbackRepository(dao.NewFeedbackDAO(db))

	return service.NewEligibilityService(s.registry, stalls, s.ledger, submissions)
}

func (s *Server) initFeedbackHandler(db *gorm.DB) *v1.FeedbackHandler {
	stalls := repository.NewStallRepository(dao.NewStallDAO(db))
	repo := repository.NewFeedbackRepository(dao.NewFeedbackDAO(db))
	svc := service.NewFeedbackService(s.initScanAuthority(db), s.registry, stalls, s.initEligibilityService(db), repo)
	handler := v1.NewFeedbackHandler(svc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", h.auth.HandleLogin)
	}

	authenticated := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authenticated.GET("/events/active", h.event.HandleGetActive)
	}

	admin := authenticated.Group("", middleware.Require(middleware.IsAdmin))
	{
		admin.POST("/events/:eventID/activate", h.event.HandleActivate)
		admin.POST("/stalls/:stallID/token", h.token.HandleRegenerateStallToken)
		admin.GET("/scans/feed", h.feed.HandleScanFeed)
	}

	scanners := authenticated.Group("", middleware.Require(middleware.IsScanner))
	{
		scanners.POST("/scans", h.scan.HandleSubmitScan)
		scanners.GET("/events/:eventID/students/:studentID/attendance", h.attendance.HandleGetAttendance)
	}

	students := authenticated.Group("", middleware.Require(middleware.IsStudent))
	{
		students.POST("/students/me/token", h.token.HandleIssueStudentToken)
		students.GET("/events/:eventID/eligibility/feedback", h.eligibility.HandleFeedbackEligibility)
		students.GET("/events/:eventID/eligibility/vote", h.eligibility.HandleVoteEligibility)
		students.POST("/feedback", h.feedback.HandleSubmitFeedback)
		students.POST("/votes", h.feedback.HandleCastVote)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Event attendance API"
	docs.SwaggerInfo.Description = "Event-scoped QR verification, attendance ledger and eligibility checks."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
