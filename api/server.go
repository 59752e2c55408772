package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/risport-go/api/controllers"
	"github.com/moyoez/risport-go/api/middlewares"
	"github.com/moyoez/risport-go/api/models"
	"github.com/moyoez/risport-go/api/notifyhub"
	"github.com/moyoez/risport-go/tool"
)

// Server is the local JSON gateway. It only listens on loopback.
type Server struct {
	port   int
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(port int) *Server {
	return &Server{port: port}
}

// Handler returns the gateway routes, building them on first use.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = setupRoutes()
	}
	return s.engine
}

func setupRoutes() *gin.Engine {
	if gin.Mode() != gin.TestMode {
		if tool.DefaultLogger.GetLevel() == log.DebugLevel {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestLog)
	engine.Use(middlewares.OnlyAllowLocal)

	risGroup := engine.Group("/api/ris/v1")
	{
		risGroup.POST("/devices", controllers.HandleSelectDevices) // selectCmDeviceExt
		risGroup.POST("/servers", controllers.HandleServerInfo)    // getServerInfo
	}
	self := engine.Group("/api/self/v1")
	{
		self.GET("/status", controllers.UserStatus)
		self.GET("/device-status", controllers.UserDeviceStatus) // table kept by the monitor
		self.DELETE("/device-status/:name", controllers.UserDeviceStatusDelete)
		self.GET("/poll-now", controllers.UserPollNow)
		self.GET("/probe", controllers.UserProbe)
		self.GET("/config", controllers.UserConfigGet)
		self.PATCH("/config", controllers.UserConfigPatch)
		if hub := models.GetNotifyHub(); hub != nil {
			self.GET("/notify-ws", notifyhub.HandleNotifyWS(hub))
		}
	}
	return engine
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler: handler,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting gateway on http://%s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
