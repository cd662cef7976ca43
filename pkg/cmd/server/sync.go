package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
	nats "github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/IDM-desaive/formbricks/config"
	"github.com/IDM-desaive/formbricks/pkg/api"
	"github.com/IDM-desaive/formbricks/pkg/attribute"
	"github.com/IDM-desaive/formbricks/pkg/cache"
	"github.com/IDM-desaive/formbricks/pkg/person"
	"github.com/IDM-desaive/formbricks/pkg/pipeline"
	"github.com/IDM-desaive/formbricks/pkg/session"
	"github.com/IDM-desaive/formbricks/pkg/storage"
	"github.com/IDM-desaive/formbricks/pkg/storage/memory"
	"github.com/IDM-desaive/formbricks/pkg/storage/postgres"
	syncengine "github.com/IDM-desaive/formbricks/pkg/sync"
	"github.com/IDM-desaive/formbricks/pkg/telemetry"
)

type syncServer struct {
	cfg    *config.Config
	quitCh chan bool
	doneCh chan bool

	nc    *nats.Conn
	db    *sqlx.DB
	errCh chan error
}

func init() {
	formatter := &logrus.TextFormatter{
		FullTimestamp: true,
	}
	logrus.SetFormatter(formatter)

	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func newSyncServer(cfg *config.Config) (*syncServer, error) {
	s := &syncServer{
		cfg:    cfg,
		quitCh: make(chan bool),
		doneCh: make(chan bool),
		errCh:  make(chan error, 1),
	}

	if cfg.NATSServerURL != "" {
		nc, err := nats.Connect(cfg.NATSServerURL,
			nats.DrainTimeout(10*time.Second),
			nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
				log.Error("nats error: ", err)
				s.errCh <- err
			}),
			nats.DisconnectHandler(func(_ *nats.Conn) {
				syscall.Kill(syscall.Getpid(), syscall.SIGINT)
			}))
		if err != nil {
			return nil, err
		}
		s.nc = nc
	} else {
		log.Warn("NATS_URL not set, event publishing is disabled")
	}

	if cfg.DatabaseURL != "" {
		db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.db = db
	} else {
		log.Warn("DATABASE_URL not set, falling back to in-memory storage")
	}

	return s, nil
}

func (s *syncServer) store() storage.Interface {
	if s.db != nil {
		return postgres.NewStore(s.db)
	}
	return memory.NewStore()
}

func (s *syncServer) Serve() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(logger())
	// The widget calls the API from arbitrary origins
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	store := s.store()
	c := cache.New(session.CacheTTL)
	t := telemetry.NewService(s.nc)

	sessions := session.NewManager(store, c)
	attributes := attribute.NewService(store, c, sessions)
	persons := person.NewResolver(store, c, attributes, sessions)
	engine := syncengine.NewEngine(store, c, persons, sessions, attributes, t, s.cfg.MAULimit)

	handler := api.NewHandler(engine, attributes, persons, sessions, store, t)
	handler.RegisterRoutes(e)

	if s.nc != nil {
		worker := pipeline.NewWorker(s.nc)
		worker.Handle(telemetry.EventResponseFinished, func(ev telemetry.PipelineEvent) error {
			log.WithFields(log.Fields{
				"environmentId": ev.EnvironmentID,
				"surveyId":      ev.SurveyID,
			}).Info("survey response finished")
			return nil
		})
		if err := worker.Subscribe(); err != nil {
			log.Error("failed to subscribe pipeline worker: ", err)
		}
	}

	go func() {
		log.WithFields(log.Fields{
			"host": s.cfg.BindHost,
			"port": s.cfg.BindPort,
		}).Info("Starting server")

		if err := e.Start(fmt.Sprintf("%s:%d", s.cfg.BindHost, s.cfg.BindPort)); err != nil {
			e.Logger.Info("Shutting down the server")
		}
	}()

	// Wait until receiving the quit signal
	<-s.quitCh
	log.Info("Shutdown signal received")

	// Create a 10 second timeout context
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown the echo web server
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Error(err)
	}

	s.doneCh <- true
}

// Logger returns a middleware that logs HTTP requests.
func logger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			var err error
			if err = next(c); err != nil {
				c.Error(err)
			}
			stop := time.Now()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}
			reqSizeStr := req.Header.Get(echo.HeaderContentLength)
			if reqSizeStr == "" {
				reqSizeStr = "0"
			}
			reqSize, err := strconv.ParseInt(reqSizeStr, 10, 0)
			if err != nil {
				reqSize = -1
			}
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			}

			log.WithFields(log.Fields{
				"timestamp":     stop.Format(time.RFC3339),
				"id":            id,
				"remote_ip":     c.RealIP(),
				"host":          req.Host,
				"method":        req.Method,
				"uri":           req.RequestURI,
				"protocol":      req.Proto,
				"user_agent":    req.UserAgent(),
				"status":        res.Status,
				"status_text":   http.StatusText(res.Status),
				"referer":       req.Referer(),
				"error":         errMsg,
				"bytes_in":      reqSize,
				"bytes_out":     res.Size,
				"latency":       stop.Sub(start).Nanoseconds(),
				"latency_human": stop.Sub(start).String(),
			}).Infof("%s %s %s %d %s", req.Method, req.RequestURI, req.Proto,
				res.Status, strconv.FormatInt(res.Size, 10))

			return err
		}
	}
}

func (s *syncServer) Shutdown() {
	if s.nc != nil {
		s.nc.Drain()
	}
	if s.db != nil {
		s.db.Close()
	}

	// Send the quit signal to the server.Serve() routine
	s.quitCh <- true

	// Wait up to 10 seconds
	select {
	case <-s.doneCh:
		log.Info("Shutdown server successful")
	case <-time.After(10 * time.Second):
		log.Error("Shutdown server failed")
	}
}

func RunServeSync(c *config.Config) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		s, err := newSyncServer(c)
		if err != nil {
			log.Error("failed to create new server instance: ", err)
			os.Exit(1)
		}

		go s.Serve()

		// Wait for interrupt signal to gracefully shutdown the server
		quitCh := make(chan os.Signal, 1)
		signal.Notify(quitCh, os.Interrupt)
		<-quitCh

		// Shutdown the server
		s.Shutdown()
	}
}
