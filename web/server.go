// Package web serves a browser preview of the rendered frames: JSON status
// endpoints, a JPEG snapshot and a websocket stream of JPEG frames.
package web

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/soocke/frontcam-go/domain/capture"
	"github.com/soocke/frontcam-go/ui/images"
)

// Server is a capture.DisplaySink that also exposes the capture service over
// HTTP.
type Server struct {
	addr    string
	svc     capture.CaptureService
	logger  *slog.Logger
	quality int

	app    *fiber.App
	camera *Hub
	frames chan image.Image
}

// NewServer builds the fiber app for svc. quality is the JPEG quality used
// for snapshots and the stream.
func NewServer(addr string, svc capture.CaptureService, quality int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		addr:    addr,
		svc:     svc,
		logger:  logger.With("component", "web"),
		quality: quality,
		frames:  make(chan image.Image, 1),
	}
	s.camera = NewHub("camera", s.logger)

	app := fiber.New(fiber.Config{
		AppName:               "frontcam",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/stats", s.handleStats)
	api.Post("/restart", s.handleRestart)
	app.Get("/snapshot.jpg", s.handleSnapshot)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Run serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	go s.camera.Run(ctx)
	go s.encodeLoop(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listen(s.addr) }()
	s.logger.Info("web preview listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

// Show queues img for the stream, replacing a frame still waiting to be
// encoded. It never blocks the caller.
func (s *Server) Show(img image.Image) {
	if img == nil || s.camera.ClientCount() == 0 {
		return
	}
	select {
	case s.frames <- img:
		return
	default:
	}
	select {
	case <-s.frames:
	default:
	}
	select {
	case s.frames <- img:
	default:
	}
}

func (s *Server) encodeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case img := <-s.frames:
			if data := images.EncodeJPEG(img, s.quality); len(data) > 0 {
				s.camera.Broadcast(data)
			}
		}
	}
}

type statusResponse struct {
	SessionID string `json:"session_id"`
	State     string `json:"state"`
	Running   bool   `json:"running"`
	Backend   string `json:"backend"`
	Device    string `json:"device"`
	Facing    string `json:"facing"`
	Preset    string `json:"preset"`
	Viewers   int    `json:"viewers"`
	Error     string `json:"error,omitempty"`
}

type statsResponse struct {
	Transitions    uint64  `json:"transitions"`
	Delivered      uint64  `json:"delivered"`
	ReadErrors     uint64  `json:"read_errors"`
	Rendered       uint64  `json:"rendered"`
	DroppedMissing uint64  `json:"dropped_missing"`
	DroppedDecode  uint64  `json:"dropped_decode"`
	DroppedBusy    uint64  `json:"dropped_busy"`
	DroppedClosed  uint64  `json:"dropped_closed"`
	AvgRenderMs    float64 `json:"avg_render_ms"`
	LatestAgeMs    int64   `json:"latest_age_ms"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	st := s.svc.Stats()
	return c.JSON(statusResponse{
		SessionID: st.Session.ID,
		State:     st.Session.State.String(),
		Running:   s.svc.Running(),
		Backend:   st.Session.Backend,
		Device:    st.Session.Device,
		Facing:    st.Session.Facing.String(),
		Preset:    st.Session.Preset.String(),
		Viewers:   s.camera.ClientCount(),
		Error:     st.SetupError,
	})
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	st := s.svc.Stats()
	return c.JSON(statsResponse{
		Transitions:    st.Session.Transitions,
		Delivered:      st.Session.Delivered,
		ReadErrors:     st.Session.ReadErrors,
		Rendered:       st.Dispatch.Rendered,
		DroppedMissing: st.Dispatch.DroppedMissing,
		DroppedDecode:  st.Dispatch.DroppedDecode,
		DroppedBusy:    st.Dispatch.DroppedBusy,
		DroppedClosed:  st.Dispatch.DroppedClosed,
		AvgRenderMs:    float64(st.Dispatch.AvgRender) / float64(time.Millisecond),
		LatestAgeMs:    st.Dispatch.LatestAge.Milliseconds(),
	})
}

func (s *Server) handleRestart(c *fiber.Ctx) error {
	s.svc.Restart()
	return c.SendStatus(fiber.StatusAccepted)
}

func (s *Server) handleSnapshot(c *fiber.Ctx) error {
	snap := s.svc.LatestFrame()
	if snap.Image == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no frame rendered yet")
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(images.EncodeJPEG(snap.Image, s.quality))
}

func (s *Server) handleCameraWS(conn *websocket.Conn) {
	NewClient(s.camera, conn).Run()
}
