// Package relay is a small LAN share relay. The terminal app uploads an
// artifact, and a phone on the same network opens the link (or scans its QR
// code) to save or forward it.
package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/qr"
)

// Config configures the relay server.
type Config struct {
	Addr       string        `yaml:"addr"`
	PublicURL  string        `yaml:"public_url"`
	TTL        time.Duration `yaml:"ttl"`
	MaxBytes   int           `yaml:"max_bytes"`
	QREndpoint string        `yaml:"-"`
}

// DefaultConfig returns the relay defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8787",
		PublicURL:  "http://localhost:8787",
		TTL:        30 * time.Minute,
		MaxBytes:   64 << 20,
		QREndpoint: qr.DefaultEndpoint,
	}
}

var acceptedMIME = []string{delivery.MIMEPNG, delivery.MIMEMP4}

type entry struct {
	Data     []byte
	MIME     string
	Filename string
	Title    string
	Text     string
}

// ShareResponse is returned by the upload endpoint.
type ShareResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	QRURL     string    `json:"qr_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Server holds uploaded payloads in memory until they expire.
type Server struct {
	cfg    Config
	app    *fiber.App
	store  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewServer builds the relay and its routes.
func NewServer(cfg Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.QREndpoint == "" {
		cfg.QREndpoint = def.QREndpoint
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	s := &Server{
		cfg:    cfg,
		store:  cache.New(cfg.TTL, cfg.TTL/2),
		logger: logger,
		now:    time.Now,
	}
	s.app = fiber.New(fiber.Config{
		AppName:               "swipematch-relay",
		BodyLimit:             cfg.MaxBytes + 1<<20,
		DisableStartupMessage: true,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "shares": s.store.ItemCount()})
	})
	s.app.Post("/api/shares", s.handleUpload)
	s.app.Get("/s/:id", s.handleFetch)
	s.app.Get("/s/:id/qr", s.handleQR)
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("relay listening", zap.String("addr", s.cfg.Addr), zap.String("public_url", s.cfg.PublicURL))
		return s.app.Listen(s.cfg.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file")
	}
	if fh.Size > int64(s.cfg.MaxBytes) {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	mime := c.FormValue("mime")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	if !slices.Contains(acceptedMIME, mime) {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "unsupported type "+mime)
	}

	id := uuid.NewString()
	s.store.Set(id, entry{
		Data:     data,
		MIME:     mime,
		Filename: fh.Filename,
		Title:    c.FormValue("title"),
		Text:     c.FormValue("text"),
	}, cache.DefaultExpiration)

	s.logger.Info("share stored", zap.String("id", id), zap.String("mime", mime), zap.Int("bytes", len(data)))

	link := s.cfg.PublicURL + "/s/" + id
	return c.Status(fiber.StatusCreated).JSON(ShareResponse{
		ID:        id,
		URL:       link,
		QRURL:     link + "/qr",
		ExpiresAt: s.now().Add(s.cfg.TTL),
	})
}

func (s *Server) lookup(c *fiber.Ctx) (entry, error) {
	v, ok := s.store.Get(c.Params("id"))
	if !ok {
		return entry{}, fiber.ErrNotFound
	}
	return v.(entry), nil
}

func (s *Server) handleFetch(c *fiber.Ctx) error {
	e, err := s.lookup(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, e.MIME)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", e.Filename))
	if e.Title != "" {
		c.Set("X-Share-Title", e.Title)
	}
	return c.Send(e.Data)
}

func (s *Server) handleQR(c *fiber.Ctx) error {
	if _, err := s.lookup(c); err != nil {
		return err
	}
	link := s.cfg.PublicURL + "/s/" + c.Params("id")
	return c.Redirect(qr.URL(s.cfg.QREndpoint, 1000, 1000, link), fiber.StatusFound)
}
