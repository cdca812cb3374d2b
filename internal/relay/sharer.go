package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abhisek/swipematch/internal/delivery"
)

// Sharer uploads payloads to a running relay. It never reports
// cancellation: once uploaded, the link is the share.
type Sharer struct {
	BaseURL string
	Timeout time.Duration

	mu   sync.Mutex
	last *ShareResponse
}

var _ delivery.Sharer = (*Sharer)(nil)

// NewSharer creates a client for the relay at baseURL.
func NewSharer(baseURL string) *Sharer {
	return &Sharer{BaseURL: strings.TrimRight(baseURL, "/"), Timeout: 30 * time.Second}
}

func (s *Sharer) Name() string { return "relay" }

// CanShare reports whether a relay is configured and accepts p's type.
func (s *Sharer) CanShare(p delivery.Payload) bool {
	return s.BaseURL != "" && slices.Contains(acceptedMIME, p.MIME)
}

// Share uploads p and remembers the resulting link.
func (s *Sharer) Share(ctx context.Context, p delivery.Payload, req delivery.ShareRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	args := fiber.AcquireArgs()
	defer fiber.ReleaseArgs(args)
	args.Set("mime", p.MIME)
	args.Set("title", req.Title)
	args.Set("text", req.Text)

	// Files must be attached before MultipartForm writes the body.
	agent := fiber.Post(s.BaseURL + "/api/shares").
		Timeout(s.timeout(ctx)).
		FileData(&fiber.FormFile{Fieldname: "file", Name: p.Filename, Content: p.Data}).
		MultipartForm(args)

	code, body, errs := agent.Bytes()
	// The agent does not watch ctx; a job cancelled mid-upload is not a share.
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("upload to relay: %w", errors.Join(errs...))
	}
	if code != fiber.StatusCreated {
		return fmt.Errorf("relay rejected upload: status %d: %s", code, strings.TrimSpace(string(body)))
	}

	var resp ShareResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode relay response: %w", err)
	}

	s.mu.Lock()
	s.last = &resp
	s.mu.Unlock()
	return nil
}

// timeout bounds the upload by ctx's deadline when it is sooner.
func (s *Sharer) timeout(ctx context.Context) time.Duration {
	d := s.Timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); d <= 0 || left < d {
			d = max(left, time.Millisecond)
		}
	}
	return d
}

// Last returns the most recent share link.
func (s *Sharer) Last() (ShareResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return ShareResponse{}, false
	}
	return *s.last, true
}
