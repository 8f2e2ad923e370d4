package invoice

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"billcraft-backend/internal/editor"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

const keepAlive = 25 * time.Second

// Stream writes server-sent events: one "<event>" frame with the current
// snapshot right away and another after every list change. It ends when
// the client goes away or the session is closed.
func Stream(c *fiber.Ctx, s *editor.Session, event string, snapshot func() any) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	changes, cancel := s.Changes()
	done := s.Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		if err := writeEvent(w, event, snapshot()); err != nil {
			return
		}
		for {
			select {
			case <-done:
				return
			case <-changes:
				if err := writeEvent(w, event, snapshot()); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
