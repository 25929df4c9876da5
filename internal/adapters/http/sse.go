package http

import (
	"fmt"
	"net/http"
	"strings"
)

// sseWriter emits Server-Sent Events frames, flushing after each one so
// fragments reach the client as they are produced.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, bool) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, false
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	return &sseWriter{w: w, flusher: flusher}, true
}

func (s *sseWriter) sendData(payload string) {
	for _, line := range strings.Split(payload, "\n") {
		fmt.Fprintf(s.w, "data: %s\n", line)
	}
	fmt.Fprint(s.w, "\n")
	s.flusher.Flush()
}

func (s *sseWriter) sendEvent(event, payload string) {
	fmt.Fprintf(s.w, "event: %s\n", event)
	s.sendData(payload)
}

func (s *sseWriter) sendDone() {
	s.sendData("[DONE]")
}
