package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/golang/glog"
)

// ProgressUpdate reports how many pixels are finished
type ProgressUpdate struct {
	PixelsDone  int     `json:"pixelsDone"`
	TotalPixels int     `json:"totalPixels"`
	Percent     float64 `json:"percent"`
}

// CompleteUpdate carries the finished image
type CompleteUpdate struct {
	Scene     string `json:"scene"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
	ElapsedMs int64  `json:"elapsedMs"`
}

type renderResult struct {
	img   *renderer.Image
	stats renderer.RenderStats
	err   error
}

// handleRenderStream renders in the background and streams console, progress
// and completion events via SSE
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	consoleChan := make(chan ConsoleMessage, 50)
	progressChan := make(chan ProgressUpdate, 1)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())

	rt := renderer.NewRaytracer(req.Scene, req.Width, req.Height, req.Config, NewWebLogger(renderID, consoleChan))
	rt.SetProgressFunc(func(done, total int) {
		update := ProgressUpdate{PixelsDone: done, TotalPixels: total, Percent: 100 * float64(done) / float64(total)}
		// Drop intermediate updates the client has not caught up with
		select {
		case progressChan <- update:
		default:
		}
	})

	startTime := time.Now()
	resultChan := make(chan renderResult, 1)
	go func() {
		img, stats, err := rt.Render(ctx)
		resultChan <- renderResult{img: img, stats: stats, err: err}
	}()

	for {
		select {
		case msg := <-consoleChan:
			s.sendSSEJSON(w, flusher, "console", msg)

		case update := <-progressChan:
			s.sendSSEJSON(w, flusher, "progress", update)

		case result := <-resultChan:
			// Flush whatever the renderer logged before it returned
			for len(consoleChan) > 0 {
				s.sendSSEJSON(w, flusher, "console", <-consoleChan)
			}
			if result.err != nil {
				glog.Errorf("[%s] render failed: %v", renderID, result.err)
				s.sendSSEEvent(w, flusher, "error", fmt.Sprintf("Rendering failed: %v", result.err))
				return
			}

			imageData, err := s.imageToBase64PNG(result.img)
			if err != nil {
				s.sendSSEEvent(w, flusher, "error", err.Error())
				return
			}
			s.sendSSEJSON(w, flusher, "complete", CompleteUpdate{
				Scene:     req.Scene.Name,
				Width:     req.Width,
				Height:    req.Height,
				ImageData: imageData,
				Stats:     newStats(result.stats),
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
			return

		case <-ctx.Done():
			glog.V(1).Infof("[%s] client disconnected", renderID)
			return
		}
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func (s *Server) sendSSEJSON(w http.ResponseWriter, flusher http.Flusher, event string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		glog.Errorf("Error marshaling %s event: %v", event, err)
		return
	}
	s.sendSSEEvent(w, flusher, event, string(data))
}

// sendSSEEvent writes one SSE event and flushes it to the client
func (s *Server) sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event, data string) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := output.WritePNG(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
