package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
	"github.com/golang/glog"
)

const (
	maxImageSize = 2000
	maxSamples   = 10000
	maxDepth     = 1000
)

// Server handles web requests for the sphere raytracer
type Server struct {
	port     int
	sceneDir string
}

// NewServer creates a new web server. Scene files are discovered in sceneDir.
func NewServer(port int, sceneDir string) *Server {
	return &Server{port: port, sceneDir: sceneDir}
}

// RenderRequest holds the parsed query parameters of a render request
type RenderRequest struct {
	Scene  *scene.Scene
	Width  int
	Height int
	Config renderer.SamplingConfig
	Format output.Format
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	RaysTraced     int64   `json:"raysTraced"`
	DurationMs     int64   `json:"durationMs"`
}

func newStats(s renderer.RenderStats) Stats {
	return Stats{
		TotalPixels:    s.TotalPixels,
		TotalSamples:   s.TotalSamples,
		AverageSamples: s.AverageSamples,
		RaysTraced:     s.RaysTraced,
		DurationMs:     s.Duration.Milliseconds(),
	}
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	glog.Infof("Starting web server on port %d", s.port)
	return http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and the scene files under the scene directory
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.ListAllScenes(s.sceneDir)
	if err != nil {
		glog.Errorf("Listing scenes: %v", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, scenes)
}

// handleRender renders synchronously and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rt := renderer.NewRaytracer(req.Scene, req.Width, req.Height, req.Config, nil)
	img, stats, err := rt.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			glog.V(1).Infof("Render of %q abandoned by client", req.Scene.Name)
			return
		}
		glog.Errorf("Render of %q failed: %v", req.Scene.Name, err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	data, err := output.Encode(img, req.Format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	glog.Infof("Served %q at %dx%d in %v", req.Scene.Name, req.Width, req.Height, stats.Duration)
	w.Header().Set("Content-Type", req.Format.ContentType())
	w.Header().Set("X-Rays-Traced", strconv.FormatInt(stats.RaysTraced, 10))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// parseRenderRequest resolves the scene and layers query overrides onto its settings
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()

	sceneObj, err := s.createScene(query.Get("scene"))
	if err != nil {
		return nil, err
	}
	req := &RenderRequest{Scene: sceneObj}

	if req.Width, err = parseIntParam(query, "width", sceneObj.Width, 1, maxImageSize); err != nil {
		return nil, err
	}
	// Height follows the scene's aspect ratio unless given
	defaultHeight := sceneObj.Height
	if req.Width != sceneObj.Width && sceneObj.Width > 0 {
		defaultHeight = max(1, req.Width*sceneObj.Height/sceneObj.Width)
	}
	if req.Height, err = parseIntParam(query, "height", defaultHeight, 1, maxImageSize); err != nil {
		return nil, err
	}

	config := renderer.MergeSamplingConfig(renderer.DefaultSamplingConfig(), sceneObj.SamplingConfig)
	if config.SamplesPerPixel, err = parseIntParam(query, "samples", config.SamplesPerPixel, 1, maxSamples); err != nil {
		return nil, err
	}
	if config.MaxDepth, err = parseIntParam(query, "maxDepth", config.MaxDepth, 1, maxDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", int(config.Seed), 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	config.Seed = int64(seed)
	req.Config = config

	req.Format = output.FormatPNG
	if f := query.Get("format"); f != "" {
		if req.Format, err = output.ParseFormat(f); err != nil {
			return nil, err
		}
	}

	if req.Width*req.Height > 800*600 && config.SamplesPerPixel > 100 {
		glog.Warningf("Render warning: large image with high samples may render slowly")
	}

	return req, nil
}

// createScene resolves a scene ID from /api/scenes: a built-in name or yaml:<file>
func (s *Server) createScene(id string) (*scene.Scene, error) {
	if id == "" {
		id = "default"
	}

	var sceneObj *scene.Scene
	var err error
	if info, ok := s.findSceneFile(id); ok {
		sceneObj, err = loaders.LoadYAMLScene(info.FilePath)
	} else {
		sceneObj, err = scene.NewSceneByName(id)
	}
	if err != nil {
		return nil, err
	}

	if err := sceneObj.Validate(); err != nil {
		return nil, err
	}
	return sceneObj, nil
}

// findSceneFile looks an ID up among the discovered scene files, so requests
// can only reach files inside the scene directory
func (s *Server) findSceneFile(id string) (scene.SceneInfo, bool) {
	files, err := scene.ListSceneFiles(s.sceneDir)
	if err != nil {
		glog.Warningf("Scanning %s: %v", s.sceneDir, err)
		return scene.SceneInfo{}, false
	}
	for _, info := range files {
		if info.ID == id {
			return info, true
		}
	}
	return scene.SceneInfo{}, false
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("Writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
