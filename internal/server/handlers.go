package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/matzehuels/hyperstairs/pkg/buildinfo"
	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Version: info.Version, Commit: info.Commit})
}

type rectangleRequest struct {
	P1         geom.Point2 `json:"p1"`
	P2         geom.Point2 `json:"p2"`
	Width      float64     `json:"width"`
	Elevation  float64     `json:"elevation"`
	AxisPolicy string      `json:"axis_policy,omitempty"`
	Layer      string      `json:"layer,omitempty"`
}

type rectangleResponse struct {
	ID          string        `json:"id"`
	Corners     []geom.Point2 `json:"corners"`
	Center      geom.Point2   `json:"center"`
	Area        float64       `json:"area"`
	AxisAligned bool          `json:"axis_aligned"`
	Hash        string        `json:"hash"`
}

func (s *Server) handleRectangles(w http.ResponseWriter, r *http.Request) {
	var req rectangleRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc := drawing.New(pipeline.ShapeRectangle, drawing.WithLogger(s.logger))
	ids, err := s.runner.Draw(r.Context(), doc, pipeline.Options{
		Shape:      pipeline.ShapeRectangle,
		P1:         req.P1,
		P2:         req.P2,
		Width:      req.Width,
		Elevation:  req.Elevation,
		AxisPolicy: req.AxisPolicy,
		Layer:      req.Layer,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// Draw has already validated the same inputs.
	rect, err := geom.BuildRectangle(req.P1, req.P2, req.Width)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rectangleResponse{
		ID:          ids[0].String(),
		Corners:     rect.Corners(),
		Center:      rect.Center(),
		Area:        rect.Area(),
		AxisAligned: geom.AxisAligned(req.P1, req.P2),
		Hash:        doc.Hash(),
	})
}

type stairsResponse struct {
	IDs       []string      `json:"ids"`
	Lines     []geom.Line3  `json:"lines"`
	Outline   []geom.Point3 `json:"outline"`
	RunLength float64       `json:"run_length"`
	Slope     float64       `json:"slope"`
	Steps     *int          `json:"steps,omitempty"`
}

func (s *Server) handleStairs(w http.ResponseWriter, r *http.Request) {
	var req geom.Flight
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	doc := drawing.New(pipeline.ShapeStairs, drawing.WithLogger(s.logger))
	ids, err := s.runner.Draw(r.Context(), doc, pipeline.Options{Shape: pipeline.ShapeStairs, Flight: req})
	if err != nil {
		writeError(w, err)
		return
	}
	stairs, err := geom.BuildStairs(req)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := stairsResponse{
		Lines:     stairs.Lines[:],
		Outline:   stairs.Outline(),
		RunLength: stairs.RunLength(),
		Slope:     stairs.Slope(),
	}
	for _, id := range ids {
		resp.IDs = append(resp.IDs, id.String())
	}

	if raw := r.URL.Query().Get("riser"); raw != "" {
		riser, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, badQuery("riser", raw))
			return
		}
		n, err := req.Steps(riser)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Steps = &n
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := s.decode(w, r, &opts); err != nil {
		writeError(w, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	cacheStatus := "MISS"
	if result.CacheInfo.RenderHit() {
		cacheStatus = "HIT"
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Document-Hash", result.Snapshot.Hash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// decode reads a JSON body into v, rejecting unknown fields and bodies
// larger than the configured limit.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badBody(err)
	}
	return nil
}
