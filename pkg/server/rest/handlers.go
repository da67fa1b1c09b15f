package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"lintang/walkability/pkg/datastructure"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/engine/scoring"
	"lintang/walkability/pkg/facility"
	"lintang/walkability/pkg/geo"
	"lintang/walkability/pkg/server"
	"lintang/walkability/pkg/server/rest/service"
	"lintang/walkability/pkg/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"golang.org/x/exp/slices"
)

type AccessibilityService interface {
	Analyze(ctx context.Context, p service.AnalyzeParams) (*engine.Analysis, error)
	Isochrone(ctx context.Context, p service.AnalyzeParams) (*service.IsochroneResult, error)
	Score(ctx context.Context, stats datastructure.DistanceStats, preset string, custom facility.WeightSet) (scoring.Result, error)
	Categories() facility.CategoryConfig
	Presets() map[string]facility.WeightSet
}

type AccessibilityHandler struct {
	svc          AccessibilityService
	promeMetrics *metrics
}

func AccessibilityRouter(r *chi.Mux, svc AccessibilityService, m *metrics) {
	handler := &AccessibilityHandler{svc, m}

	r.Group(func(r chi.Router) {
		r.Route("/api/accessibility", func(r chi.Router) {
			r.Post("/analyze", handler.analyze)
			r.Post("/isochrone", handler.isochrone)
			r.Post("/score", handler.score)
			r.Get("/categories", handler.categories)
			r.Get("/presets", handler.presets)
			r.Get("/hello", handler.Hello)
		})
	})
}

// validateRequest returns the raw validator error plus its english translations.
func validateRequest(data interface{}) ([]error, error) {
	validate := validator.New()
	if err := validate.Struct(data); err != nil {
		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		_ = enTranslations.RegisterDefaultTranslations(validate, trans)
		return translateError(err, trans), err
	}
	return nil, nil
}

// AnalyzeRequest model info
//
//	@Description	request body for scoring the walking accessibility of one point
type AnalyzeRequest struct {
	Lat          float64            `json:"lat" validate:"gte=-90,lte=90"`
	Lon          float64            `json:"lon" validate:"gte=-180,lte=180"`
	RadiusMeters float64            `json:"radius_meters" validate:"omitempty,gt=0,lte=10000"`
	Preset       string             `json:"preset" validate:"omitempty,oneof=uniform young middle senior custom"`
	Weights      map[string]float64 `json:"weights,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
	TripTimes    []float64          `json:"trip_times,omitempty" validate:"omitempty,max=12,dive,gt=0,lte=180"`
	Speed        float64            `json:"speed_m_per_min" validate:"omitempty,gt=0,lte=1000"`
}

func (a *AnalyzeRequest) Bind(r *http.Request) error {
	if a.Lat == 0 && a.Lon == 0 {
		return errors.New("invalid request: missing lat/lon")
	}
	return nil
}

func (a *AnalyzeRequest) params() service.AnalyzeParams {
	return service.AnalyzeParams{
		Lat:                  a.Lat,
		Lon:                  a.Lon,
		RadiusMeters:         a.RadiusMeters,
		Preset:               a.Preset,
		Weights:              facility.WeightSet(a.Weights),
		TripTimes:            a.TripTimes,
		SpeedMetersPerMinute: a.Speed,
	}
}

// IsochroneRing model info
//
//	@Description	one isochrone as an encoded polyline
type IsochroneRing struct {
	Minutes   float64 `json:"minutes"`
	Distance  float64 `json:"distance_meters"`
	NodeCount int     `json:"node_count"`
	Polyline  string  `json:"polyline"`
}

// AnalyzeResponse model info
//
//	@Description	response body for the accessibility analysis of one point
type AnalyzeResponse struct {
	Origin           datastructure.Coordinate            `json:"origin"`
	SourceNode       *datastructure.Node                 `json:"source_node,omitempty"`
	CompositeScore   float64                             `json:"composite_score"`
	Grade            string                              `json:"grade"`
	Stats            map[string]float64                  `json:"stats"`
	NearestLocations map[string]datastructure.Coordinate `json:"nearest_locations"`
	Breakdown        []datastructure.CategoryScore       `json:"breakdown"`
	Isochrones       *geojson.FeatureCollection          `json:"isochrones" swaggertype:"object"`
	Polylines        []IsochroneRing                     `json:"isochrone_polylines"`
}

func NewAnalyzeResponse(a *engine.Analysis) *AnalyzeResponse {
	stats := make(map[string]float64, len(a.Result.Stats))
	for l, d := range a.Result.Stats {
		stats[l] = util.RoundFloat(d, 2)
	}
	breakdown := make([]datastructure.CategoryScore, len(a.Result.Breakdown))
	for i, c := range a.Result.Breakdown {
		c.Distance = util.RoundFloat(c.Distance, 2)
		c.SubScore = util.RoundFloat(c.SubScore, 2)
		breakdown[i] = c
	}
	return &AnalyzeResponse{
		Origin:           a.Origin,
		SourceNode:       a.SourceNode,
		CompositeScore:   util.RoundFloat(a.Result.CompositeScore, 2),
		Grade:            a.Result.Grade,
		Stats:            stats,
		NearestLocations: a.Result.NearestLocations,
		Breakdown:        breakdown,
		Isochrones:       analysisFeatureCollection(a),
		Polylines:        isochroneRings(a.Isochrones),
	}
}

// analysisFeatureCollection is the isochrones followed by the origin and one point per
// nearest facility, in label order.
func analysisFeatureCollection(a *engine.Analysis) *geojson.FeatureCollection {
	fc := IsochroneFeatureCollection(a.Isochrones)

	origin := geojson.NewFeature(orb.Point{a.Origin.Lon, a.Origin.Lat})
	origin.Properties["kind"] = "origin"
	fc.Append(origin)

	labels := make([]string, 0, len(a.Result.NearestLocations))
	for l := range a.Result.NearestLocations {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	for _, l := range labels {
		c := a.Result.NearestLocations[l]
		f := geojson.NewFeature(orb.Point{c.Lon, c.Lat})
		f.Properties["kind"] = "facility"
		f.Properties["label"] = l
		f.Properties["distance_meters"] = util.RoundFloat(a.Result.Stats.Get(l), 2)
		fc.Append(f)
	}
	return fc
}

// IsochroneFeatureCollection renders isochrones largest first so smaller ones draw on top.
// Rings with fewer than 3 vertices become LineStrings.
func IsochroneFeatureCollection(polys []datastructure.IsochronePolygon) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range polys {
		var g orb.Geometry
		if len(p.Ring) < 3 {
			ls := make(orb.LineString, 0, len(p.Ring))
			for _, c := range p.Ring {
				ls = append(ls, orb.Point{c.Lon, c.Lat})
			}
			g = ls
		} else {
			ring := make(orb.Ring, 0, len(p.Ring)+1)
			for _, c := range p.Ring {
				ring = append(ring, orb.Point{c.Lon, c.Lat})
			}
			ring = append(ring, ring[0])
			g = orb.Polygon{ring}
		}
		f := geojson.NewFeature(g)
		f.Properties["minutes"] = p.Minutes
		f.Properties["distance_meters"] = util.RoundFloat(p.DistanceMeters, 2)
		f.Properties["node_count"] = p.NodeCount
		fc.Append(f)
	}
	return fc
}

func isochroneRings(polys []datastructure.IsochronePolygon) []IsochroneRing {
	rings := make([]IsochroneRing, 0, len(polys))
	for _, p := range polys {
		rings = append(rings, IsochroneRing{
			Minutes:   p.Minutes,
			Distance:  util.RoundFloat(p.DistanceMeters, 2),
			NodeCount: p.NodeCount,
			Polyline:  geo.EncodePolyline(p.Ring),
		})
	}
	return rings
}

// analyze
//
//	@Summary		walking accessibility score of one point.
//	@Description	fetch the street network and amenities around a point, compute the walking distance to the nearest facility of every category, the weighted score and the isochrones.
//	@Tags			accessibility
//	@Param			body	body	AnalyzeRequest	true	"request body analyze"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/accessibility/analyze [post]
//	@Success		200	{object}	AnalyzeResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		500	{object}	ErrResponse
//	@Failure		503	{object}	ErrResponse
func (h *AccessibilityHandler) analyze(w http.ResponseWriter, r *http.Request) {
	data := &AnalyzeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if vv, err := validateRequest(*data); err != nil {
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	analysis, err := h.svc.Analyze(r.Context(), data.params())
	h.promeMetrics.observeAnalysis("analyze", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, NewAnalyzeResponse(analysis))
}

// IsochroneResponse model info
//
//	@Description	response body for the isochrones of one point
type IsochroneResponse struct {
	Origin     datastructure.Coordinate   `json:"origin"`
	SourceNode *datastructure.Node        `json:"source_node,omitempty"`
	Speed      float64                    `json:"speed_m_per_min"`
	Isochrones *geojson.FeatureCollection `json:"isochrones" swaggertype:"object"`
	Polylines  []IsochroneRing            `json:"isochrone_polylines"`
}

// isochrone
//
//	@Summary		walking isochrones of one point.
//	@Description	convex hull of the street nodes reachable within each trip time, largest first.
//	@Tags			accessibility
//	@Param			body	body	AnalyzeRequest	true	"request body isochrone, weights and preset are ignored"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/accessibility/isochrone [post]
//	@Success		200	{object}	IsochroneResponse
//	@Failure		400	{object}	ErrResponse
//	@Failure		503	{object}	ErrResponse
func (h *AccessibilityHandler) isochrone(w http.ResponseWriter, r *http.Request) {
	data := &AnalyzeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if vv, err := validateRequest(*data); err != nil {
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	res, err := h.svc.Isochrone(r.Context(), data.params())
	h.promeMetrics.observeAnalysis("isochrone", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &IsochroneResponse{
		Origin:     res.Origin,
		SourceNode: res.SourceNode,
		Speed:      res.Speed,
		Isochrones: IsochroneFeatureCollection(res.Isochrones),
		Polylines:  isochroneRings(res.Isochrones),
	})
}

// ScoreRequest model info
//
//	@Description	request body for scoring precomputed distances
type ScoreRequest struct {
	Stats   map[string]float64 `json:"stats" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
	Preset  string             `json:"preset" validate:"omitempty,oneof=uniform young middle senior custom"`
	Weights map[string]float64 `json:"weights,omitempty" validate:"omitempty,dive,keys,required,endkeys,gte=0"`
}

func (s *ScoreRequest) Bind(r *http.Request) error {
	if len(s.Stats) == 0 {
		return errors.New("invalid request: empty stats")
	}
	return nil
}

// ScoreResponse model info
//
//	@Description	response body for scoring precomputed distances
type ScoreResponse struct {
	CompositeScore float64                       `json:"composite_score"`
	Grade          string                        `json:"grade"`
	Breakdown      []datastructure.CategoryScore `json:"breakdown"`
}

// score
//
//	@Summary		score precomputed walking distances.
//	@Description	weighted mean of the per category sub scores. Distances are meters, 9999 means unreachable.
//	@Tags			accessibility
//	@Param			body	body	ScoreRequest	true	"request body score"
//	@Accept			application/json
//	@Produce		application/json
//	@Router			/accessibility/score [post]
//	@Success		200	{object}	ScoreResponse
//	@Failure		400	{object}	ErrResponse
func (h *AccessibilityHandler) score(w http.ResponseWriter, r *http.Request) {
	data := &ScoreRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if vv, err := validateRequest(*data); err != nil {
		render.Render(w, r, ErrValidation(err, vv))
		return
	}

	res, err := h.svc.Score(r.Context(), datastructure.DistanceStats(data.Stats), data.Preset, facility.WeightSet(data.Weights))
	h.promeMetrics.observeAnalysis("score", err)
	if err != nil {
		render.Render(w, r, ErrChi(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &ScoreResponse{
		CompositeScore: util.RoundFloat(res.Composite, 2),
		Grade:          res.Grade,
		Breakdown:      res.Breakdown,
	})
}

// categories
//
//	@Summary		facility categories and the osm tags that define them.
//	@Tags			accessibility
//	@Produce		application/json
//	@Router			/accessibility/categories [get]
//	@Success		200	{array}	facility.Category
func (h *AccessibilityHandler) categories(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.Categories())
}

// presets
//
//	@Summary		weight presets by name.
//	@Tags			accessibility
//	@Produce		application/json
//	@Router			/accessibility/presets [get]
//	@Success		200	{object}	map[string]map[string]float64
func (h *AccessibilityHandler) presets(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.svc.Presets())
}

func (h *AccessibilityHandler) Hello(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, "Hello, World!")
}

// ErrResponse model info
//
//	@Description	model untuk error response
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText    string   `json:"status"`          // user-level status message
	AppCode       int64    `json:"code,omitempty"`  // application-specific error code
	ErrorText     string   `json:"error,omitempty"` // application-level error message, for debugging
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrValidation(err error, errV []error) render.Renderer {
	vv := []string{}
	for _, v := range errV {
		vv = append(vv, v.Error())
	}
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  vv,
	}
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: 400,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrChi(err error) render.Renderer {
	statusText := ""
	switch getStatusCode(err) {
	case http.StatusNotFound:
		statusText = "Resource not found."
	case http.StatusInternalServerError:
		statusText = "Internal server error."
	case http.StatusServiceUnavailable:
		statusText = "Service unavailable."
	case http.StatusBadRequest:
		statusText = "Bad request."
	default:
		statusText = "Error."
	}

	errorText := err.Error()
	if getStatusCode(err) == http.StatusInternalServerError {
		errorText = "internal server error"
	}

	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: getStatusCode(err),
		StatusText:     statusText,
		ErrorText:      errorText,
	}
}

func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var ierr *server.Error
	if !errors.As(err, &ierr) {
		return http.StatusInternalServerError
	}
	switch ierr.Code() {
	case server.ErrInternalServerError:
		return http.StatusInternalServerError
	case server.ErrNotFound:
		return http.StatusNotFound
	case server.ErrBadParamInput:
		return http.StatusBadRequest
	case server.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func translateError(err error, trans ut.Translator) (errs []error) {
	if err == nil {
		return nil
	}
	var validatorErrs validator.ValidationErrors
	if !errors.As(err, &validatorErrs) {
		return []error{err}
	}
	for _, e := range validatorErrs {
		errs = append(errs, fmt.Errorf("%s", e.Translate(trans)))
	}
	return errs
}
