package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/uyouii/fuelprice-timeseries/common"
	"github.com/uyouii/fuelprice-timeseries/model"
	"github.com/uyouii/fuelprice-timeseries/service"
	"github.com/uyouii/fuelprice-timeseries/utils"
	"github.com/uyouii/fuelprice-timeseries/window"
	"go.uber.org/zap"
)

type pricePointResp struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Unit  string  `json:"unit"`
}

type movingAveragePointResp struct {
	pricePointResp
	MA float64 `json:"ma"`
}

type anomalyPointResp struct {
	pricePointResp
	Z         float64 `json:"z"`
	IsAnomaly bool    `json:"isAnomaly"`
}

type metaResp struct {
	Cities   []string `json:"cities"`
	Products []string `json:"products"`
}

type errorResp struct {
	Detail string `json:"detail"`
}

func toPricePointResp(p model.PricePoint) pricePointResp {
	return pricePointResp{
		Date:  utils.FormatDate(p.Date),
		Price: p.Price,
		Unit:  p.Unit,
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metaResp{
		Cities:   s.svc.Cities(),
		Products: s.svc.Products(),
	})
}

func (s *Server) handleRaw(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	series, err := s.svc.Raw(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]pricePointResp, 0, len(series))
	for _, p := range series {
		resp = append(resp, toPricePointResp(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMovingAverage(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	points, err := s.svc.MovingAverage(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]movingAveragePointResp, 0, len(points))
	for _, p := range points {
		resp = append(resp, movingAveragePointResp{
			pricePointResp: toPricePointResp(p.PricePoint),
			MA:             p.MA,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnomaly(w http.ResponseWriter, r *http.Request) {
	q, ok := s.parseQuery(w, r)
	if !ok {
		return
	}

	points, err := s.svc.Anomalies(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]anomalyPointResp, 0, len(points))
	for _, p := range points {
		resp = append(resp, anomalyPointResp{
			pricePointResp: toPricePointResp(p.PricePoint),
			Z:              p.Z,
			IsAnomaly:      p.IsAnomaly,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseQuery reads the shared query parameters. On failure it has already
// written a 422 and returns false.
func (s *Server) parseQuery(w http.ResponseWriter, r *http.Request) (service.Query, bool) {
	values := r.URL.Query()

	city, err := pickKnown(values, "city", s.svc.Cities())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return service.Query{}, false
	}
	product, err := pickKnown(values, "product", s.svc.Products())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return service.Query{}, false
	}

	q := service.Query{
		City:    city,
		Product: product,
		From:    values.Get("from"),
		To:      values.Get("to"),
		Window:  s.defaultWindow(),
		Z:       s.opts.DefaultZ,
	}

	if values.Has("window") {
		q.Window = values.Get("window")
	}
	if values.Has("z") {
		z, err := strconv.ParseFloat(values.Get("z"), 64)
		if err != nil || math.IsNaN(z) {
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("z must be a number, got %q", values.Get("z")))
			return service.Query{}, false
		}
		q.Z = z
	}

	return q, true
}

func (s *Server) defaultWindow() string {
	if s.opts.DefaultWindow == "" {
		return window.DefaultSpec
	}
	return s.opts.DefaultWindow
}

// pickKnown returns the known spelling of the named parameter, matched without case.
func pickKnown(values url.Values, name string, known []string) (string, error) {
	v := strings.TrimSpace(values.Get(name))
	if v == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	for _, k := range known {
		if strings.EqualFold(k, v) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown %s %q, expected one of: %s", name, v, strings.Join(known, ", "))
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorInvalidDate) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.GetLogger(r.Context()).Error("query failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResp{Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response failed", zap.Error(err))
	}
}
