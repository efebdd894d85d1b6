package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/alexiusacademia/gobatten/internal/batten"
	"github.com/alexiusacademia/gobatten/internal/calibrate"
	"github.com/alexiusacademia/gobatten/internal/composite"
	"github.com/alexiusacademia/gobatten/internal/fem"
	"github.com/alexiusacademia/gobatten/internal/optim"
	"github.com/alexiusacademia/gobatten/internal/profile"
	"github.com/alexiusacademia/gobatten/internal/report"
	"github.com/gorilla/mux"
)

const maxBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request payload: "+err.Error())
		return false
	}
	return true
}

type forwardRequest struct {
	Stiffness []float64 `json:"stiffness"`
	LoadN     float64   `json:"load_n"`
	LengthM   float64   `json:"length_m"`
}

type forwardResponse struct {
	Deflections []float64 `json:"deflections"`
	Positions   []float64 `json:"positions"`
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	var req forwardRequest
	if !decode(w, r, &req) {
		return
	}
	sol, err := fem.Solve(fem.Model{Stiffness: req.Stiffness, Length: req.LengthM, Load: req.LoadN})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, forwardResponse{
		Deflections: sol.Deflections(),
		Positions:   sol.Mesh.QueryPoints(),
	})
}

type calibrateRequest struct {
	calibrate.Problem
	Method string `json:"method,omitempty"`
}

// run validates and solves the request; a non-nil error is the client's.
func (req calibrateRequest) run() (*calibrate.Result, error) {
	m, err := optim.ByName(req.Method)
	if err != nil {
		return nil, err
	}
	return calibrate.Calibrate(req.Problem, calibrate.WithMinimizer(m))
}

func (s *Server) handleCalibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := req.run()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type compositeRequest struct {
	Segments []composite.Segment `json:"segments"`
}

func (s *Server) handleComposite(w http.ResponseWriter, r *http.Request) {
	var req compositeRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := composite.Equivalent(req.Segments)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type testResponse struct {
	Analysis *batten.Analysis `json:"analysis"`
	Curve    []batten.Point   `json:"curve"`
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	var m batten.Measurements
	if !decode(w, r, &m) {
		return
	}
	a, err := batten.Analyze(m)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, testResponse{Analysis: a, Curve: batten.Curve(m, 0)})
}

type reportRequest struct {
	calibrateRequest
	Title   string `json:"title,omitempty"`
	Project string `json:"project,omitempty"`
	Author  string `json:"author,omitempty"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := req.run()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var buf bytes.Buffer
	err = report.WritePDF(&buf, report.Document{
		Title:   req.Title,
		Project: req.Project,
		Author:  req.Author,
		Problem: req.Problem,
		Result:  res,
	})
	if err != nil {
		log.Printf("report: %v", err)
		writeError(w, http.StatusInternalServerError, "report generation error")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="calibration.pdf"`)
	w.Write(buf.Bytes())
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	ps, err := s.store.List(r.Context())
	if err != nil {
		log.Printf("list profiles: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	if ps == nil {
		ps = []profile.Profile{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.Get(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	case err != nil:
		log.Printf("get profile: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if !decode(w, r, &p) {
		return
	}
	if err := profile.Prepare(&p, time.Now()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), &p); err != nil {
		log.Printf("save profile: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	err := s.store.Delete(r.Context(), mux.Vars(r)["id"])
	switch {
	case errors.Is(err, profile.ErrNotFound):
		writeError(w, http.StatusNotFound, "profile not found")
	case err != nil:
		log.Printf("delete profile: %v", err)
		writeError(w, http.StatusInternalServerError, "storage error")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
