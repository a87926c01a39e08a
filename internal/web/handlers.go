package web

import (
	"net/http"
	"strconv"

	"github.com/JonMunkholm/MatrixWizard/internal/core"
)

// selectionRequest is the body of POST /selection.
type selectionRequest struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// cellRequest is the body of PUT /cells/{row}/{col}.
type cellRequest struct {
	Value string `json:"value"`
}

// quickInputRequest is the body of POST /quick-input.
type quickInputRequest struct {
	Literal string `json:"literal"`
}

// transformRequest is the body of POST /transform. Fields mirror the
// transformation form: target and param are row or column references like
// "r2" or "c1", operator is one of ↔ + − × (or their ASCII forms).
type transformRequest struct {
	Target      string `json:"target"`
	Param       string `json:"param"`
	Coefficient string `json:"coefficient"`
	Operator    string `json:"operator"`
}

// normalizeRequest is the body of POST /api/normalize.
type normalizeRequest struct {
	Value string `json:"value"`
}

type healthResponse struct {
	Status   string                    `json:"status"`
	Sessions core.SessionLimiterStatus `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Sessions: s.service.Status()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.Create(WithRequestMetadata(r.Context(), r))
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.service.List(r.Context())
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r)(s.service.Get(r.Context(), sessionID(r)))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), sessionID(r)); err != nil {
		respondError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r)(s.service.Next(r.Context(), sessionID(r)))
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r)(s.service.Undo(r.Context(), sessionID(r)))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.respondView(w, r)(s.service.Reset(r.Context(), sessionID(r)))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.respondView(w, r)(s.service.Select(r.Context(), sessionID(r), req.Rows, req.Cols))
}

func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	row, err := intParam(r, "row")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}
	col, err := intParam(r, "col")
	if err != nil {
		badRequest(w, r, err.Error())
		return
	}

	var req cellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.respondView(w, r)(s.service.SetCell(r.Context(), sessionID(r), row, col, req.Value))
}

func (s *Server) handleQuickInput(w http.ResponseWriter, r *http.Request) {
	var req quickInputRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.respondView(w, r)(s.service.QuickInput(r.Context(), sessionID(r), req.Literal))
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	var req transformRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	s.respondView(w, r)(s.service.Transform(r.Context(), sessionID(r),
		req.Target, req.Param, req.Coefficient, req.Operator))
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req normalizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, r, err.Error())
		return
	}
	got, err := s.service.Normalize(req.Value)
	if err != nil {
		respondError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

// handleAuditLog lists session activity. Query parameters session_id,
// action and limit narrow the result.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.AuditLogFilter{
		SessionID: q.Get("session_id"),
		Action:    core.AuditAction(q.Get("action")),
		Limit:     100,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(w, r, "limit must be a positive integer")
			return
		}
		filter.Limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": s.service.GetAuditLog(filter)})
}

// respondView returns a function writing the outcome of a session
// operation. A failed operation that still produced a view sends it along
// with the error.
func (s *Server) respondView(w http.ResponseWriter, r *http.Request) func(core.SessionView, error) {
	return func(view core.SessionView, err error) {
		if err != nil {
			var vp *core.SessionView
			if view.ID != "" {
				vp = &view
			}
			respondError(w, r, err, vp)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
