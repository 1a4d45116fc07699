package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/quiz"
)

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetQuestions generates a quiz. ?count= is optional.
// A failed generation still answers with a quiz.Result body.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	count := 0
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > h.maxCount {
			writeErr(w, http.StatusBadRequest, "count must be an integer between 1 and "+strconv.Itoa(h.maxCount))
			return
		}
		count = n
	}

	res := h.quiz.Result(r.Context(), count)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}

// ScoreRequest is the body of POST /api/score.
type ScoreRequest struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
	Hints   int `json:"hints"`
}

// ScoreResponse is the reply of POST /api/score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// Score computes a quiz score.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ScoreResponse{Score: quiz.CalculateScore(req.Correct, req.Total, req.Hints)})
}

// ResolveResponse is the reply of GET /api/images/resolve.
type ResolveResponse struct {
	URL        string   `json:"url"`
	Candidates []string `json:"candidates"`
}

// ResolveImage resolves one product image.
func (h *Handler) ResolveImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := imageurl.Product{
		OriginalCode: q.Get("code"),
		Brand:        q.Get("brand"),
		ColorName:    q.Get("color"),
		WearPeriod:   q.Get("period"),
	}
	if err := requireFields(map[string]string{
		"code": p.OriginalCode, "brand": p.Brand, "color": p.ColorName, "period": p.WearPeriod,
	}); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := imageurl.ParseImageType(q.Get("type"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ResolveResponse{
		URL:        h.images.Resolve(r.Context(), p, t),
		Candidates: h.images.Candidates(p, t),
	})
}

func requireFields(fields map[string]string) error {
	var missing []string
	for _, name := range []string{"code", "brand", "color", "period"} {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.New("missing query parameters: " + strings.Join(missing, ", "))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
