package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/logging"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

const maxBodyBytes = 1 << 20

var (
	// errEmptyBody marks a request that carried no payload at all.
	errEmptyBody = errors.New("empty request body")
	// errFieldType marks well-formed JSON whose field values have the wrong type.
	errFieldType = errors.New("invalid field type")
)

// nullCategory is the scope for a quiz_category whose id is null; it matches no category.
const nullCategory int64 = -1

// HTTPHandler exposes the trivia REST endpoints.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs the trivia HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "question_http").Logger(),
	}
}

// Router is the route-mounting subset of *http.ServeMux.
type Router interface {
	Handle(pattern string, handler http.Handler)
}

// Register mounts the trivia routes. Verbs are dispatched inside each
// handler so unsupported methods get the JSON 405 envelope.
func (h *HTTPHandler) Register(r Router) {
	r.Handle("/categories", http.HandlerFunc(h.HandleCategories))
	r.Handle("/categories/{id}/questions", http.HandlerFunc(h.HandleCategoryQuestions))
	r.Handle("/questions", http.HandlerFunc(h.HandleQuestions))
	r.Handle("/questions/{id}", http.HandlerFunc(h.HandleQuestion))
	r.Handle("/quizzes", http.HandlerFunc(h.HandleQuizzes))
}

// HandleCategories handles GET /categories
func (h *HTTPHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"categories": cats,
	})
}

// HandleCategoryQuestions handles GET /categories/{id}/questions
func (h *HTTPHandler) HandleCategoryQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	categoryID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	res, err := h.svc.QuestionsByCategory(r.Context(), categoryID)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"questions":        res.Questions,
		"total_questions":  res.TotalQuestions,
		"current_category": res.CurrentCategory,
	})
}

// HandleQuestions handles GET /questions?page=N and POST /questions (search or create).
func (h *HTTPHandler) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listQuestions(w, r)
	case http.MethodPost:
		h.postQuestions(w, r)
	default:
		httperrors.RespondMethodNotAllowed(w)
	}
}

func (h *HTTPHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"questions":       res.Questions,
		"total_questions": res.TotalQuestions,
		"categories":      res.Categories,
	})
}

func (h *HTTPHandler) postQuestions(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeQuestionsPayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, errEmptyBody) || errors.Is(err, errFieldType) {
			httperrors.RespondUnprocessable(w)
			return
		}
		httperrors.RespondBadRequest(w)
		return
	}

	if payload.Search != nil {
		res, err := h.svc.Search(r.Context(), *payload.Search, pageParam(r))
		if err != nil {
			h.respondErr(w, r, err)
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"success":         true,
			"questions":       res.Questions,
			"total_questions": res.TotalQuestions,
		})
		return
	}

	res, err := h.svc.Create(r.Context(), *payload.Create, pageParam(r))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"created":          res.Created,
		"question_created": res.QuestionCreated,
		"questions":        res.Questions,
		"total_questions":  res.TotalQuestions,
	})
}

// HandleQuestion handles DELETE /questions/{id}?page=N
func (h *HTTPHandler) HandleQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}

	res, err := h.svc.Delete(r.Context(), id, pageParam(r))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"deleted":         res.Deleted,
		"questions":       res.Questions,
		"total_questions": res.TotalQuestions,
	})
}

// HandleQuizzes handles POST /quizzes
func (h *HTTPHandler) HandleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httperrors.RespondMethodNotAllowed(w)
		return
	}

	req, err := decodeQuizRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		switch {
		case errors.Is(err, errEmptyBody):
			httperrors.RespondUnprocessable(w)
		case errors.Is(err, errQuizShape):
			httperrors.RespondNotFound(w)
		default:
			httperrors.RespondBadRequest(w)
		}
		return
	}

	q, err := h.svc.NextQuestion(r.Context(), req)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": q,
	})
}

func (h *HTTPHandler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	switch KindOf(err) {
	case KindBadRequest:
		logger.Debug().Err(err).Msg("bad request")
		httperrors.RespondBadRequest(w)
	case KindNotFound:
		logger.Debug().Err(err).Msg("not found")
		httperrors.RespondNotFound(w)
	case KindUnprocessable:
		logger.Warn().Err(err).Msg("unprocessable")
		httperrors.RespondUnprocessable(w)
	case KindMethodNotAllowed:
		httperrors.RespondMethodNotAllowed(w)
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		httperrors.RespondInternalError(w)
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn().Err(err).Msg("encode response failed")
	}
}

// pageParam reads ?page=, defaulting to 1 when absent or not an integer.
func pageParam(r *http.Request) int {
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			return page
		}
	}
	return 1
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int64

var errNotInteger = errors.New("not an integer")

func (f *flexInt) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		raw = []byte(s)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %s", errNotInteger, data)
	}
	*f = flexInt(n)
	return nil
}

// questionsPayload is the decoded POST /questions body: exactly one of Search or Create is set.
type questionsPayload struct {
	Search *SearchRequest
	Create *CreateRequest
}

func decodeQuestionsPayload(body io.Reader) (questionsPayload, error) {
	var raw struct {
		SearchTerm *string  `json:"searchTerm"`
		Question   *string  `json:"question"`
		Answer     *string  `json:"answer"`
		Category   *flexInt `json:"category"`
		Difficulty *flexInt `json:"difficulty"`
	}
	if err := decodeBody(body, &raw); err != nil {
		return questionsPayload{}, err
	}

	if raw.SearchTerm != nil && *raw.SearchTerm != "" {
		return questionsPayload{Search: &SearchRequest{Term: *raw.SearchTerm}}, nil
	}

	create := CreateRequest{Question: raw.Question, Answer: raw.Answer}
	if raw.Category != nil {
		c := int64(*raw.Category)
		create.Category = &c
	}
	if raw.Difficulty != nil {
		d := int(*raw.Difficulty)
		create.Difficulty = &d
	}
	return questionsPayload{Create: &create}, nil
}

// errQuizShape marks a quiz body without the quiz_category.id or previous_questions keys.
var errQuizShape = errors.New("unrecognized quiz payload")

// decodeQuizRequest requires the keys to be present; null values are accepted.
// A null previous_questions means nothing was seen, a null id matches no category.
func decodeQuizRequest(body io.Reader) (QuizRequest, error) {
	var raw map[string]json.RawMessage
	if err := decodeBody(body, &raw); err != nil {
		return QuizRequest{}, err
	}
	prevRaw, hasPrev := raw["previous_questions"]
	catRaw, hasCat := raw["quiz_category"]
	if !hasPrev || !hasCat {
		return QuizRequest{}, errQuizShape
	}

	var category map[string]json.RawMessage
	if err := json.Unmarshal(catRaw, &category); err != nil {
		return QuizRequest{}, fmt.Errorf("decode quiz_category: %w", err)
	}
	idRaw, hasID := category["id"]
	if !hasID {
		return QuizRequest{}, errQuizShape
	}

	var id *flexInt
	if err := json.Unmarshal(idRaw, &id); err != nil {
		return QuizRequest{}, fmt.Errorf("decode quiz_category.id: %w", err)
	}
	var seen []flexInt
	if err := json.Unmarshal(prevRaw, &seen); err != nil {
		return QuizRequest{}, fmt.Errorf("decode previous_questions: %w", err)
	}

	req := QuizRequest{CategoryID: nullCategory, PreviousIDs: make([]int64, 0, len(seen))}
	if id != nil {
		req.CategoryID = int64(*id)
	}
	for _, prev := range seen {
		req.PreviousIDs = append(req.PreviousIDs, int64(prev))
	}
	return req, nil
}

func decodeBody(body io.Reader, dst interface{}) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) || errors.Is(err, errNotInteger) {
			return fmt.Errorf("%w: %v", errFieldType, err)
		}
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
