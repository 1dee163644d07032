package question

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog"
)

// Store is the persistence contract the service relies on. Listings are ordered by ascending id.
type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (Category, error)
	ListQuestions(ctx context.Context) ([]Question, error)
	SearchQuestions(ctx context.Context, term string) ([]Question, error)
	ListQuestionsByCategory(ctx context.Context, categoryID int64) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (Question, error)
	InsertQuestion(ctx context.Context, q NewQuestion) (Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	CountQuestions(ctx context.Context) (int, error)
}

// Publisher receives change notifications after a mutation commits.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// ServiceOptions tunes optional behavior.
type ServiceOptions struct {
	// Intn returns a value in [0, n). Defaults to math/rand/v2.IntN.
	Intn func(n int) int
}

// Service resolves listing, search, filter and quiz queries against a Store.
type Service struct {
	store     Store
	publisher Publisher
	intn      func(n int) int
	logger    zerolog.Logger
}

// NewService builds a Service. publisher may be nil.
func NewService(store Store, publisher Publisher, opts ServiceOptions, logger zerolog.Logger) *Service {
	intn := opts.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return &Service{
		store:     store,
		publisher: publisher,
		intn:      intn,
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

// Categories returns every category keyed by id. An empty table is reported as not found.
func (s *Service) Categories(ctx context.Context) (CategoryMap, error) {
	const op = "question.Categories"

	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, newError(KindInternal, op, err)
	}
	if len(cats) == 0 {
		return nil, newError(KindNotFound, op, ErrNoCategories)
	}
	return toCategoryMap(cats), nil
}

// ListQuestions returns one page of the full listing with the store total and all categories.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	const op = "question.ListQuestions"

	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return QuestionPage{}, newError(KindInternal, op, err)
	}
	current := Paginate(all, page)
	if len(current) == 0 {
		return QuestionPage{}, newError(KindNotFound, op, fmt.Errorf("%w on page %d", ErrNoQuestions, page))
	}

	cats, err := s.store.ListCategories(ctx)
	if err != nil {
		return QuestionPage{}, newError(KindInternal, op, err)
	}

	return QuestionPage{
		Questions:      current,
		TotalQuestions: len(all),
		Categories:     toCategoryMap(cats),
	}, nil
}

// Search returns one page of questions whose text contains the term, case-insensitively.
// TotalQuestions reports the whole store, not the match count.
func (s *Service) Search(ctx context.Context, req SearchRequest, page int) (QuestionPage, error) {
	const op = "question.Search"

	if req.Term == "" {
		return QuestionPage{}, newError(KindBadRequest, op, ErrEmptySearchTerm)
	}

	matches, err := s.store.SearchQuestions(ctx, req.Term)
	if err != nil {
		return QuestionPage{}, newError(KindInternal, op, err)
	}
	if len(matches) == 0 {
		return QuestionPage{}, newError(KindNotFound, op, fmt.Errorf("%w matching %q", ErrNoQuestions, req.Term))
	}

	total, err := s.store.CountQuestions(ctx)
	if err != nil {
		return QuestionPage{}, newError(KindInternal, op, err)
	}

	return QuestionPage{
		Questions:      Paginate(matches, page),
		TotalQuestions: total,
	}, nil
}

// QuestionsByCategory returns every question in the category, unpaginated.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID int64) (CategoryQuestions, error) {
	const op = "question.QuestionsByCategory"

	cat, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return CategoryQuestions{}, newError(KindBadRequest, op, fmt.Errorf("%w: %d", ErrUnknownCategory, categoryID))
		}
		return CategoryQuestions{}, newError(KindInternal, op, err)
	}

	qs, err := s.store.ListQuestionsByCategory(ctx, categoryID)
	if err != nil {
		return CategoryQuestions{}, newError(KindInternal, op, err)
	}
	if len(qs) == 0 {
		return CategoryQuestions{}, newError(KindNotFound, op, fmt.Errorf("%w in category %d", ErrNoQuestions, categoryID))
	}

	return CategoryQuestions{
		Questions:       qs,
		TotalQuestions:  len(qs),
		CurrentCategory: cat.Type,
	}, nil
}

// Delete removes a question and returns the requested page of the refreshed listing.
func (s *Service) Delete(ctx context.Context, id int64, page int) (DeleteResult, error) {
	const op = "question.Delete"

	if _, err := s.store.GetQuestion(ctx, id); err != nil {
		return DeleteResult{}, newError(KindUnprocessable, op, err)
	}
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return DeleteResult{}, newError(KindUnprocessable, op, err)
	}
	mutationsTotal.WithLabelValues("delete").Inc()
	s.publish(ctx, EventDeleted, id)

	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return DeleteResult{}, newError(KindUnprocessable, op, err)
	}

	return DeleteResult{
		Deleted:        id,
		Questions:      Paginate(all, page),
		TotalQuestions: len(all),
	}, nil
}

// Create validates and inserts a question, then returns the requested page of the refreshed listing.
func (s *Service) Create(ctx context.Context, req CreateRequest, page int) (CreateResult, error) {
	const op = "question.Create"

	nq, err := validateCreate(req)
	if err != nil {
		return CreateResult{}, newError(KindUnprocessable, op, err)
	}
	if _, err := s.store.GetCategory(ctx, nq.Category); err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			err = fmt.Errorf("%w: %d", ErrUnknownCategory, nq.Category)
		}
		return CreateResult{}, newError(KindUnprocessable, op, err)
	}

	created, err := s.store.InsertQuestion(ctx, nq)
	if err != nil {
		return CreateResult{}, newError(KindUnprocessable, op, err)
	}
	mutationsTotal.WithLabelValues("create").Inc()
	s.publish(ctx, EventCreated, created.ID)

	all, err := s.store.ListQuestions(ctx)
	if err != nil {
		return CreateResult{}, newError(KindUnprocessable, op, err)
	}

	return CreateResult{
		Created:         created.ID,
		QuestionCreated: created.Question,
		Questions:       Paginate(all, page),
		TotalQuestions:  len(all),
	}, nil
}

func (s *Service) publish(ctx context.Context, typ EventType, questionID int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, NewEvent(typ, questionID)); err != nil {
		s.logger.Warn().Err(err).Str("event", string(typ)).Int64("question_id", questionID).Msg("question event publish failed")
	}
}

func validateCreate(req CreateRequest) (NewQuestion, error) {
	switch {
	case req.Question == nil:
		return NewQuestion{}, fmt.Errorf("%w: question", ErrMissingField)
	case req.Answer == nil:
		return NewQuestion{}, fmt.Errorf("%w: answer", ErrMissingField)
	case req.Category == nil:
		return NewQuestion{}, fmt.Errorf("%w: category", ErrMissingField)
	case req.Difficulty == nil:
		return NewQuestion{}, fmt.Errorf("%w: difficulty", ErrMissingField)
	}
	if *req.Difficulty < 1 {
		return NewQuestion{}, ErrInvalidDifficulty
	}
	return NewQuestion{
		Question:   *req.Question,
		Answer:     *req.Answer,
		Category:   *req.Category,
		Difficulty: *req.Difficulty,
	}, nil
}

func toCategoryMap(cats []Category) CategoryMap {
	m := make(CategoryMap, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Type
	}
	return m
}
