package question

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// memStore is an in-memory Store used across the package tests.
type memStore struct {
	mu         sync.Mutex
	categories []Category
	questions  []Question
	nextID     int64
	fail       map[string]error
}

func newMemStore() *memStore {
	return &memStore{nextID: 1, fail: map[string]error{}}
}

func (m *memStore) withCategories(cats ...Category) *memStore {
	m.categories = append(m.categories, cats...)
	return m
}

// seed appends n questions in category with sequential ids.
func (m *memStore) seed(category int64, n int) *memStore {
	for i := 0; i < n; i++ {
		m.questions = append(m.questions, Question{
			ID:         m.nextID,
			Question:   "Question " + string(rune('A'+i%26)),
			Answer:     "answer",
			Category:   category,
			Difficulty: 1 + i%5,
		})
		m.nextID++
	}
	return m
}

func (m *memStore) add(q Question) *memStore {
	q.ID = m.nextID
	m.nextID++
	m.questions = append(m.questions, q)
	return m
}

func (m *memStore) ids() []int64 {
	out := make([]int64, 0, len(m.questions))
	for _, q := range m.questions {
		out = append(out, q.ID)
	}
	return out
}

func (m *memStore) ListCategories(_ context.Context) ([]Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["ListCategories"]; err != nil {
		return nil, err
	}
	out := append([]Category(nil), m.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetCategory(_ context.Context, id int64) (Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["GetCategory"]; err != nil {
		return Category{}, err
	}
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrRecordNotFound
}

func (m *memStore) ListQuestions(_ context.Context) ([]Question, error) {
	return m.filter("ListQuestions", func(Question) bool { return true })
}

func (m *memStore) SearchQuestions(_ context.Context, term string) ([]Question, error) {
	needle := strings.ToLower(term)
	return m.filter("SearchQuestions", func(q Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	})
}

func (m *memStore) ListQuestionsByCategory(_ context.Context, categoryID int64) ([]Question, error) {
	return m.filter("ListQuestionsByCategory", func(q Question) bool { return q.Category == categoryID })
}

func (m *memStore) GetQuestion(_ context.Context, id int64) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["GetQuestion"]; err != nil {
		return Question{}, err
	}
	for _, q := range m.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrRecordNotFound
}

func (m *memStore) InsertQuestion(_ context.Context, nq NewQuestion) (Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["InsertQuestion"]; err != nil {
		return Question{}, err
	}
	q := Question{
		ID:         m.nextID,
		Question:   nq.Question,
		Answer:     nq.Answer,
		Category:   nq.Category,
		Difficulty: nq.Difficulty,
	}
	m.nextID++
	m.questions = append(m.questions, q)
	return q, nil
}

func (m *memStore) DeleteQuestion(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["DeleteQuestion"]; err != nil {
		return err
	}
	for i, q := range m.questions {
		if q.ID == id {
			m.questions = append(m.questions[:i], m.questions[i+1:]...)
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *memStore) CountQuestions(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail["CountQuestions"]; err != nil {
		return 0, err
	}
	return len(m.questions), nil
}

func (m *memStore) filter(op string, keep func(Question) bool) ([]Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[op]; err != nil {
		return nil, err
	}
	out := []Question{}
	for _, q := range m.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

var defaultCategories = []Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}
