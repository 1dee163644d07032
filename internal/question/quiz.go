package question

import "context"

// NextQuestion draws one question uniformly at random from the category scope,
// skipping previously served ids. A nil question with a nil error means the pool is exhausted.
func (s *Service) NextQuestion(ctx context.Context, req QuizRequest) (*Question, error) {
	const op = "question.NextQuestion"

	var (
		pool []Question
		err  error
	)
	if req.CategoryID == AnyCategory {
		pool, err = s.store.ListQuestions(ctx)
	} else {
		pool, err = s.store.ListQuestionsByCategory(ctx, req.CategoryID)
	}
	if err != nil {
		return nil, newError(KindInternal, op, err)
	}

	eligible := excludeSeen(pool, req.PreviousIDs)
	if len(eligible) == 0 {
		quizDrawsTotal.WithLabelValues("exhausted").Inc()
		return nil, nil
	}

	picked := eligible[s.intn(len(eligible))]
	quizDrawsTotal.WithLabelValues("served").Inc()
	return &picked, nil
}

func excludeSeen(pool []Question, seen []int64) []Question {
	if len(seen) == 0 {
		return pool
	}
	skip := make(map[int64]struct{}, len(seen))
	for _, id := range seen {
		skip[id] = struct{}{}
	}
	out := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := skip[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}
