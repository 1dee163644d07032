package question

// QuestionsPerPage is the fixed window size used by every paginated listing.
const QuestionsPerPage = 10

// AnyCategory scopes a quiz draw to the whole question bank.
const AnyCategory int64 = 0

// Question is a single trivia record as delivered to clients.
type Question struct {
	ID         int64  `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int64  `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// Category is a read-only label questions are grouped under.
type Category struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// NewQuestion carries the validated fields for an insert.
type NewQuestion struct {
	Question   string
	Answer     string
	Category   int64
	Difficulty int
}

// CreateRequest is the create variant of the POST /questions payload.
// Nil pointers mean the field was absent or null.
type CreateRequest struct {
	Question   *string
	Answer     *string
	Category   *int64
	Difficulty *int
}

// SearchRequest is the search variant of the POST /questions payload.
type SearchRequest struct {
	Term string
}

// QuizRequest is a single quiz draw.
type QuizRequest struct {
	CategoryID  int64
	PreviousIDs []int64
}

// CategoryMap maps category id to its display label.
type CategoryMap map[int64]string

// QuestionPage is the result of a paginated listing.
type QuestionPage struct {
	Questions      []Question
	TotalQuestions int
	Categories     CategoryMap
}

// CategoryQuestions is the result of filtering by category.
type CategoryQuestions struct {
	Questions       []Question
	TotalQuestions  int
	CurrentCategory string
}

// DeleteResult echoes the removed id along with a refreshed listing.
type DeleteResult struct {
	Deleted        int64
	Questions      []Question
	TotalQuestions int
}

// CreateResult echoes the new record along with a refreshed listing.
type CreateResult struct {
	Created         int64
	QuestionCreated string
	Questions       []Question
	TotalQuestions  int
}
