package question

// Paginate returns the 1-based page of items using QuestionsPerPage as the window.
// Out-of-range pages (including page < 1) yield an empty, non-nil slice.
func Paginate(items []Question, page int) []Question {
	pages := (len(items) + QuestionsPerPage - 1) / QuestionsPerPage
	if page < 1 || page > pages {
		return []Question{}
	}
	start := (page - 1) * QuestionsPerPage
	end := start + QuestionsPerPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
