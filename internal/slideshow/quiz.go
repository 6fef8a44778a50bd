package slideshow

// QuizSession is the per-visit answer state of an event's quiz. It goes
// from unanswered to revealed on Submit and back only through Reset.
type QuizSession struct {
	Opened   bool   `json:"opened"`
	Selected string `json:"selected"`
	Correct  bool   `json:"correct"`
	Revealed bool   `json:"revealed"`
}

// Open shows the question and its options.
func (q *QuizSession) Open() {
	q.Opened = true
}

// Submit records choice and compares it to answer by exact equality.
// Calling it again overwrites the previous submission.
func (q *QuizSession) Submit(choice, answer string) {
	q.Opened = true
	q.Selected = choice
	q.Correct = choice == answer
	q.Revealed = true
}

// Reset returns the session to its empty, unanswered state.
func (q *QuizSession) Reset() {
	*q = QuizSession{}
}
