package quiz

import (
	"errors"
	"time"
)

// Session errors.
var (
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrNotInProgress = errors.New("quiz is not in progress")
	ErrAnswerLocked  = errors.New("question already answered")
	ErrInvalidOption = errors.New("answer option out of range")
)

// Status is the session lifecycle state.
type Status string

const (
	NotStarted Status = "not_started"
	InProgress Status = "in_progress"
	Completed  Status = "completed"
)

// Modes a session can be started in.
const (
	ModeRandom = "random"
	ModeDaily  = "daily"
)

// DefaultQuestionTime is the countdown per question.
const DefaultQuestionTime = 30 * time.Second

// Session is one play-through. Timers are deadlines evaluated lazily: every
// method first auto-submits "no answer" for each question whose deadline has
// passed. Session is not safe for concurrent use.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"-"`
	Mode      string        `json:"mode"`
	Status    Status        `json:"status"`
	Index     int           `json:"index"`
	Questions []Question    `json:"-"`
	Answers   []*int        `json:"answers"`
	Deadline  time.Time     `json:"deadline"`
	PerQ      time.Duration `json:"-"`
	Result    *Result       `json:"result,omitempty"`
	Touched   time.Time     `json:"-"`
}

// NewSession prepares a session over qs. perQ <= 0 means DefaultQuestionTime.
func NewSession(id, userID, mode string, qs []Question, perQ time.Duration) (*Session, error) {
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	if perQ <= 0 {
		perQ = DefaultQuestionTime
	}
	return &Session{
		ID:        id,
		UserID:    userID,
		Mode:      mode,
		Status:    NotStarted,
		Questions: qs,
		Answers:   make([]*int, len(qs)),
		PerQ:      perQ,
	}, nil
}

// Start moves NotStarted to InProgress and arms the first countdown.
// Starting a running or finished session is a no-op.
func (s *Session) Start(now time.Time) {
	s.Touched = now
	if s.Status != NotStarted {
		return
	}
	s.Status = InProgress
	s.Index = 0
	s.Deadline = now.Add(s.PerQ)
}

// Tick applies every countdown that expired by now.
func (s *Session) Tick(now time.Time) {
	s.Touched = now
	for s.Status == InProgress && !now.Before(s.Deadline) {
		s.advance(s.Deadline)
	}
}

// Answer records option for the current question. A question takes one
// answer; a second one fails with ErrAnswerLocked.
func (s *Session) Answer(option int, now time.Time) error {
	s.Tick(now)
	if s.Status != InProgress {
		return ErrNotInProgress
	}
	q := s.Questions[s.Index]
	if option < 0 || option >= len(q.Options) {
		return ErrInvalidOption
	}
	if s.Answers[s.Index] != nil {
		return ErrAnswerLocked
	}
	a := option
	s.Answers[s.Index] = &a
	return nil
}

// Next advances to the following question, completing the session after the
// last one.
func (s *Session) Next(now time.Time) error {
	s.Tick(now)
	if s.Status != InProgress {
		return ErrNotInProgress
	}
	s.advance(now)
	return nil
}

// Current returns the question being played, or false when not in progress.
func (s *Session) Current() (Question, bool) {
	if s.Status != InProgress {
		return Question{}, false
	}
	return s.Questions[s.Index], true
}

// Remaining is the time left on the current countdown.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Status != InProgress || !now.Before(s.Deadline) {
		return 0
	}
	return s.Deadline.Sub(now)
}

func (s *Session) advance(at time.Time) {
	s.Index++
	if s.Index >= len(s.Questions) {
		s.Status = Completed
		s.Deadline = time.Time{}
		r := Score(s.Questions, s.Answers)
		s.Result = &r
		return
	}
	s.Deadline = at.Add(s.PerQ)
}
