package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/gamechat/internal/logging"
	"github.com/diogo/gamechat/internal/models"
)

// Sender performs the remote chat call. api.Client satisfies it.
type Sender interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// State is the submission state of a Flow.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Outcome records how the last submission ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeError:
		return "error"
	default:
		return "none"
	}
}

// Submission is one accepted user message waiting for its reply.
type Submission struct {
	ID      int
	Message models.Message
	// History is the conversation as it was before Message was appended.
	History  []models.Message
	Started  time.Time
	useTools bool
}

// Result is what Send produced for a Submission.
type Result struct {
	Submission *Submission
	Response   *models.ChatResponse
	Err        error
	Elapsed    time.Duration
}

// FlowOption configures a Flow.
type FlowOption func(*Flow)

// WithLogger sets the flow's logger.
func WithLogger(logger *zap.Logger) FlowOption {
	return func(f *Flow) {
		f.logger = logging.OrNop(logger)
	}
}

// WithTools sets the use_tools flag sent with every request.
func WithTools(enabled bool) FlowOption {
	return func(f *Flow) {
		f.useTools = enabled
	}
}

// WithSessionID overrides the generated session ID.
func WithSessionID(id string) FlowOption {
	return func(f *Flow) {
		if id != "" {
			f.sessionID = id
		}
	}
}

// Flow drives message round trips for a single conversation. At most one
// submission is in flight at a time.
type Flow struct {
	sender       Sender
	conversation *Conversation
	logger       *zap.Logger
	useTools     bool
	sessionID    string

	mu          sync.Mutex
	state       State
	lastOutcome Outcome
	seq         int
}

// NewFlow creates a flow that appends to conv and sends through sender.
// A nil conv starts a fresh conversation.
func NewFlow(sender Sender, conv *Conversation, opts ...FlowOption) *Flow {
	if conv == nil {
		conv = NewConversation()
	}
	f := &Flow{
		sender:       sender,
		conversation: conv,
		logger:       zap.NewNop(),
		useTools:     true,
		sessionID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(zap.String("session", f.sessionID))
	return f
}

// Conversation returns the conversation the flow appends to.
func (f *Flow) Conversation() *Conversation {
	return f.conversation
}

// SessionID identifies this flow in logs and transcripts.
func (f *Flow) SessionID() string {
	return f.sessionID
}

// State returns the current submission state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy reports whether a submission is in flight.
func (f *Flow) Busy() bool {
	return f.State() == StateSubmitting
}

// LastOutcome returns how the most recent submission ended.
func (f *Flow) LastOutcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOutcome
}

// Begin accepts input for submission. It returns false, changing nothing,
// when the trimmed input is empty or another submission is in flight.
// On success the user message is already in the conversation.
func (f *Flow) Begin(input string) (*Submission, bool) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, false
	}

	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		f.logger.Debug("submission ignored while busy")
		return nil, false
	}
	f.state = StateSubmitting
	f.seq++
	sub := &Submission{
		ID:       f.seq,
		Message:  models.NewUserMessage(text),
		History:  f.conversation.Messages(),
		Started:  time.Now(),
		useTools: f.useTools,
	}
	f.mu.Unlock()

	f.conversation.Append(sub.Message)
	f.logger.Debug("submission started",
		zap.Int("submission", sub.ID),
		zap.Int("history", len(sub.History)),
	)
	return sub, true
}

// Send performs the remote call for sub. It does not touch flow state and
// may run on any goroutine.
func (f *Flow) Send(ctx context.Context, sub *Submission) Result {
	req := models.NewChatRequest(sub.Message.Content, sub.History, sub.useTools)
	resp, err := f.sender.Chat(ctx, req)
	return Result{
		Submission: sub,
		Response:   resp,
		Err:        err,
		Elapsed:    time.Since(sub.Started),
	}
}

// Settle appends the reply for res, or FallbackMessage when the round trip
// failed, and returns the flow to idle.
func (f *Flow) Settle(res Result) models.Message {
	var reply models.Message
	outcome := OutcomeSuccess

	switch {
	case res.Err != nil:
		outcome = OutcomeError
		reply = models.NewAssistantMessage(models.FallbackMessage)
		f.logger.Warn("chat request failed",
			zap.Int("submission", submissionID(res)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Error(res.Err),
		)
	case res.Response == nil:
		outcome = OutcomeError
		reply = models.NewAssistantMessage(models.FallbackMessage)
		f.logger.Warn("chat request returned no response",
			zap.Int("submission", submissionID(res)),
		)
	default:
		reply = models.NewAssistantMessage(res.Response.Response)
		if !res.Response.Success {
			f.logger.Info("backend reported success=false",
				zap.Int("submission", submissionID(res)),
			)
		}
		f.logger.Debug("chat request completed",
			zap.Int("submission", submissionID(res)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Int("reply_bytes", len(reply.Content)),
		)
	}

	f.conversation.Append(reply)

	f.mu.Lock()
	f.state = StateIdle
	f.lastOutcome = outcome
	f.mu.Unlock()

	return reply
}

// Submit runs Begin, Send and Settle in order. It returns false if the input
// was not accepted.
func (f *Flow) Submit(ctx context.Context, input string) (models.Message, bool) {
	sub, ok := f.Begin(input)
	if !ok {
		return models.Message{}, false
	}
	return f.Settle(f.Send(ctx, sub)), true
}

func submissionID(res Result) int {
	if res.Submission == nil {
		return 0
	}
	return res.Submission.ID
}
