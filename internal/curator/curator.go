package curator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"agri-curator/internal/storage"
	"agri-curator/internal/tools"
)

const apologyMessage = "Sorry, I encountered an error while processing your request. Please try again."

// Service is the top-level curator: it merges the farmer profile, runs
// the workflow, persists the conversation, and records the turn.
type Service struct {
	workflow   *Workflow
	router     *QueryRouter
	userData   *tools.UserDataLoggerTool
	messageLog *tools.MessageHistoryLoggerTool
	gatherer   *ElementDetailGatherer
	recorder   storage.Recorder
	logger     *zap.Logger
}

func NewService(
	workflow *Workflow,
	router *QueryRouter,
	userData *tools.UserDataLoggerTool,
	messageLog *tools.MessageHistoryLoggerTool,
	gatherer *ElementDetailGatherer,
	recorder storage.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		workflow:   workflow,
		router:     router,
		userData:   userData,
		messageLog: messageLog,
		gatherer:   gatherer,
		recorder:   recorder,
		logger:     logger,
	}
}

// Curate runs one full conversation turn. It never returns an error to
// the caller's user: failures degrade to an apology result.
func (s *Service) Curate(ctx context.Context, req Request) Result {
	start := time.Now()
	s.logger.Info("curator: starting turn",
		zap.String("conversation_id", req.ConversationID))

	s.mergeProfile(ctx, req)

	state := &State{Request: req}
	state, err := s.workflow.Run(ctx, state)
	if err != nil {
		s.logger.Error("curator: workflow failed", zap.Error(err))
		s.record(req, "curator", Result{}, err)
		return apology()
	}

	if err := s.messageLog.Store(ctx, req.ConversationID, "curator", state.History); err != nil {
		s.logger.Warn("curator: history store failed", zap.Error(err))
	}

	// only suggestions curated this turn are enriched; pending ones from
	// earlier turns already carry their details
	if s.gatherer != nil && len(state.NewSuggestions) > 0 {
		suggestions := state.NewSuggestions
		conversationID := req.ConversationID
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			s.gatherer.Gather(bg, conversationID, suggestions)
		}()
	}

	s.record(req, "curator", state.Result, nil)
	s.logger.Info("curator: turn completed", zap.Duration("took", time.Since(start)))
	return state.Result
}

// DetectPest handles the single-purpose pest endpoint: routing is skipped
// and the detection tool is invoked directly.
func (s *Service) DetectPest(ctx context.Context, req Request) Result {
	return s.runSkip(ctx, req, "pest")
}

// AnalyzePolicy handles the single-purpose policy endpoint.
func (s *Service) AnalyzePolicy(ctx context.Context, req Request) Result {
	return s.runSkip(ctx, req, "policy")
}

func (s *Service) runSkip(ctx context.Context, req Request, usecaseType string) Result {
	s.mergeProfile(ctx, req)

	state := &State{Request: req}
	history, err := s.messageLog.Retrieve(ctx, req.ConversationID, "curator")
	if err != nil {
		s.logger.Warn("curator: history retrieval failed", zap.Error(err))
	}
	state.History = history

	state, err = s.router.RouteSkip(ctx, state, usecaseType)
	if err != nil {
		s.logger.Error("curator: skip routing failed",
			zap.String("usecase", usecaseType), zap.Error(err))
		s.record(req, usecaseType, Result{}, err)
		return apology()
	}

	if err := s.messageLog.Store(ctx, req.ConversationID, "curator", state.History); err != nil {
		s.logger.Warn("curator: history store failed", zap.Error(err))
	}

	userInputs, err := s.userData.Retrieve(ctx, req.ConversationID)
	if err != nil || userInputs == nil {
		userInputs = map[string]any{}
	}

	// the tool outcome is the last appended message
	result := Result{
		UserInputs:   userInputs,
		AgentMessage: state.History[len(state.History)-1].Content,
		CTAs:         []string{},
		Tasks:        "",
	}
	s.record(req, usecaseType, result, nil)
	return result
}

// mergeProfile folds the request's inputs into the stored farmer profile,
// logging each changed key before persisting the merged document.
func (s *Service) mergeProfile(ctx context.Context, req Request) {
	if len(req.Inputs) == 0 {
		return
	}

	stored, err := s.userData.Retrieve(ctx, req.ConversationID)
	if err != nil {
		s.logger.Warn("curator: profile retrieval failed", zap.Error(err))
		return
	}
	if stored == nil {
		stored = map[string]any{}
	}

	modified := false
	for key, value := range req.Inputs {
		if value == nil || value == "" {
			continue
		}
		if prev, ok := stored[key]; !ok || fmt.Sprint(prev) != fmt.Sprint(value) {
			stored[key] = value
			modified = true
			s.logger.Info("curator: profile input changed", zap.String("key", key))
			if err := s.userData.Update(ctx, req.ConversationID, map[string]any{key: value}); err != nil {
				s.logger.Warn("curator: profile update failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	if modified {
		if err := s.userData.Store(ctx, req.ConversationID, stored); err != nil {
			s.logger.Warn("curator: profile store failed", zap.Error(err))
		}
	}
}

func (s *Service) record(req Request, endpoint string, result Result, turnErr error) {
	if s.recorder == nil {
		return
	}
	ev := storage.Event{
		Timestamp:      time.Now(),
		ConversationID: req.ConversationID,
		Endpoint:       endpoint,
		Query:          req.Query,
		AgentMessage:   result.AgentMessage,
		Tasks:          result.Tasks,
	}
	if turnErr != nil {
		ev.Error = turnErr.Error()
	}
	if err := s.recorder.AppendInteraction(ev); err != nil {
		s.logger.Warn("curator: turn record failed", zap.Error(err))
	}
}

func apology() Result {
	return Result{
		UserInputs:   map[string]any{},
		AgentMessage: apologyMessage,
		CTAs:         []string{},
		Tasks:        "",
	}
}
