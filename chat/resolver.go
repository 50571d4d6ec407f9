// Package chat answers user messages: canned intents, the remote model when
// online and the local knowledge base otherwise. Every answered question is
// stored as a chat session turn plus a conversation log row.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"valeai/knowledge"
	"valeai/metrics"
	"valeai/tools"
)

var (
	ErrChatFailed = errors.New("failed to process chat")
	ErrNotFound   = errors.New("conversation not found")
)

const (
	MODE_INTENT  = "intent"
	MODE_ONLINE  = "online"
	MODE_OFFLINE = "offline"
)

type Request struct {
	Message   string
	ImageURL  string
	SessionID string
}

type Result struct {
	Response       string `json:"response"`
	ConversationID string `json:"conversationId"`
	SessionID      string `json:"sessionId,omitempty"`
	Mode           string `json:"-"`
}

type Options struct {
	MaxContextEntries int
	MaxEntryChars     int
	PersistIntents    bool
}

// Resolver decides, per message, where the answer comes from.
type Resolver struct {
	knowledge knowledge.Repository
	sessions  *SessionStore
	model     tools.Model
	prober    tools.Prober
	metrics   *metrics.Metrics
	logger    *zap.Logger
	opts      Options
}

func NewResolver(repo knowledge.Repository, sessions *SessionStore, model tools.Model, prober tools.Prober,
	m *metrics.Metrics, logger *zap.Logger, opts Options) *Resolver {
	return &Resolver{
		knowledge: repo,
		sessions:  sessions,
		model:     model,
		prober:    prober,
		metrics:   m,
		logger:    logger,
		opts:      opts,
	}
}

// Resolve answers one message. Remote model failures never surface; only
// storage failures do, wrapped in ErrChatFailed.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	normalized := Normalize(req.Message)

	if name, ok := DetectIntent(normalized); ok {
		res := Result{Response: CannedResponse(name), Mode: MODE_INTENT}
		r.metrics.ChatResolvedInc(MODE_INTENT)

		if !r.opts.PersistIntents {
			res.ConversationID = uuid.NewString()
			return res, nil
		}
		return r.persist(ctx, req, res, "")
	}

	entries, err := r.knowledge.All(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrChatFailed, err)
	}
	localContext := BuildContext(entries, req.Message, r.opts.MaxContextEntries, r.opts.MaxEntryChars)

	res := Result{Mode: MODE_OFFLINE}
	if r.model != nil && r.prober.IsOnline(ctx) {
		answer, err := r.askModel(ctx, req, localContext)
		if err != nil {
			r.metrics.ModelErrorInc("chat")
			r.logger.Warn("chat: model failed, falling back to offline", zap.Error(err))
		} else {
			res.Response = answer
			res.Mode = MODE_ONLINE
		}
	}

	if res.Mode == MODE_OFFLINE {
		res.Response = OfflineAnswer(req.Message, knowledge.Filter(entries, req.Message))
	}
	r.metrics.ChatResolvedInc(res.Mode)

	return r.persist(ctx, req, res, localContext)
}

func (r *Resolver) askModel(ctx context.Context, req Request, localContext string) (string, error) {
	var image *tools.InlineImage
	if req.ImageURL != "" {
		img, err := tools.ParseImageDataURL(req.ImageURL)
		if err != nil {
			// imagem inválida não impede a pergunta
			r.logger.Warn("chat: ignoring image", zap.Error(err))
		} else {
			image = img
		}
	}

	done := r.metrics.ModelTimer("chat")
	answer, err := r.model.GenerateText(ctx, PersonaPrompt(localContext, req.Message), image)
	done()

	if errors.Is(err, tools.ErrEmptyModelResponse) {
		return MODEL_FALLBACK_RESPONSE, nil
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return MODEL_FALLBACK_RESPONSE, nil
	}
	return answer, nil
}

func (r *Resolver) persist(ctx context.Context, req Request, res Result, localContext string) (Result, error) {
	sessionID, convID, err := r.sessions.Record(ctx, Turn{
		SessionID: req.SessionID,
		Message:   req.Message,
		Response:  res.Response,
		ImageURL:  req.ImageURL,
		Context:   localContext,
	})
	if err != nil {
		r.logger.Error("chat: persist failed", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrChatFailed, err)
	}
	res.SessionID = sessionID
	res.ConversationID = convID
	return res, nil
}
