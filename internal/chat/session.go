package chat

import (
	"context"
	"io"
	"iter"
	"strings"

	"github.com/pkg/errors"

	openai "github.com/llama-swappo/swappo/internal/api/openai/v1"
	"github.com/llama-swappo/swappo/internal/backend"
	"github.com/llama-swappo/swappo/internal/constants"
	logutils "github.com/llama-swappo/swappo/internal/utils/logger"
)

var (
	ErrUnknownModelAlias = errors.New("unknown model alias")
	ErrStreamConsumed    = errors.New("response stream already consumed")
)

type Options struct {
	// Model is an alias or a canonical model id. Unknown names are sent as-is.
	Model     string
	MaxTokens int
	Stream    bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Model:     constants.DefaultModel,
		MaxTokens: constants.DefaultMaxTokens,
		Stream:    true,
	}
}

// Session holds one conversation with the backend. It is not safe for
// concurrent use; the REPL drives it from a single goroutine.
type Session struct {
	backend   backend.Backend
	aliases   *Aliases
	model     string
	maxTokens int
	stream    bool
	history   []openai.Message
}

func New(be backend.Backend, aliases *Aliases, opts Options) *Session {
	if aliases == nil {
		aliases = NewAliases(nil)
	}
	model := opts.Model
	if id, ok := aliases.Resolve(model); ok {
		model = id
	}
	return &Session{
		backend:   be,
		aliases:   aliases,
		model:     model,
		maxTokens: opts.MaxTokens,
		stream:    opts.Stream,
	}
}

// Model returns the canonical id requests are sent with.
func (s *Session) Model() string {
	return s.model
}

func (s *Session) Aliases() *Aliases {
	return s.aliases
}

// History returns a copy of the conversation so far.
func (s *Session) History() []openai.Message {
	out := make([]openai.Message, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) Clear() {
	s.history = nil
}

// SwitchModel changes the model for subsequent requests and starts a fresh
// conversation. An unknown alias leaves the session untouched.
func (s *Session) SwitchModel(alias string) error {
	id, ok := s.aliases.Resolve(alias)
	if !ok {
		return errors.Wrapf(ErrUnknownModelAlias, "%q", alias)
	}
	s.model = id
	s.history = nil
	return nil
}

// SendMessage sends text as the next user turn and returns the reply as a
// sequence of text fragments. Nothing happens until the sequence is iterated,
// and it can only be iterated once.
//
// The user turn is recorded as soon as iteration starts and is kept even if
// the request fails. The assistant turn is recorded only when the reply has
// been read to the end, so a consumer that stops early leaves the history
// ending with the user turn. A failure is reported as a single ("", err) pair.
func (s *Session) SendMessage(ctx context.Context, text string) iter.Seq2[string, error] {
	consumed := false
	return func(yield func(string, error) bool) {
		if consumed {
			yield("", ErrStreamConsumed)
			return
		}
		consumed = true

		lgr := logutils.FromContext(ctx)
		s.history = append(s.history, openai.Message{Role: openai.RoleUser, Content: text})
		req := s.request()
		lgr.Debugf(ctx, "sending %d messages to %s", len(req.Messages), req.Model)

		if !s.stream {
			resp, err := s.backend.ChatCompletion(ctx, req)
			if err != nil {
				yield("", err)
				return
			}
			content := resp.Content()
			if content != "" && !yield(content, nil) {
				return
			}
			s.appendAssistant(content)
			return
		}

		stream, err := s.backend.ChatCompletionStream(ctx, req)
		if err != nil {
			yield("", err)
			return
		}
		defer stream.Close()

		var reply strings.Builder
		for {
			chunk, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				yield("", err)
				return
			}
			fragment := chunk.Content()
			if fragment == "" {
				continue
			}
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				lgr.Debug(ctx, "reply abandoned by consumer")
				return
			}
		}
		s.appendAssistant(reply.String())
	}
}

// Send is SendMessage for callers that just want the text: fragments are
// written to w as they arrive and the full reply is returned.
func (s *Session) Send(ctx context.Context, text string, w io.Writer) (string, error) {
	var reply strings.Builder
	for fragment, err := range s.SendMessage(ctx, text) {
		if err != nil {
			return reply.String(), err
		}
		reply.WriteString(fragment)
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, fragment); err != nil {
			return reply.String(), errors.Wrap(err, "error writing reply")
		}
	}
	return reply.String(), nil
}

func (s *Session) appendAssistant(content string) {
	s.history = append(s.history, openai.Message{Role: openai.RoleAssistant, Content: content})
}

func (s *Session) request() *openai.ChatCompletionRequest {
	req := &openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: s.History(),
		Stream:   s.stream,
	}
	if s.maxTokens > 0 {
		maxTokens := s.maxTokens
		req.MaxTokens = &maxTokens
	}
	return req
}
