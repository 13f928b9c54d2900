package title

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/divyekant/pdfrename/internal/extract"
	"github.com/divyekant/pdfrename/internal/llm"
	"github.com/divyekant/pdfrename/internal/logging"
)

// Fallback is the title used whenever the model cannot provide one.
const Fallback = "Untitled"

// SystemPrompt constrains the model's reply to a short filename.
const SystemPrompt = "You are an assistant tasked with generating file names for documents. " +
	"Based on the content provided, return a filename that is concise, descriptive, " +
	"and uses only English characters, numbers, and underscores. Ensure it is no longer than 50 characters."

// Model asks an llm.Provider for a title. Provider failures yield Fallback;
// the only error it returns is the context's, once ctx is done.
type Model struct {
	provider  llm.Provider
	model     string
	maxTokens int
	log       logrus.FieldLogger
}

// ModelOption customizes a Model strategy.
type ModelOption func(*Model)

// WithModelName overrides the provider's model for title requests.
func WithModelName(name string) ModelOption {
	return func(m *Model) { m.model = name }
}

// WithMaxTokens bounds the reply length requested from the provider.
func WithMaxTokens(n int) ModelOption {
	return func(m *Model) { m.maxTokens = n }
}

// WithLogger sets where fallbacks are reported.
func WithLogger(log logrus.FieldLogger) ModelOption {
	return func(m *Model) { m.log = log }
}

func NewModel(provider llm.Provider, opts ...ModelOption) *Model {
	m := &Model{provider: provider}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logging.Discard()
	}
	return m
}

func (m *Model) Name() string { return StrategyModel }

func (m *Model) Derive(ctx context.Context, doc extract.Document) (string, error) {
	reply, err := m.provider.Complete(ctx, llm.CompletionRequest{
		Model:     m.model,
		System:    SystemPrompt,
		User:      doc.Content(),
		MaxTokens: m.maxTokens,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		m.log.WithFields(logrus.Fields{
			"file":     doc.Path,
			"provider": m.provider.Name(),
		}).WithError(err).Warn("title request failed, using fallback")
		return Fallback, nil
	}

	t := cleanReply(reply)
	if t == "" {
		m.log.WithField("file", doc.Path).Warn("model returned an empty title, using fallback")
		return Fallback, nil
	}
	return t, nil
}

// cleanReply keeps the first non-blank line of a model reply and strips the
// decoration models tend to add: quotes, backticks, a trailing .pdf.
func cleanReply(reply string) string {
	var line string
	for _, l := range strings.Split(reply, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}
	line = strings.Trim(line, "\"'`")
	if strings.HasSuffix(strings.ToLower(line), ".pdf") {
		line = line[:len(line)-len(".pdf")]
	}
	return strings.TrimSpace(line)
}
