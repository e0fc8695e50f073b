// internal/translator/translator.go
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Annany2002/nebula-canvas/internal/command"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/logger"
)

var customLog = logger.NewLogger()

var (
	ErrUnavailable = errors.New("text generation is not configured")
	ErrGenerator   = errors.New("text generation failed")
	ErrTimeout     = errors.New("text generation timed out")
	ErrBadOutput   = errors.New("text generation returned an unusable command list")
	ErrEmptyPrompt = errors.New("prompt is required")
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 10 * time.Second

// Translator turns a natural language request into a validated command list.
type Translator struct {
	gen     Generator
	system  string
	timeout time.Duration
	log     logrus.FieldLogger
}

// New creates a Translator. gen may be nil, in which case every call fails
// with ErrUnavailable.
func New(gen Generator, presetKeys []string, timeout time.Duration) *Translator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Translator{
		gen:     gen,
		system:  SystemPrompt(presetKeys),
		timeout: timeout,
		log:     customLog,
	}
}

type userTurn struct {
	Schema design.Design `json:"schema"`
	Prompt string        `json:"prompt"`
}

// Translate asks the generator for commands that fulfil prompt against d.
// On any failure the returned list is empty, never nil, so callers can
// serialize it directly.
func (t *Translator) Translate(ctx context.Context, prompt string, d design.Design) (command.List, error) {
	empty := command.List{Commands: []command.Command{}}

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return empty, ErrEmptyPrompt
	}
	if t.gen == nil {
		return empty, ErrUnavailable
	}

	user, err := json.Marshal(userTurn{Schema: d, Prompt: prompt})
	if err != nil {
		return empty, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	reply, err := t.gen.Generate(ctx, t.system, string(user))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.log.Warnf("Translator: generation exceeded %v", t.timeout)
			return empty, ErrTimeout
		}
		return empty, err
	}

	raw, err := ExtractJSON(reply)
	if err != nil {
		t.log.WithField("reply", truncate(reply, 500)).Warn("Translator: reply is not JSON")
		return empty, fmt.Errorf("%w: %v", ErrBadOutput, err)
	}
	list, err := command.ParseList([]byte(raw))
	if err != nil {
		t.log.WithError(err).WithField("reply", truncate(raw, 500)).Warn("Translator: reply failed command validation")
		return empty, fmt.Errorf("%w: %w", ErrBadOutput, err)
	}

	t.log.WithField("commands", len(list.Commands)).Info("Translator: prompt translated")
	return list, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
