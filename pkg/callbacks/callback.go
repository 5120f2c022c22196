package callbacks

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/xlog"
)

// Callback receives structured generation events.
type Callback interface {
	// OnGenerateStart is called before the model is invoked.
	OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message)
	// OnGenerateEnd is called with the model response.
	OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse)
	// OnGenerateError is called when the model call fails.
	OnGenerateError(ctx context.Context, llm llms.Model, err error)
	// OnParseError is called when the response does not decode or validate.
	OnParseError(ctx context.Context, llm llms.Model, response string, err error)
}

// ensure that the callbacks implement the interface
var (
	_ Callback = (*Noop)(nil)
	_ Callback = (*Printer)(nil)
	_ Callback = (*PackageLogger)(nil)
	_ Callback = (*Fanout)(nil)
	_ Callback = (*Stats)(nil)
)

// Mode defines the mode for callback printing
type Mode int

const (
	// ModeDefault is the default mode for callback printing
	ModeDefault Mode = iota
	// ModeVerbose is the verbose mode for callback printing
	ModeVerbose
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []Callback
}

func NewFanout(callbacks ...Callback) *Fanout {
	return &Fanout{callbacks: callbacks}
}

func (l *Fanout) Add(callback Callback) {
	l.callbacks = append(l.callbacks, callback)
}

func (l *Fanout) OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message) {
	for _, cb := range l.callbacks {
		cb.OnGenerateStart(ctx, llm, messages)
	}
}

func (l *Fanout) OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse) {
	for _, cb := range l.callbacks {
		cb.OnGenerateEnd(ctx, llm, resp)
	}
}

func (l *Fanout) OnGenerateError(ctx context.Context, llm llms.Model, err error) {
	for _, cb := range l.callbacks {
		cb.OnGenerateError(ctx, llm, err)
	}
}

func (l *Fanout) OnParseError(ctx context.Context, llm llms.Model, response string, err error) {
	for _, cb := range l.callbacks {
		cb.OnParseError(ctx, llm, response, err)
	}
}

// Noop is a callback handler that does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message) {
}

func (l *Noop) OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse) {
}

func (l *Noop) OnGenerateError(ctx context.Context, llm llms.Model, err error) {
}

func (l *Noop) OnParseError(ctx context.Context, llm llms.Model, response string, err error) {
}

// Printer is a callback handler that prints to the Writer.
type Printer struct {
	Out  io.Writer
	Mode Mode

	lock sync.Mutex
}

func NewPrinter(out io.Writer, mode Mode) *Printer {
	return &Printer{Out: out, Mode: mode}
}

func (l *Printer) OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Generate Start: %s model, %d messages\n", llm.GetName(), len(messages))
	if l.Mode == ModeVerbose {
		for _, msg := range messages {
			fmt.Fprintf(l.Out, "%s: %s\n", msg.Role, msg.GetContent())
		}
	}
}

func (l *Printer) OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Generate End: %s model, %d choices\n", llm.GetName(), len(resp.Choices))
	if l.Mode == ModeVerbose {
		for _, choice := range resp.Choices {
			if choice.Content != "" {
				fmt.Fprintln(l.Out, choice.Content)
			}
		}
	}
}

func (l *Printer) OnGenerateError(ctx context.Context, llm llms.Model, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Generate Error: %s: %s\n", llm.GetName(), err.Error())
}

func (l *Printer) OnParseError(ctx context.Context, llm llms.Model, response string, err error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	fmt.Fprintf(l.Out, "Parse Error: %s: %s\n", llm.GetName(), err.Error())
	fmt.Fprintf(l.Out, "Response: %s\n", response)
}

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "generate_start",
		"provider", llm.GetProviderType(),
		"model", llm.GetName(),
		"messages", len(messages),
	)
}

func (l *PackageLogger) OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse) {
	in, out, total := CountTokens(resp)
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "generate_end",
		"provider", llm.GetProviderType(),
		"model", llm.GetName(),
		"choices", len(resp.Choices),
		"input_tokens", in,
		"output_tokens", out,
		"total_tokens", total,
	)
}

func (l *PackageLogger) OnGenerateError(ctx context.Context, llm llms.Model, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "generate_error",
		"provider", llm.GetProviderType(),
		"model", llm.GetName(),
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnParseError(ctx context.Context, llm llms.Model, response string, err error) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "parse_error",
		"model", llm.GetName(),
		"err", err.Error(),
		"response", response,
	)
}
