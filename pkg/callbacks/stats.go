package callbacks

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/effective-security/gvo/pkg/llms"
	"github.com/effective-security/x/values"
)

// TimeNowFn is used to measure durations.
var TimeNowFn = time.Now

// GenerationStats is a snapshot of the counters collected by Stats.
type GenerationStats struct {
	Calls       uint32
	Succeeded   uint32
	Failed      uint32
	ParseErrors uint32

	BytesIn      uint64
	InputTokens  uint64
	OutputTokens uint64
	TotalTokens  uint64

	// Duration is the total time spent in successful and failed calls.
	Duration time.Duration
}

// Stats is a callback handler that counts generations and token usage.
// Duration is only accurate when generations do not overlap.
type Stats struct {
	calls       atomic.Uint32
	succeeded   atomic.Uint32
	failed      atomic.Uint32
	parseErrors atomic.Uint32

	bytesIn      atomic.Uint64
	inputTokens  atomic.Uint64
	outputTokens atomic.Uint64
	totalTokens  atomic.Uint64
	duration     atomic.Int64

	started atomic.Int64
}

func NewStats() *Stats {
	return &Stats{}
}

// Snapshot returns the current counters.
func (l *Stats) Snapshot() GenerationStats {
	return GenerationStats{
		Calls:        l.calls.Load(),
		Succeeded:    l.succeeded.Load(),
		Failed:       l.failed.Load(),
		ParseErrors:  l.parseErrors.Load(),
		BytesIn:      l.bytesIn.Load(),
		InputTokens:  l.inputTokens.Load(),
		OutputTokens: l.outputTokens.Load(),
		TotalTokens:  l.totalTokens.Load(),
		Duration:     time.Duration(l.duration.Load()),
	}
}

func (l *Stats) OnGenerateStart(ctx context.Context, llm llms.Model, messages []llms.Message) {
	l.calls.Add(1)
	l.started.Store(TimeNowFn().UnixNano())
}

func (l *Stats) OnGenerateEnd(ctx context.Context, llm llms.Model, resp *llms.ContentResponse) {
	l.succeeded.Add(1)
	l.elapsed()

	l.bytesIn.Add(CountResponseContentSize(resp))
	in, out, total := CountTokens(resp)
	l.inputTokens.Add(uint64(in))
	l.outputTokens.Add(uint64(out))
	l.totalTokens.Add(uint64(total))
}

func (l *Stats) OnGenerateError(ctx context.Context, llm llms.Model, err error) {
	l.failed.Add(1)
	l.elapsed()
}

func (l *Stats) OnParseError(ctx context.Context, llm llms.Model, response string, err error) {
	l.parseErrors.Add(1)
}

func (l *Stats) elapsed() {
	if started := l.started.Swap(0); started > 0 {
		l.duration.Add(TimeNowFn().UnixNano() - started)
	}
}

// CountResponseContentSize returns the size of the response text.
func CountResponseContentSize(resp *llms.ContentResponse) uint64 {
	var size uint64
	if resp == nil {
		return size
	}
	for _, choice := range resp.Choices {
		size += uint64(len(choice.Content))
	}
	return size
}

// CountTokens sums the usage reported in the generation info of the choices.
func CountTokens(resp *llms.ContentResponse) (in, out, total int64) {
	if resp == nil {
		return
	}
	for _, choice := range resp.Choices {
		ma := values.MapAny(choice.GenerationInfo)
		in += ma.Int64("InputTokens")
		out += ma.Int64("OutputTokens")
		total += ma.Int64("TotalTokens")
	}
	return
}
