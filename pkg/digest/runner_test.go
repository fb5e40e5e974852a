package digest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailybrief/dailybrief/pkg/domain"
)

type fakeReader struct{ entries []domain.Entry }

func (f *fakeReader) Recent(context.Context) []domain.Entry { return f.entries }

type fakeTexts struct{}

func (fakeTexts) Text(_ context.Context, e domain.Entry) string { return "text of " + e.Title }

type fakeSummarizer struct {
	failSummarize map[string]bool // keyed by article text
	failTranslate map[string]bool
	calls         int
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	if f.failSummarize[text] {
		return "", fmt.Errorf("quota exceeded")
	}
	return "summary of " + text, nil
}

func (f *fakeSummarizer) TranslatePersian(_ context.Context, summary string) (string, error) {
	if f.failTranslate[summary] {
		return "", fmt.Errorf("model timeout")
	}
	return "ترجمه " + summary, nil
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, text)
	return nil
}

func entriesNamed(titles ...string) []domain.Entry {
	out := make([]domain.Entry, len(titles))
	for i, title := range titles {
		out[i] = domain.Entry{Title: title, Link: "http://example.com/" + title, Published: time.Now()}
	}
	return out
}

func TestRunner_Run_AllSucceed(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2", "a3", "a4", "a5")}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, &fakeSummarizer{}, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	// exactly one delivery with all five blocks in input order
	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	for i := 1; i <= 5; i++ {
		assert.Contains(t, msg, fmt.Sprintf("📌 Insight #%d:", i))
	}
	assert.Less(t, strings.Index(msg, "a1"), strings.Index(msg, "a2"))
}

func TestRunner_Run_EntryFailureDropsOnlyThatEntry(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2", "a3")}
	summarizer := &fakeSummarizer{failSummarize: map[string]bool{"text of a2": true}}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	msg := notifier.sent[0]
	assert.Contains(t, msg, "a1")
	assert.NotContains(t, msg, "a2")
	assert.Contains(t, msg, "a3")
	assert.Contains(t, msg, "📌 Insight #2:")
	assert.NotContains(t, msg, "📌 Insight #3:")
}

func TestRunner_Run_TranslateFailureDropsEntry(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2")}
	summarizer := &fakeSummarizer{failTranslate: map[string]bool{"summary of text of a1": true}}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.NotContains(t, notifier.sent[0], "🗞 Title: a1")
	assert.Contains(t, notifier.sent[0], "🗞 Title: a2")
}

func TestRunner_Run_NoEntriesSkipsDelivery(t *testing.T) {
	reader := &fakeReader{}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, &fakeSummarizer{}, notifier, 5, 4000)

	// zero fresh entries: run completes without error and without delivery
	err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestRunner_Run_AllEntriesFailSkipsDelivery(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2")}
	summarizer := &fakeSummarizer{failSummarize: map[string]bool{"text of a1": true, "text of a2": true}}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestRunner_Run_StopsAtMaxItems(t *testing.T) {
	// reader returns 2x slack, only maxItems should be processed
	reader := &fakeReader{entries: entriesNamed("a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10")}
	summarizer := &fakeSummarizer{}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, summarizer.calls, "no model calls past the item cap")
	require.Len(t, notifier.sent, 1)
	assert.NotContains(t, notifier.sent[0], "a6")
}

func TestRunner_Run_SlackCoversFailures(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2", "a3", "a4", "a5", "a6")}
	summarizer := &fakeSummarizer{failSummarize: map[string]bool{"text of a1": true}}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.NoError(t, err)

	// a1 failed, the slack entry a6 fills the fifth slot
	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], "🗞 Title: a6")
	assert.Contains(t, notifier.sent[0], "📌 Insight #5:")
}

func TestRunner_Run_DeliveryFailureIsFatal(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1")}
	notifier := &fakeNotifier{err: fmt.Errorf("telegram error: status 400")}
	runner := NewRunner(reader, fakeTexts{}, &fakeSummarizer{}, notifier, 5, 4000)

	err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver digest")
}

func TestRunner_Run_CanceledContextStopsProcessing(t *testing.T) {
	reader := &fakeReader{entries: entriesNamed("a1", "a2")}
	summarizer := &fakeSummarizer{}
	notifier := &fakeNotifier{}
	runner := NewRunner(reader, fakeTexts{}, summarizer, notifier, 5, 4000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runner.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, summarizer.calls)
	assert.Empty(t, notifier.sent)
}
