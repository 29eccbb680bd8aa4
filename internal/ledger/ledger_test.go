package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLedger(t *testing.T) *FileLedger {
	t.Helper()
	return NewFileLedger(filepath.Join(t.TempDir(), "campaign.jsonl"))
}

func TestFileLedger_AppendAndIndex(t *testing.T) {
	l := tempLedger(t)

	require.NoError(t, l.Append(Record{OK: true, Email: "a@b.is", TicketID: "t1", TicketURL: "https://tix.example/t/t1"}))
	require.NoError(t, l.Append(Record{OK: false, Email: "c@d.is", Error: "rate limited"}))
	require.NoError(t, l.Append(Record{OK: true, Email: "E@F.IS", TicketID: "t2"}))

	sent, err := l.SentIndex()
	require.NoError(t, err)
	assert.Len(t, sent, 2)
	assert.Contains(t, sent, "a@b.is")
	assert.Contains(t, sent, "e@f.is", "emails are normalized on both write and read")
	assert.NotContains(t, sent, "c@d.is", "failures do not mark a recipient as sent")
}

func TestFileLedger_MissingFileIsEmpty(t *testing.T) {
	l := NewFileLedger(filepath.Join(t.TempDir(), "does-not-exist.jsonl"))
	sent, err := l.SentIndex()
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestFileLedger_AppendOnly(t *testing.T) {
	l := tempLedger(t)
	require.NoError(t, l.Append(Record{OK: true, Email: "a@b.is", TicketID: "t1"}))

	before, err := os.ReadFile(l.path)
	require.NoError(t, err)

	require.NoError(t, l.Append(Record{OK: false, Email: "a@b.is", Error: "second attempt"}))

	after, err := os.ReadFile(l.path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(after), string(before)), "prior entries must never be rewritten")
	assert.Equal(t, 2, strings.Count(string(after), "\n"))

	// A later failure does not erase a prior success.
	sent, err := l.SentIndex()
	require.NoError(t, err)
	assert.Contains(t, sent, "a@b.is")
}

func TestFileLedger_SkipsDamagedTail(t *testing.T) {
	l := tempLedger(t)
	require.NoError(t, l.Append(Record{OK: true, Email: "a@b.is", TicketID: "t1"}))

	// Simulate a crash mid-append: a truncated JSON fragment on the last line.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"ok":true,"email":"broken@`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	sent, err := l.SentIndex()
	require.NoError(t, err)
	assert.Len(t, sent, 1)
	assert.Contains(t, sent, "a@b.is")
}

func TestFileLedger_AppendAfterDamagedTail(t *testing.T) {
	l := tempLedger(t)
	require.NoError(t, l.Append(Record{OK: true, Email: "a@b.is", TicketID: "t1"}))

	// Simulate a crash mid-append: the last line has no trailing newline.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"ok":true,"email":"broken@`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	// The next run's appends must start on a fresh line, not glue onto the
	// torn one, or the resume would lose this success and re-send.
	require.NoError(t, l.Append(Record{OK: true, Email: "b@c.is", TicketID: "t2"}))

	sent, err := l.SentIndex()
	require.NoError(t, err)
	assert.Contains(t, sent, "a@b.is")
	assert.Contains(t, sent, "b@c.is")
	assert.Len(t, sent, 2)
}

func TestFileLedger_TimestampDefaulted(t *testing.T) {
	l := tempLedger(t)
	require.NoError(t, l.Append(Record{OK: true, Email: "a@b.is"}))

	raw, err := os.ReadFile(l.path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp"`)
	assert.NotContains(t, string(raw), time.Time{}.Format(time.RFC3339))
}
