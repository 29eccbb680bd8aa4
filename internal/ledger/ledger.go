// Package ledger implements the append-only campaign ledger: one JSON object
// per line, never rewritten. The bulk pipeline replays it on start to decide
// who has already been sent a ticket, which is what makes a campaign safe to
// restart after an interruption.
package ledger

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// Record is one entry per attempted bulk-issuance outcome.
type Record struct {
	OK        bool      `json:"ok"`
	Email     string    `json:"email"`
	TicketID  string    `json:"ticket_id,omitempty"`
	TicketURL string    `json:"ticket_url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// FileLedger appends records to a local JSONL file. Appends are single
// writes of complete lines, so the file stays readable concurrently with
// writes and a crash can at worst lose the entry being written, never
// corrupt prior ones.
type FileLedger struct {
	path string
}

// NewFileLedger returns a ledger backed by the file at path. The file is
// created on first append.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Append writes one record as a single line. It never edits or truncates
// prior entries. A file ending without a newline means the previous writer
// crashed mid-line; the new record starts on a fresh line so the damage stays
// confined to the torn entry and the new record remains parseable.
func (l *FileLedger) Append(rec Record) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.Email = normalizeEmail(rec.Email)

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal ledger record: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger: %w", err)
	}
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("read ledger tail: %w", err)
		}
		if last[0] != '\n' {
			line = append([]byte{'\n'}, line...)
		}
	}

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append ledger record: %w", err)
	}
	return nil
}

// SentIndex scans the whole file once and returns the set of recipient
// emails with at least one ok=true entry. A missing file is an empty
// campaign, not an error. Lines that do not parse are skipped: a ledger
// damaged at the tail (e.g. a crash mid-write) must not block a resume, and
// skipping can only cause a duplicate send, never a lost one.
func (l *FileLedger) SentIndex() (map[string]struct{}, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]struct{}{}, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	sent := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.OK && rec.Email != "" {
			sent[normalizeEmail(rec.Email)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return sent, nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
