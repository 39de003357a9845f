package watermark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// FileStore keeps the watermark as RFC3339 text in one file and the
// processed-ticket set as a JSON array of IDs in another.
type FileStore struct {
	watermarkPath string
	processedPath string
	now           func() time.Time
}

// NewFileStore builds a store over the given paths.
func NewFileStore(watermarkPath, processedPath string) *FileStore {
	return &FileStore{
		watermarkPath: watermarkPath,
		processedPath: processedPath,
		now:           time.Now,
	}
}

// Load reads the stored watermark, initializing it to the current time
// when the file does not exist yet.
func (s *FileStore) Load(ctx context.Context) (time.Time, error) {
	raw, err := os.ReadFile(s.watermarkPath)
	if errors.Is(err, os.ErrNotExist) {
		ts := s.now().UTC()
		if err := s.write(ts); err != nil {
			return time.Time{}, err
		}
		return ts, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read watermark: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse watermark: %w", err)
	}
	return ts, nil
}

// Save advances the watermark. Timestamps at or before the stored value
// are ignored to keep the watermark non-decreasing.
func (s *FileStore) Save(ctx context.Context, ts time.Time) error {
	current, err := s.Load(ctx)
	if err == nil && !ts.After(current) {
		return nil
	}
	return s.write(ts)
}

// Seen reports whether the ticket ID is in the processed set.
func (s *FileStore) Seen(ctx context.Context, ticketID int64) (bool, error) {
	ids, err := s.readProcessed()
	if err != nil {
		return false, err
	}
	_, ok := ids[ticketID]
	return ok, nil
}

// MarkSeen appends the ticket ID to the processed set.
func (s *FileStore) MarkSeen(ctx context.Context, ticketID int64) error {
	ids, err := s.readProcessed()
	if err != nil {
		return err
	}
	if _, ok := ids[ticketID]; ok {
		return nil
	}
	ids[ticketID] = struct{}{}

	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, strconv.FormatInt(id, 10))
	}
	data, err := json.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(s.processedPath, data, 0o644)
}

func (s *FileStore) write(ts time.Time) error {
	if err := os.WriteFile(s.watermarkPath, []byte(ts.UTC().Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("write watermark: %w", err)
	}
	return nil
}

func (s *FileStore) readProcessed() (map[int64]struct{}, error) {
	ids := make(map[int64]struct{})
	if s.processedPath == "" {
		return ids, nil
	}
	raw, err := os.ReadFile(s.processedPath)
	if errors.Is(err, os.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read processed set: %w", err)
	}

	var stored []string
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse processed set: %w", err)
	}
	for _, v := range stored {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}
