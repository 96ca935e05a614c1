// Package storage lists call recordings archived in object storage.
package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/blesswrld/codesync/backend/go-services/internal/status"
)

// Object metadata keys written by the recording uploader.
const (
	MetaStartTime = "Start-Time"
	MetaEndTime   = "End-Time"
)

// Object is one stored object as seen by the recordings listing.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
	Metadata     map[string]string
}

// ObjectStore is the object storage surface recordings need.
type ObjectStore interface {
	List(ctx context.Context, prefix string) ([]Object, error)
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Recording is a playable call recording.
type Recording struct {
	Filename  string     `json:"filename"`
	URL       string     `json:"url"`
	Size      int64      `json:"size"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  string     `json:"duration,omitempty"`
}

type RecordingStore struct {
	objects ObjectStore
	ttl     time.Duration
}

func NewRecordingStore(objects ObjectStore, presignTTL time.Duration) *RecordingStore {
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	return &RecordingStore{objects: objects, ttl: presignTTL}
}

// Prefix is where recordings of a call are stored.
func Prefix(callRef string) string {
	return "recordings/" + callRef + "/"
}

// ListRecordings returns the recordings of a call, newest first.
func (s *RecordingStore) ListRecordings(ctx context.Context, callRef string) ([]Recording, error) {
	if callRef == "" || strings.ContainsAny(callRef, "/\\") {
		return nil, fmt.Errorf("invalid call reference %q", callRef)
	}
	objs, err := s.objects.List(ctx, Prefix(callRef))
	if err != nil {
		return nil, fmt.Errorf("list recordings for %s: %w", callRef, err)
	}
	out := make([]Recording, 0, len(objs))
	for _, o := range objs {
		if strings.HasSuffix(o.Key, "/") {
			continue
		}
		u, err := s.objects.PresignGet(ctx, o.Key, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("presign %s: %w", o.Key, err)
		}
		rec := Recording{
			Filename:  path.Base(o.Key),
			URL:       u,
			Size:      o.Size,
			StartTime: o.LastModified,
		}
		if t, ok := parseMetaTime(o.Metadata[MetaStartTime]); ok {
			rec.StartTime = t
		}
		if t, ok := parseMetaTime(o.Metadata[MetaEndTime]); ok {
			rec.EndTime = &t
			rec.Duration = status.RecordingDuration(rec.StartTime, t)
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func parseMetaTime(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
