package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Video{
		Prompt:    "a bouncing ball",
		DSLScript: "SHAPE CIRCLE ID ball AT 50,180 RADIUS 30",
		ModelUsed: "fallback",
		Duration:  3,
		FPS:       24,
		Width:     640,
		Height:    360,
		Video:     []byte{0x00, 0x01, 0x02},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == 0 {
		t.Error("Save() returned id 0")
	}

	v, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v.Prompt != "a bouncing ball" || v.ModelUsed != "fallback" {
		t.Errorf("Get() = %q/%q", v.Prompt, v.ModelUsed)
	}
	if v.Duration != 3 || v.FPS != 24 || v.Width != 640 || v.Height != 360 {
		t.Errorf("Get() metadata = %g/%d/%dx%d", v.Duration, v.FPS, v.Width, v.Height)
	}
	if len(v.Video) != 3 || v.Video[2] != 0x02 {
		t.Errorf("Get() video blob = %v", v.Video)
	}
	if v.CreatedAt.IsZero() {
		t.Error("Get() CreatedAt is zero")
	}
}

func TestGetNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, prompt := range []string{"first", "second", "third"} {
		if _, err := s.Save(ctx, &Video{
			Prompt: prompt, DSLScript: "FPS 24", ModelUsed: "dsl",
			Duration: 1, FPS: 24, Width: 320, Height: 180, Video: []byte{0x00},
		}); err != nil {
			t.Fatalf("Save(%q) error = %v", prompt, err)
		}
	}

	videos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(videos) != 3 {
		t.Fatalf("List() returned %d videos, want 3", len(videos))
	}
	if videos[0].Prompt != "third" || videos[2].Prompt != "first" {
		t.Errorf("order = %q..%q, want third..first", videos[0].Prompt, videos[2].Prompt)
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Save(ctx, &Video{
		DSLScript: "FPS 24", ModelUsed: "dsl",
		Duration: 1, FPS: 24, Width: 320, Height: 180, Video: []byte{0x00},
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}
