package letter

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

func TestMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := testNow()

	record := Request{
		ID:              "req-1",
		StudentName:     "Asha Rao",
		CollegeName:     "XYZ College",
		Course:          "Marine Engineering",
		ReferenceNumber: "JNPA/2024/001",
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := store.Create(ctx, record); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, record); KindFromError(err) != KindValidation {
		t.Fatalf("expected duplicate create to fail, got %v", err)
	}
	if err := store.Create(ctx, Request{}); KindFromError(err) != KindValidation {
		t.Fatalf("expected empty id to fail, got %v", err)
	}

	got, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StudentName != "Asha Rao" {
		t.Fatalf("unexpected record %+v", got)
	}
	if _, err := store.Get(ctx, "nope"); KindFromError(err) != KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}

	got.Status = StatusApproved
	if err := store.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, err := store.Get(ctx, "req-1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", updated.Status)
	}

	if err := store.Update(ctx, Request{ID: "ghost"}); KindFromError(err) != KindNotFound {
		t.Fatalf("expected not found on update, got %v", err)
	}
}

func TestMemoryStore_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := testNow()

	seed := []Request{
		{ID: "req-1", Status: StatusPending, CreatedAt: base},
		{ID: "req-2", Status: StatusApproved, CreatedAt: base.Add(time.Minute)},
		{ID: "req-3", Status: StatusPending, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "req-4", Status: StatusRejected, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, record := range seed {
		if err := store.Create(ctx, record); err != nil {
			t.Fatalf("create %s: %v", record.ID, err)
		}
	}

	all, err := store.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}
	if all[0].ID != "req-4" || all[3].ID != "req-1" {
		t.Fatalf("expected newest first, got %s..%s", all[0].ID, all[3].ID)
	}

	pending, err := store.List(ctx, Filter{Status: StatusPending})
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 || pending[0].ID != "req-3" || pending[1].ID != "req-1" {
		t.Fatalf("unexpected pending listing %+v", pending)
	}

	window, err := store.List(ctx, Filter{
		Since: base.Add(time.Minute),
		Until: base.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 2 || window[0].ID != "req-3" || window[1].ID != "req-2" {
		t.Fatalf("unexpected window listing %+v", window)
	}
}

func TestMemoryArtifactStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryArtifactStore()
	now := testNow()

	ref, err := store.Put(ctx, "letters/req-1.pdf", bytes.NewBufferString("%PDF-1.4 body"), ArtifactMeta{
		ContentType: "application/pdf",
		Filename:    "offer_req-1.pdf",
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if ref.Meta.Size != int64(len("%PDF-1.4 body")) {
		t.Fatalf("expected size %d, got %d", len("%PDF-1.4 body"), ref.Meta.Size)
	}

	rc, meta, err := store.Open(ctx, "letters/req-1.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 body" {
		t.Fatalf("unexpected payload %q", data)
	}
	if meta.Filename != "offer_req-1.pdf" || !meta.CreatedAt.Equal(now) {
		t.Fatalf("unexpected meta %+v", meta)
	}

	if _, err := store.Put(ctx, "", bytes.NewReader(nil), ArtifactMeta{}); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error for empty key, got %v", err)
	}

	if err := store.Delete(ctx, "letters/req-1.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := store.Open(ctx, "letters/req-1.pdf"); KindFromError(err) != KindNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	if _, err := store.SignedURL(ctx, "letters/req-1.pdf", time.Minute); KindFromError(err) != KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}
