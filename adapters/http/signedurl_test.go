package letterhttp

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	storefs "github.com/goliatone/go-letters/adapters/store/fs"
	"github.com/goliatone/go-letters/letter"
)

type stubSigner struct{}

func (stubSigner) SignURL(input storefs.SignedURLInput) (string, error) {
	return fmt.Sprintf("%s/%s?expires=%d", input.BaseURL, input.Key, input.ExpiresAt.Unix()), nil
}

func TestHandler_SignedLetterRedirect(t *testing.T) {
	artifacts := storefs.NewStore(t.TempDir())
	artifacts.BaseURL = "https://letters.example.test"
	artifacts.Signer = stubSigner{}
	artifacts.Now = func() time.Time { return handlerTestNow }

	svc, _ := newTestService(func(cfg *letter.ServiceConfig) {
		cfg.Artifacts = artifacts
	})
	handler := newTestHandler(Config{
		Service:      svc,
		Artifacts:    artifacts,
		SignedURLTTL: time.Minute,
	})

	submitted := submitRequest(t, handler, submitPayload)
	approveReq := httptest.NewRequest(http.MethodPost, "/requests/"+submitted.ID+"/approve", nil)
	approveRec := httptest.NewRecorder()
	handler.ServeHTTP(approveRec, approveReq)
	if approveRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", approveRec.Code, approveRec.Body.String())
	}

	letterReq := httptest.NewRequest(http.MethodGet, "/requests/"+submitted.ID+"/letter", nil)
	letterRec := httptest.NewRecorder()
	handler.ServeHTTP(letterRec, letterReq)
	if letterRec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", letterRec.Code)
	}
	location := letterRec.Header().Get("Location")
	want := "https://letters.example.test/letters/" + submitted.ID + ".pdf?expires="
	if !strings.HasPrefix(location, want) {
		t.Fatalf("expected signed location prefix %q, got %q", want, location)
	}
}

func TestHandler_UnsignedStoreFallsBackToStream(t *testing.T) {
	artifacts := storefs.NewStore(t.TempDir())

	svc, _ := newTestService(func(cfg *letter.ServiceConfig) {
		cfg.Artifacts = artifacts
	})
	handler := newTestHandler(Config{
		Service:      svc,
		Artifacts:    artifacts,
		SignedURLTTL: time.Minute,
	})

	submitted := submitRequest(t, handler, submitPayload)
	approveReq := httptest.NewRequest(http.MethodPost, "/requests/"+submitted.ID+"/approve", nil)
	handler.ServeHTTP(httptest.NewRecorder(), approveReq)

	letterReq := httptest.NewRequest(http.MethodGet, "/requests/"+submitted.ID+"/letter", nil)
	letterRec := httptest.NewRecorder()
	handler.ServeHTTP(letterRec, letterReq)
	if letterRec.Code != http.StatusOK {
		t.Fatalf("expected streamed letter, got %d", letterRec.Code)
	}
	if !strings.HasPrefix(letterRec.Body.String(), "%PDF-1.4") {
		t.Fatalf("expected pdf payload, got %q", letterRec.Body.String())
	}
}
