package devserver

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteErrorPage_IncludesLiveReload(t *testing.T) {
	rr := httptest.NewRecorder()
	writeErrorPage(rr, 500, "render failed", "boom")

	if rr.Code != 500 {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "boom") {
		t.Errorf("expected message in body, got %s", body)
	}
	if !strings.Contains(body, "RELOAD") {
		t.Errorf("expected live-reload script in body, got %s", body)
	}
}
