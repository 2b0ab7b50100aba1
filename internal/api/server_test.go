package api

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/requests"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		query string
		want  time.Duration
	}{
		{"", 24 * time.Hour},
		{"window=1h", time.Hour},
		{"window=7d", 7 * 24 * time.Hour},
		{"window=90m", 90 * time.Minute},
		{"window=-5m", 24 * time.Hour},
		{"window=garbage", 24 * time.Hour},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/api/v1/journal?"+tt.query, nil)
		if got := parseWindow(r); got != tt.want {
			t.Errorf("parseWindow(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestParseInt(t *testing.T) {
	if got := parseInt("", 50); got != 50 {
		t.Errorf("parseInt(\"\") = %d, want 50", got)
	}
	if got := parseInt("25", 50); got != 25 {
		t.Errorf("parseInt(25) = %d, want 25", got)
	}
	if got := parseInt("-3", 50); got != 50 {
		t.Errorf("parseInt(-3) = %d, want 50", got)
	}
	if got := parseInt("1e3", 50); got != 50 {
		t.Errorf("parseInt(1e3) = %d, want 50", got)
	}
}

func TestNewStateResponse(t *testing.T) {
	loading := NewStateResponse("s1", dashboard.Initial())
	if loading.List != "loading" || loading.Records != nil {
		t.Errorf("loading response = %+v", loading)
	}
	if loading.Errors == nil {
		t.Error("Errors should never be nil")
	}

	failed := NewStateResponse("s1", dashboard.Reduce(dashboard.Initial(), dashboard.ActionListFailed{Err: errors.New("boom")}))
	if failed.List != "failed" || failed.Error != "boom" || failed.Records != nil {
		t.Errorf("failed response = %+v", failed)
	}

	rec := requests.Record{ID: requests.NumberScalar(1), Classification: requests.ClassificationPending}
	st := dashboard.Reduce(dashboard.Initial(), dashboard.ActionListLoaded{Records: []requests.Record{rec}})
	st = dashboard.Reduce(st, dashboard.ActionSelectRequest{Record: &rec})
	loaded := NewStateResponse("s1", st)
	if loaded.List != "loaded" || len(loaded.Records) != 1 || loaded.Selected == nil {
		t.Errorf("loaded response = %+v", loaded)
	}
	if loaded.Metrics.Pending != 1 {
		t.Errorf("Metrics.Pending = %d, want 1", loaded.Metrics.Pending)
	}
}
