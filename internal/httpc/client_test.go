package httpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte(`{"phase":"peace"}`))
	}))
	defer srv.Close()

	var got struct{ Phase string }
	if err := GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if got.Phase != "peace" {
		t.Errorf("Phase = %q, want peace", got.Phase)
	}
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body map[string]float64
		json.NewDecoder(r.Body).Decode(&body)
		json.NewEncoder(w).Encode(map[string]float64{"echo": body["base_noise"]})
	}))
	defer srv.Close()

	var got map[string]float64
	if err := PostJSON(context.Background(), srv.URL, map[string]float64{"base_noise": 0.3}, &got); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if got["echo"] != 0.3 {
		t.Errorf("echo = %v, want 0.3", got["echo"])
	}

	if err := PostJSON(context.Background(), srv.URL, map[string]float64{}, nil); err != nil {
		t.Errorf("PostJSON with nil result: %v", err)
	}
}

func TestStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad tuning", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := GetJSON(context.Background(), srv.URL, nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want StatusError", err)
	}
	if se.Code != 400 || se.Body != "bad tuning" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestNewClientTimeout(t *testing.T) {
	if Client.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", Client.Timeout, DefaultTimeout)
	}
}
