//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
)

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// call issues a JSON request and decodes the JSON response body.
func call(t *testing.T, method, url string, payload interface{}) (int, map[string]interface{}) {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response from %s %s: %v", method, url, err)
	}
	return resp.StatusCode, out
}

func expectFailure(t *testing.T, status int, out map[string]interface{}, want int, message string) {
	t.Helper()
	if status != want {
		t.Fatalf("expected %d, got %d: %v", want, status, out)
	}
	if out["success"] != false {
		t.Fatalf("expected success=false, got %v", out["success"])
	}
	if out["message"] != message {
		t.Fatalf("expected message %q, got %v", message, out["message"])
	}
}
