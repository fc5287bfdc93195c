package handlers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   bool
	}{
		{
			name:   "site-local path",
			target: "/matchmaking",
			want:   true,
		},
		{
			name:   "root",
			target: "/",
			want:   true,
		},
		{
			name:   "empty",
			target: "",
			want:   false,
		},
		{
			name:   "absolute URL",
			target: "https://evil.example/phish",
			want:   false,
		},
		{
			name:   "protocol-relative URL",
			target: "//evil.example/phish",
			want:   false,
		},
		{
			name:   "relative path",
			target: "matchmaking",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isLocalPath(tt.target); got != tt.want {
				t.Errorf("isLocalPath(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestRedirectBack(t *testing.T) {
	tests := []struct {
		name     string
		returnTo string
		want     string
	}{
		{
			name:     "local path is honored",
			returnTo: "/matchmaking?child=3",
			want:     "/matchmaking?child=3",
		},
		{
			name:     "protocol-relative target falls back",
			returnTo: "//evil.example/phish",
			want:     "/matches",
		},
		{
			name:     "missing target falls back",
			returnTo: "",
			want:     "/matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := url.Values{}
			if tt.returnTo != "" {
				form.Set("return_to", tt.returnTo)
			}
			r := httptest.NewRequest("POST", "/likes", strings.NewReader(form.Encode()))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()

			redirectBack(w, r, "/matches")

			if got := w.Header().Get("Location"); got != tt.want {
				t.Errorf("Location = %q, want %q", got, tt.want)
			}
		})
	}
}
