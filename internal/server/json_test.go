package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"single object", `{"sender":"Ana","text":"lima"}`, false},
		{"trailing whitespace", "{\"text\":\"lima\"}\n", false},
		{"two objects", `{"text":"a"}{"text":"b"}`, true},
		{"not json", `lima`, true},
		{"empty", ``, true},
		{"too large", `{"text":"` + strings.Repeat("x", maxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var req ChatMessageRequest
			err := readJSON(httptest.NewRecorder(), r, &req)
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
