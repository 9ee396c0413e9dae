package actionplanhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func TestHandleAddCheckinValidation(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing plan", `{"progresso":"Bom","comentario":"ok"}`, "plano_de_acao_id"},
		{"missing progress", `{"plano_de_acao_id":"p1","comentario":"ok"}`, "progresso"},
		{"invalid progress rating", `{"plano_de_acao_id":"p1","progresso":"Excelente","comentario":"ok"}`, "progresso"},
		{"empty comment", `{"plano_de_acao_id":"p1","progresso":"Bom","comentario":""}`, "comentario"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.HandleAddCheckin(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			var resp errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Error.Code != "validation_error" {
				t.Fatalf("expected validation_error, got %q", resp.Error.Code)
			}
			found := false
			for _, issue := range resp.Error.Details.Fields {
				if issue.Field == tc.wantField {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected issue for %q, got %+v", tc.wantField, resp.Error.Details.Fields)
			}
		})
	}
}

func TestHandleCreateValidation(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/action-plans", strings.NewReader(`{"responsavel":"Todos"}`))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	want := map[string]bool{"feedback_id": false, "objetivo": false, "prazo_final": false, "responsavel": false}
	for _, issue := range resp.Error.Details.Fields {
		want[issue.Field] = true
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected issue for %q", field)
		}
	}
}
