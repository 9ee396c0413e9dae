package feedbackhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type errorResponse struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details struct {
			Fields []struct {
				Field  string `json:"field"`
				Reason string `json:"reason"`
			} `json:"fields"`
		} `json:"details"`
	} `json:"error"`
}

func TestHandleCreateRejectsMalformedJSON(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedbacks", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "invalid_payload" {
		t.Fatalf("expected invalid_payload, got %q", resp.Error.Code)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name:       "missing everything",
			body:       `{}`,
			wantFields: []string{"colaborador_id", "tipo_feedback", "contexto", "impacto", "expectativa"},
		},
		{
			name:       "unknown feedback type",
			body:       `{"colaborador_id":"c1","tipo_feedback":"Conversa","contexto":"x","impacto":"y","expectativa":"z"}`,
			wantFields: []string{"tipo_feedback"},
		},
		{
			name:       "bad next feedback date",
			body:       `{"colaborador_id":"c1","tipo_feedback":"1:1","contexto":"x","impacto":"y","expectativa":"z","data_proximo_feedback":"31/12/2026"}`,
			wantFields: []string{"data_proximo_feedback"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/feedbacks", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.HandleCreate(rec, req)

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
			got := map[string]bool{}
			for _, issue := range resp.Error.Details.Fields {
				got[issue.Field] = true
			}
			for _, field := range tc.wantFields {
				if !got[field] {
					t.Fatalf("expected issue for %q, got %+v", field, resp.Error.Details.Fields)
				}
			}
		})
	}
}
