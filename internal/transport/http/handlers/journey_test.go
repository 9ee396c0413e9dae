package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"feedbackhub/internal/app/server"
	"feedbackhub/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:                   ":0",
		DatabaseURL:            dbURL,
		JWTSecret:              "test-secret",
		TokenTTL:               time.Hour,
		Environment:            "test",
		SeedDemoData:           true,
		SeedAdminEmail:         "admin@test.local",
		SeedAdminPassword:      "ChangeMe123!",
		SeedGestorEmail:        "gestor@test.local",
		SeedGestorPassword:     "ChangeMe123!",
		SeedColabEmail:         "colab@test.local",
		SeedColabPassword:      "ChangeMe123!",
		EmailFrom:              "no-reply@test.local",
		RunMigrations:          true,
		MigrationsDir:          "../../../../migrations",
		RunSeed:                true,
		MaxBodyBytes:           1048576,
		RateLimitPerMinute:     1000,
		DeadlineLookaheadDays:  7,
		AcknowledgeGraceDays:   30,
		DefaultFeedbackCadence: 30,
	}
}

func do(t *testing.T, client *http.Client, method, url, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var env envelope
	if resp.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode, env
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) (token, userID string) {
	t.Helper()
	status, env := do(t, client, http.MethodPost, baseURL+"/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d", email, status)
	}
	var payload struct {
		AccessToken string `json:"access_token"`
		Usuario     struct {
			ID string `json:"id"`
		} `json:"usuario"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	return payload.AccessToken, payload.Usuario.ID
}

func TestFeedbackLifecycleJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()
	client := ts.Client()

	adminToken, _ := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	gestorToken, _ := login(t, client, ts.URL, cfg.SeedGestorEmail, cfg.SeedGestorPassword)
	colabToken, colabID := login(t, client, ts.URL, cfg.SeedColabEmail, cfg.SeedColabPassword)

	// A fresh feedback awaits acknowledgement.
	status, env := do(t, client, http.MethodPost, ts.URL+"/api/v1/feedbacks", gestorToken, map[string]any{
		"colaborador_id": colabID,
		"tipo_feedback":  "1:1",
		"contexto":       "Sprint review da última quinzena",
		"impacto":        "Entregas consistentes",
		"expectativa":    "Manter o ritmo",
		"pontos_fortes":  []string{"Comunicação"},
	})
	if status != http.StatusCreated {
		t.Fatalf("create feedback: status %d", status)
	}
	var fb struct {
		ID             string `json:"id"`
		StatusFeedback string `json:"status_feedback"`
	}
	if err := json.Unmarshal(env.Data, &fb); err != nil {
		t.Fatalf("decode feedback: %v", err)
	}
	if fb.StatusFeedback != "Aguardando ciência" {
		t.Fatalf("expected new feedback awaiting acknowledgement, got %q", fb.StatusFeedback)
	}

	// The collaborator sees it and gets an in-app notification.
	status, env = do(t, client, http.MethodGet, ts.URL+"/api/v1/notifications", colabToken, nil)
	if status != http.StatusOK {
		t.Fatalf("list notifications: status %d", status)
	}
	var notifs []struct {
		Tipo string `json:"tipo"`
	}
	if err := json.Unmarshal(env.Data, &notifs); err != nil {
		t.Fatalf("decode notifications: %v", err)
	}
	found := false
	for _, n := range notifs {
		if n.Tipo == "novo_feedback" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a novo_feedback notification")
	}

	// Acknowledging twice keeps the first timestamp.
	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/feedbacks/"+fb.ID+"/acknowledge", colabToken, nil)
	if status != http.StatusOK {
		t.Fatalf("acknowledge: status %d", status)
	}
	var acked struct {
		StatusFeedback string `json:"status_feedback"`
		DataCiencia    string `json:"data_ciencia"`
	}
	if err := json.Unmarshal(env.Data, &acked); err != nil {
		t.Fatalf("decode acknowledge: %v", err)
	}
	if acked.StatusFeedback != "Em dia" {
		t.Fatalf("expected Em dia after acknowledgement, got %q", acked.StatusFeedback)
	}
	firstCiencia := acked.DataCiencia

	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/feedbacks/"+fb.ID+"/acknowledge", colabToken, nil)
	if status != http.StatusOK {
		t.Fatalf("second acknowledge: status %d", status)
	}
	if err := json.Unmarshal(env.Data, &acked); err != nil {
		t.Fatalf("decode second acknowledge: %v", err)
	}
	if acked.DataCiencia != firstCiencia {
		t.Fatalf("acknowledgement timestamp changed: %q vs %q", acked.DataCiencia, firstCiencia)
	}

	// Collaborators cannot delete feedback.
	status, _ = do(t, client, http.MethodDelete, ts.URL+"/api/v1/feedbacks/"+fb.ID, colabToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for collaborator delete, got %d", status)
	}

	// A newer feedback whose next date already passed becomes sweep fodder.
	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/feedbacks", gestorToken, map[string]any{
		"colaborador_id":        colabID,
		"tipo_feedback":         "Correção de Rota",
		"contexto":              "Prazo do projeto estourou",
		"impacto":               "Atraso na entrega do cliente",
		"expectativa":           "Replanejar o cronograma",
		"data_proximo_feedback": "2020-01-01",
	})
	if status != http.StatusCreated {
		t.Fatalf("create overdue feedback: status %d", status)
	}
	var overdue struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &overdue); err != nil {
		t.Fatalf("decode overdue feedback: %v", err)
	}

	// Action plan: three of four items done is 75% and underway.
	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/action-plans", gestorToken, map[string]any{
		"feedback_id": overdue.ID,
		"objetivo":    "Recuperar o cronograma",
		"prazo_final": time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02"),
		"responsavel": "Ambos",
	})
	if status != http.StatusCreated {
		t.Fatalf("create plan: status %d", status)
	}
	var plan struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Status != "Não iniciado" {
		t.Fatalf("expected new plan Não iniciado, got %q", plan.Status)
	}

	// A feedback can carry more than one plan.
	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/action-plans", gestorToken, map[string]any{
		"feedback_id": overdue.ID,
		"objetivo":    "Revisar a comunicação com o cliente",
		"prazo_final": time.Now().UTC().AddDate(0, 2, 0).Format("2006-01-02"),
		"responsavel": "Gestor",
	})
	if status != http.StatusCreated {
		t.Fatalf("create second plan: status %d", status)
	}
	var secondPlan struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &secondPlan); err != nil {
		t.Fatalf("decode second plan: %v", err)
	}

	itemIDs := make([]string, 0, 4)
	for i := 1; i <= 4; i++ {
		status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/action-plan-items", gestorToken, map[string]any{
			"plano_de_acao_id": plan.ID,
			"descricao":        fmt.Sprintf("Ação %d", i),
		})
		if status != http.StatusCreated {
			t.Fatalf("create item %d: status %d", i, status)
		}
		var item struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &item); err != nil {
			t.Fatalf("decode item: %v", err)
		}
		itemIDs = append(itemIDs, item.ID)
	}

	for _, itemID := range itemIDs[:3] {
		status, _ = do(t, client, http.MethodPut, ts.URL+"/api/v1/action-plan-items/"+itemID, colabToken, map[string]any{
			"concluido": true,
		})
		if status != http.StatusOK {
			t.Fatalf("complete item: status %d", status)
		}
	}

	status, env = do(t, client, http.MethodGet, ts.URL+"/api/v1/action-plans/"+plan.ID, gestorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("get plan: status %d", status)
	}
	var derived struct {
		Status              string `json:"status"`
		ProgressoPercentual int    `json:"progresso_percentual"`
	}
	if err := json.Unmarshal(env.Data, &derived); err != nil {
		t.Fatalf("decode derived plan: %v", err)
	}
	if derived.ProgressoPercentual != 75 || derived.Status != "Em andamento" {
		t.Fatalf("expected 75%% Em andamento, got %d%% %q", derived.ProgressoPercentual, derived.Status)
	}

	status, _ = do(t, client, http.MethodPost, ts.URL+"/api/v1/checkins", colabToken, map[string]any{
		"plano_de_acao_id": plan.ID,
		"progresso":        "Bom",
		"comentario":       "Três ações concluídas",
	})
	if status != http.StatusCreated {
		t.Fatalf("create checkin: status %d", status)
	}

	// Sweep is idempotent within the day.
	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/notifications/check-overdue", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("first sweep: status %d", status)
	}
	var sweep struct {
		NotificationsSent struct {
			OverdueFeedbacks     int `json:"overdue_feedbacks"`
			ApproachingDeadlines int `json:"approaching_deadlines"`
		} `json:"notifications_sent"`
	}
	if err := json.Unmarshal(env.Data, &sweep); err != nil {
		t.Fatalf("decode sweep: %v", err)
	}
	if sweep.NotificationsSent.OverdueFeedbacks < 1 {
		t.Fatalf("expected at least one overdue notification, got %d", sweep.NotificationsSent.OverdueFeedbacks)
	}

	// The swept notification must actually land in the gestor's inbox.
	status, env = do(t, client, http.MethodGet, ts.URL+"/api/v1/notifications", gestorToken, nil)
	if status != http.StatusOK {
		t.Fatalf("gestor notifications: status %d", status)
	}
	var gestorNotifs []struct {
		Tipo string `json:"tipo"`
	}
	if err := json.Unmarshal(env.Data, &gestorNotifs); err != nil {
		t.Fatalf("decode gestor notifications: %v", err)
	}
	foundOverdueNotif := false
	for _, n := range gestorNotifs {
		if n.Tipo == "feedback_atrasado" {
			foundOverdueNotif = true
		}
	}
	if !foundOverdueNotif {
		t.Fatal("expected a feedback_atrasado notification for the gestor")
	}

	status, env = do(t, client, http.MethodPost, ts.URL+"/api/v1/notifications/check-overdue", adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("second sweep: status %d", status)
	}
	if err := json.Unmarshal(env.Data, &sweep); err != nil {
		t.Fatalf("decode second sweep: %v", err)
	}
	if sweep.NotificationsSent.OverdueFeedbacks != 0 || sweep.NotificationsSent.ApproachingDeadlines != 0 {
		t.Fatalf("expected second sweep to send nothing, got %+v", sweep.NotificationsSent)
	}

	// Deleting the feedback takes the plan, items, and check-ins with it.
	status, _ = do(t, client, http.MethodDelete, ts.URL+"/api/v1/feedbacks/"+overdue.ID, adminToken, nil)
	if status != http.StatusOK {
		t.Fatalf("admin delete feedback: status %d", status)
	}
	status, _ = do(t, client, http.MethodGet, ts.URL+"/api/v1/action-plans/"+plan.ID, adminToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected cascaded plan delete, got %d", status)
	}
	status, _ = do(t, client, http.MethodGet, ts.URL+"/api/v1/action-plans/"+secondPlan.ID, adminToken, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected second plan to cascade too, got %d", status)
	}
}
