package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recurring-planner/internal/model"
)

type projectsStub map[uint]model.Project

func (p projectsStub) ListByIDs(ctx context.Context, ids []uint) (map[uint]model.Project, error) {
	return p, nil
}

func due(y int, m time.Month, d int) *time.Time {
	v := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &v
}

func TestFormatDigest(t *testing.T) {
	tasks := []model.Task{
		{ProjectID: 1, Title: "Review <PRs>", DueDate: due(2024, 1, 5)},
		{ProjectID: 2, Title: "Standup", DueDate: due(2024, 1, 4), StartTime: "09:00", EndTime: "09:15"},
		{ProjectID: 1, Title: "Someday"},
	}
	got := FormatDigest(tasks, map[uint]string{1: "Ops & Infra"}, time.UTC)

	assert.True(t, strings.HasPrefix(got, "♻️ <b>Recurring tasks created: 3</b>"))
	assert.Contains(t, got, "Review &lt;PRs&gt; <i>(Ops &amp; Infra)</i>")
	assert.Contains(t, got, "⏰ due 2024-01-04 · 09:00–09:15")
	assert.Less(t, strings.Index(got, "Standup"), strings.Index(got, "Review"))
	assert.Less(t, strings.Index(got, "Review"), strings.Index(got, "Someday"))
}

func TestFormatDigest_Truncates(t *testing.T) {
	tasks := make([]model.Task, maxDigestItems+5)
	for i := range tasks {
		tasks[i] = model.Task{Title: "t", DueDate: due(2024, 1, 1)}
	}
	got := FormatDigest(tasks, nil, time.UTC)
	assert.Contains(t, got, "…and 5 more")
	assert.Equal(t, maxDigestItems, strings.Count(got, "🟢"))
}

// fakeTelegram answers getMe and records sendMessage calls.
type fakeTelegram struct {
	mu   sync.Mutex
	sent []map[string]string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/getMe"):
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"planner","username":"planner_bot"}}`))
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		_ = r.ParseForm()
		f.mu.Lock()
		f.sent = append(f.sent, map[string]string{
			"chat_id":    r.FormValue("chat_id"),
			"text":       r.FormValue("text"),
			"parse_mode": r.FormValue("parse_mode"),
		})
		f.mu.Unlock()
		resp := map[string]any{"ok": true, "result": map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 42}}}
		_ = json.NewEncoder(w).Encode(resp)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
	}
}

func TestNotifier_SendsDigest(t *testing.T) {
	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	n, err := New("123:abc", srv.URL+"/bot%s/%s", 42, projectsStub{1: {ID: 1, Name: "Platform"}}, time.UTC, nil)
	require.NoError(t, err)

	require.NoError(t, n.NotifyGenerated(context.Background(), nil))
	require.NoError(t, n.NotifyGenerated(context.Background(), []model.Task{{ProjectID: 1, Title: "Backup", DueDate: due(2024, 1, 4)}}))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.sent, 1)
	assert.Equal(t, "42", fake.sent[0]["chat_id"])
	assert.Equal(t, "HTML", fake.sent[0]["parse_mode"])
	assert.Contains(t, fake.sent[0]["text"], "Backup <i>(Platform)</i>")
}
