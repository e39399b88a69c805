package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mannuking/Project-Radius/internal/invoice"
	"github.com/mannuking/Project-Radius/internal/platform/httpx"
	"github.com/mannuking/Project-Radius/internal/policy"
)

type fakeSource struct {
	records []invoice.Record
	calls   int
}

func (f *fakeSource) List(_ context.Context, filter invoice.Filter) ([]invoice.Record, error) {
	f.calls++
	if filter.AssignedUserID == uuid.Nil {
		return f.records, nil
	}
	var out []invoice.Record
	for _, r := range f.records {
		if r.AssignedUserID == filter.AssignedUserID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeDirectory struct {
	names map[uuid.UUID]string
}

func (f *fakeDirectory) DisplayNames(_ context.Context) (map[uuid.UUID]string, error) {
	return f.names, nil
}

func (f *fakeDirectory) IDByName(_ context.Context, name string) (uuid.UUID, error) {
	for id, n := range f.names {
		if n == name {
			return id, nil
		}
	}
	return uuid.Nil, httpx.ErrNotFound
}

func newTestService(t *testing.T, records []invoice.Record, names map[uuid.UUID]string) (*Service, *fakeSource) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	source := &fakeSource{records: records}
	svc := NewService(source, &fakeDirectory{names: names}, NewCache(client, time.Minute), slog.New(slog.DiscardHandler))
	svc.now = func() time.Time { return asOf }
	return svc, source
}

func TestSummaryCachesRenderedViews(t *testing.T) {
	collector := uuid.New()
	records := []invoice.Record{rec("Acme", 500, invoice.StatusOverdue, 40)}
	records[0].AssignedUserID = collector
	svc, source := newTestService(t, records, map[uuid.UUID]string{collector: "Jane"})

	p := policy.Principal{ID: uuid.New(), Role: policy.RoleDirector}

	first, err := svc.Summary(context.Background(), p, Request{View: ViewManager})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)

	second, err := svc.Summary(context.Background(), p, Request{View: ViewManager})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls, "second request served from cache")

	want, err := json.Marshal(first)
	require.NoError(t, err)
	got, err := json.Marshal(second)
	require.NoError(t, err)
	require.JSONEq(t, string(want), string(got))

	require.NoError(t, svc.Invalidate(context.Background()))
	_, err = svc.Summary(context.Background(), p, Request{View: ViewManager})
	require.NoError(t, err)
	require.Equal(t, 2, source.calls, "invalidation forces a rebuild")
}

func TestSummaryPinsScopedRoles(t *testing.T) {
	collector := uuid.New()
	records := []invoice.Record{rec("Acme", 500, invoice.StatusOverdue, 40)}
	records[0].AssignedUserID = collector
	svc, _ := newTestService(t, records, map[uuid.UUID]string{collector: "Jane"})

	p := policy.Principal{ID: collector, Role: policy.RoleCollector}

	_, err := svc.Summary(context.Background(), p, Request{View: ViewAdmin})
	require.ErrorIs(t, err, httpx.ErrForbidden)

	summary, err := svc.Summary(context.Background(), p, Request{})
	require.NoError(t, err)
	payload, err := json.Marshal(summary)
	require.NoError(t, err)

	var got CollectorSummary
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, 1, got.TotalAssigned)
}

func TestSummaryDirectorCanInspectAnyBook(t *testing.T) {
	collector := uuid.New()
	other := uuid.New()
	records := []invoice.Record{
		rec("Acme", 500, invoice.StatusOverdue, 40),
		rec("Globex", 300, invoice.StatusOverdue, 70),
	}
	records[0].AssignedUserID = collector
	records[1].AssignedUserID = other
	svc, _ := newTestService(t, records, map[uuid.UUID]string{collector: "Jane", other: "Ravi"})

	p := policy.Principal{ID: uuid.New(), Role: policy.RoleDirector}

	summary, err := svc.Summary(context.Background(), p, Request{View: ViewCollector, Subject: "Jane"})
	require.NoError(t, err)
	payload, err := json.Marshal(summary)
	require.NoError(t, err)

	var got CollectorSummary
	require.NoError(t, json.Unmarshal(payload, &got))
	require.Equal(t, 1, got.TotalAssigned)
	require.Equal(t, 500.0, got.TotalAssignedAmount)

	_, err = svc.Summary(context.Background(), p, Request{View: ViewCollector})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Summary(context.Background(), p, Request{View: ViewCollector, Subject: "Nobody"})
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestSummaryRejectsUnknownView(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	p := policy.Principal{ID: uuid.New(), Role: policy.RoleDirector}

	_, err := svc.Summary(context.Background(), p, Request{View: View("galactic")})
	require.ErrorIs(t, err, httpx.ErrValidation)
}
