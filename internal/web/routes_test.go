package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankdesk/bank-console/pkg/transactions"
)

type fakeLister struct {
	mu    sync.Mutex
	calls [][2]int
	txs   []transactions.Transaction
	err   error
}

func (f *fakeLister) List(_ context.Context, page, size int) ([]transactions.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]int{page, size})
	return f.txs, f.err
}

func (f *fakeLister) seen() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][2]int(nil), f.calls...)
}

func newTestServer(t *testing.T, lister *fakeLister) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(Routes(NewListView(lister, nil)), nil))
	t.Cleanup(srv.Close)
	return srv
}

func getDocument(t *testing.T, url string) (*http.Response, *goquery.Document) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return resp, doc
}

func TestRouteTableHasOnlyRootList(t *testing.T) {
	view := NewListView(&fakeLister{}, nil)
	routes := Routes(view)

	require.Len(t, routes, 1)
	assert.Equal(t, "/", routes[0].Path)
	assert.Equal(t, RouteTransactionList, routes[0].Name)
	assert.Same(t, view, routes[0].Handler)
}

func TestRootResolvesToListView(t *testing.T) {
	router := NewRouter(Routes(NewListView(&fakeLister{}, nil)), nil)

	var match mux.RouteMatch
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.True(t, router.Match(req, &match))
	assert.Equal(t, RouteTransactionList, match.Route.GetName())
	_, isList := match.Route.GetHandler().(*ListView)
	assert.True(t, isList)

	assert.False(t, router.Match(httptest.NewRequest(http.MethodGet, "/transactions", nil), &mux.RouteMatch{}))
}

func TestListViewRendersTransactions(t *testing.T) {
	id := uuid.MustParse("7b1c3f9e-5a7d-4c1e-9a0b-2f6d8e4c1a11")
	lister := &fakeLister{txs: []transactions.Transaction{{
		ID:            uuid.NullUUID{UUID: id, Valid: true},
		Type:          transactions.TypeTransfer,
		Status:        transactions.StatusProcessing,
		Amount:        decimal.RequireFromString("12.5"),
		Currency:      transactions.CurrencyEUR,
		AccountNumber: "6222",
		UserName:      "<carol>",
		Channel:       transactions.ChannelATM,
		UpdatedAt:     transactions.NewLocalTime(time.Date(2025, 2, 3, 4, 5, 6, 0, time.Local)),
	}}}
	srv := newTestServer(t, lister)

	resp, doc := getDocument(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	rows := doc.Find("tr.transaction")
	require.Equal(t, 1, rows.Length())
	assert.Equal(t, id.String(), rows.Find("td.id").Text())
	assert.Equal(t, "12.50", rows.Find("td.amount").Text())
	assert.Equal(t, "<carol>", rows.Find("td.user").Text())
	assert.Equal(t, "2025-02-03 04:05:06", rows.Find("td.updated").Text())
	assert.Zero(t, doc.Find(".notice").Length())
	assert.Zero(t, doc.Find(`a[rel="prev"]`).Length())

	assert.Equal(t, [][2]int{{1, 10}}, lister.seen())
}

func TestListViewForwardsPaging(t *testing.T) {
	lister := &fakeLister{}
	srv := newTestServer(t, lister)

	_, doc := getDocument(t, srv.URL+"/?page=3&size=25")
	assert.Equal(t, [][2]int{{3, 25}}, lister.seen())
	assert.Equal(t, 1, doc.Find("tr.empty").Length())

	prev, _ := doc.Find(`a[rel="prev"]`).Attr("href")
	next, _ := doc.Find(`a[rel="next"]`).Attr("href")
	assert.Equal(t, "/?page=2&size=25", prev)
	assert.Equal(t, "/?page=4&size=25", next)
}

func TestListViewFallsBackOnBadPaging(t *testing.T) {
	lister := &fakeLister{}
	srv := newTestServer(t, lister)

	getDocument(t, srv.URL+"/?page=abc&size=")
	assert.Equal(t, [][2]int{{1, 10}}, lister.seen())
}

func TestListViewShowsNoticeOnError(t *testing.T) {
	lister := &fakeLister{err: errors.New("backend down")}
	srv := newTestServer(t, lister)

	resp, doc := getDocument(t, srv.URL+"/")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, doc.Find(".notice").Text(), "backend down")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv := newTestServer(t, &fakeLister{})

	resp, err := http.Get(srv.URL + "/admin")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRequestIDIsPreserved(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetRequestID(r.Context())))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", rec.Body.String())
	assert.Equal(t, "unknown", GetRequestID(context.Background()))
}
