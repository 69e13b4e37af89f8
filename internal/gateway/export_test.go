package gateway

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ayo6706/terminal-country-switch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBatchRecord(t *testing.T) {
	body := []byte("E1,T1,ID1\nE2,T2,ID2")

	rec, ok, err := FindBatchRecord(body, "ID2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "E2", rec.EMID)
	assert.Equal(t, "T2", rec.TerminalID)
	assert.Equal(t, "ID2", rec.Identification)

	_, ok, err = FindBatchRecord(body, "NOPE")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindBatchRecordSkipsBlankAndShortLines(t *testing.T) {
	body := []byte("\r\n  \nE0,T0\nbroken\r\n E1 , T1 , ID1 ,extra\r\nE2,T2,ID1\n")

	rec, ok, err := FindBatchRecord(body, "ID1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "E1", rec.EMID, "first match in file order wins")
	assert.Equal(t, "T1", rec.TerminalID)
}

func TestFindBatchRecordIsCaseSensitive(t *testing.T) {
	_, ok, err := FindBatchRecord([]byte("E1,T1,id1"), "ID1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func withResponseCap(t *testing.T, n int) {
	t.Helper()
	prev := maxResponseBytes
	maxResponseBytes = n
	t.Cleanup(func() { maxResponseBytes = prev })
}

func exportRows(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "E%d,T%d,ID%d\r\n", i, i, i)
	}
	return b.String()
}

func TestFindBatchRecordScansWholeBody(t *testing.T) {
	body := []byte(exportRows(200000) + "EMATCH,TMATCH,WANTED\n")
	require.Greater(t, len(body), 4<<20)

	rec, ok, err := FindBatchRecord(body, "WANTED")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "EMATCH", rec.EMID)
}

func TestFindBatchRecordLineTooLong(t *testing.T) {
	withResponseCap(t, 32)

	_, ok, err := FindBatchRecord([]byte("E1,T1,"+strings.Repeat("9", 64)+"\nE2,T2,ID2\n"), "ID2")
	require.Error(t, err)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.False(t, ok)
}

func TestExportDateWindow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		from string
		to   string
	}{
		{
			name: "standard_time_evening_is_previous_utc_day",
			now:  time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC),
			from: "01/14/2024",
			to:   "01/16/2024",
		},
		{
			name: "daylight_time_uses_minus_four",
			now:  time.Date(2024, 7, 1, 4, 30, 0, 0, time.UTC),
			from: "06/30/2024",
			to:   "07/02/2024",
		},
		{
			name: "before_spring_forward",
			now:  time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC),
			from: "03/08/2024",
			to:   "03/10/2024",
		},
		{
			name: "after_spring_forward",
			now:  time.Date(2024, 3, 10, 7, 30, 0, 0, time.UTC),
			from: "03/09/2024",
			to:   "03/11/2024",
		},
		{
			name: "fall_back_day",
			now:  time.Date(2024, 11, 3, 4, 30, 0, 0, time.UTC),
			from: "11/02/2024",
			to:   "11/04/2024",
		},
		{
			name: "year_boundary",
			now:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
			from: "12/31/2024",
			to:   "01/02/2025",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			from, to := ExportDateWindow(tc.now)
			assert.Equal(t, tc.from, from)
			assert.Equal(t, tc.to, to)
		})
	}
}

func TestLocateBatchPostsExportForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "key", r.PostForm.Get("ClientKey"))
		assert.Equal(t, "secret", r.PostForm.Get("ClientSecret"))
		assert.Equal(t, "07/14/2024", r.PostForm.Get("DateFrom"))
		assert.Equal(t, "07/16/2024", r.PostForm.Get("DateTo"))
		assert.Equal(t, "2.1", r.PostForm.Get("Version"))
		assert.Equal(t, domain.ExportFields, r.PostForm.Get("Fields"))
		_, _ = w.Write([]byte("E1,T1,ID1\nE2,T2,ID2\n"))
	}))
	defer srv.Close()

	fixed := time.Date(2024, 7, 15, 16, 0, 0, 0, time.UTC)
	client := NewExportClient(srv.Client(), srv.URL, "key", "secret", "2.1").
		WithClock(func() time.Time { return fixed })

	rec, err := client.LocateBatch(context.Background(), "ID2")
	require.NoError(t, err)
	assert.Equal(t, "E2", rec.EMID)
	assert.Equal(t, "T2", rec.TerminalID)
}

func TestLocateBatchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("E1,T1,ID1\n"))
	}))
	defer srv.Close()

	client := NewExportClient(srv.Client(), srv.URL, "key", "secret", "1.0")
	_, err := client.LocateBatch(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}

func TestLocateBatchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid client key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewExportClient(srv.Client(), srv.URL, "key", "secret", "1.0")
	_, err := client.LocateBatch(context.Background(), "ID1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.Contains(t, err.Error(), "invalid client key")
}

func TestLocateBatchTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewExportClient(NewHTTPClient(time.Second), url, "key", "secret", "1.0")
	_, err := client.LocateBatch(context.Background(), "ID1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestLocateBatchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewExportClient(NewHTTPClient(50*time.Millisecond), srv.URL, "key", "secret", "1.0")
	_, err := client.LocateBatch(context.Background(), "ID1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestLocateBatchOversizedBody(t *testing.T) {
	body := exportRows(50) + "EMATCH,TMATCH,WANTED\n"
	withResponseCap(t, len(body)-1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewExportClient(srv.Client(), srv.URL, "key", "secret", "1.0")
	_, err := client.LocateBatch(context.Background(), "WANTED")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestLocateBatchMatchOnLastLineAtCap(t *testing.T) {
	body := exportRows(50) + "EMATCH,TMATCH,WANTED\n"
	withResponseCap(t, len(body))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewExportClient(srv.Client(), srv.URL, "key", "secret", "1.0")
	rec, err := client.LocateBatch(context.Background(), "WANTED")
	require.NoError(t, err)
	assert.Equal(t, "EMATCH", rec.EMID)
}
