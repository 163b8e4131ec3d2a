package publish

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Import(t *testing.T) {
	var got struct {
		file, number, docType, title, date, auth string
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		body, _ := io.ReadAll(f)
		got.file = hdr.Filename + ":" + string(body)
		got.number = r.FormValue("document_number")
		got.docType = r.FormValue("document_type")
		got.title = r.FormValue("title")
		got.date = r.FormValue("issued_date")
		got.auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 0)
	defer c.Close()

	meta := DescribeTitle("Nghị định 47/2021/NĐ-CP ngày 1 tháng 4 năm 2021")
	err := c.Import(context.Background(), "out/nd47.txt", []byte("Nghị định. Điều 1.\n\n"), meta)
	require.NoError(t, err)

	assert.Equal(t, "nd47.txt:Nghị định. Điều 1.\n\n", got.file)
	assert.Equal(t, "47/2021/NĐ-CP", got.number)
	assert.Equal(t, "Nghị định", got.docType)
	assert.Equal(t, "01/04/2021", got.date)
	assert.Equal(t, "Bearer secret", got.auth)
}

func TestClient_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 1000)
	c.delay = time.Millisecond

	require.NoError(t, c.Import(context.Background(), "a.txt", []byte("x"), Metadata{}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpOnClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad document_number", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	c.delay = time.Millisecond

	err := c.Import(context.Background(), "a.txt", []byte("x"), Metadata{})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "status 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 0)
	c.delay = time.Millisecond

	err := c.Import(context.Background(), "a.txt", []byte("x"), Metadata{})
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, int32(MaxAttempts), calls.Load())
}
