package tabular

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTranslator uppercases the text and records every call.
type stubTranslator struct {
	calls []string
	err   error
}

func (s *stubTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	s.calls = append(s.calls, text)
	if s.err != nil {
		return "", s.err
	}
	return strings.ToUpper(text), nil
}

func TestTranslateColumn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newData := func(t *testing.T) *Dataset {
		t.Helper()
		data, err := NewDataset(
			NewColumn("id", Int(1), Int(2), Int(3)),
			NewColumn("note", Str("alpha"), Null(), Str("beta")),
		)
		require.NoError(t, err)
		return data
	}

	t.Run("translates non-null values and keeps nulls", func(t *testing.T) {
		t.Parallel()
		stub := &stubTranslator{}
		conn, err := New(Config{Driver: "sqlite", Translator: stub})
		require.NoError(t, err)

		data := newData(t)
		result, err := conn.TranslateColumn(ctx, data, "note", "en", "de", Endpoint{})
		require.NoError(t, err)

		want, err := NewDataset(
			NewColumn("id", Int(1), Int(2), Int(3)),
			NewColumn("note", Str("ALPHA"), Null(), Str("BETA")),
		)
		require.NoError(t, err)
		assert.True(t, result.Equal(want))
		assert.Equal(t, []string{"alpha", "beta"}, stub.calls, "nulls should not reach the service")

		// The input dataset is left untouched.
		assert.True(t, data.Equal(newData(t)))
	})

	t.Run("nil dataset", func(t *testing.T) {
		t.Parallel()
		conn, err := New(Config{Driver: "sqlite", Translator: &stubTranslator{}})
		require.NoError(t, err)

		_, err = conn.TranslateColumn(ctx, nil, "note", "en", "de", Endpoint{})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("missing column", func(t *testing.T) {
		t.Parallel()
		conn, err := New(Config{Driver: "sqlite", Translator: &stubTranslator{}})
		require.NoError(t, err)

		_, err = conn.TranslateColumn(ctx, newData(t), "nope", "en", "de", Endpoint{})
		require.ErrorIs(t, err, ErrConfiguration)
		assert.Contains(t, err.Error(), `"nope"`)
	})

	t.Run("non-text column", func(t *testing.T) {
		t.Parallel()
		conn, err := New(Config{Driver: "sqlite", Translator: &stubTranslator{}})
		require.NoError(t, err)

		_, err = conn.TranslateColumn(ctx, newData(t), "id", "en", "de", Endpoint{})
		assert.ErrorIs(t, err, ErrConfiguration)
	})

	t.Run("service failure aborts the operation", func(t *testing.T) {
		t.Parallel()
		stub := &stubTranslator{err: fmt.Errorf("%w: quota exceeded", ErrTranslationService)}
		conn, err := New(Config{Driver: "sqlite", Translator: stub})
		require.NoError(t, err)

		_, err = conn.TranslateColumn(ctx, newData(t), "note", "en", "de", Endpoint{})
		require.ErrorIs(t, err, ErrTranslationService)
		assert.Len(t, stub.calls, 1, "the first failure should stop further calls")
	})

	t.Run("plain translator errors are classified", func(t *testing.T) {
		t.Parallel()
		stub := &stubTranslator{err: errors.New("boom")}
		conn, err := New(Config{Driver: "sqlite", Translator: stub})
		require.NoError(t, err)

		_, err = conn.TranslateColumn(ctx, newData(t), "note", "en", "de", Endpoint{})
		assert.ErrorIs(t, err, ErrTranslationService)
	})

	t.Run("non-zero destination receives the result", func(t *testing.T) {
		t.Parallel()
		conn, err := New(Config{Driver: "sqlite", Translator: &stubTranslator{}})
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "translated.csv")
		result, err := conn.TranslateColumn(ctx, newData(t), "note", "en", "de", File(path))
		require.NoError(t, err)

		exported, err := conn.Load(ctx, File(path))
		require.NoError(t, err)
		assert.True(t, exported.Equal(result))
	})
}

func TestGoogleTranslatorTranslate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	newServer := func(t *testing.T, handler http.HandlerFunc) *GoogleTranslator {
		t.Helper()
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		g := NewGoogleTranslator(srv.Client())
		g.baseURL = srv.URL
		return g
	}

	t.Run("parses a single segment", func(t *testing.T) {
		t.Parallel()
		g := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "gtx", r.URL.Query().Get("client"))
			assert.Equal(t, "en", r.URL.Query().Get("sl"))
			assert.Equal(t, "de", r.URL.Query().Get("tl"))
			assert.Equal(t, "t", r.URL.Query().Get("dt"))
			assert.Equal(t, "Hello", r.URL.Query().Get("q"))
			_, _ = w.Write([]byte(`[[["Hallo","Hello",null,null,10]],null,"en"]`))
		})

		got, err := g.Translate(ctx, "Hello", "en", "de")
		require.NoError(t, err)
		assert.Equal(t, "Hallo", got)
	})

	t.Run("joins multiple segments", func(t *testing.T) {
		t.Parallel()
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[[["Hallo ","Hello ",null,null,10],["Welt","World",null,null,10]],null,"en"]`))
		})

		got, err := g.Translate(ctx, "Hello World", "en", "de")
		require.NoError(t, err)
		assert.Equal(t, "Hallo Welt", got)
	})

	t.Run("non-OK status", func(t *testing.T) {
		t.Parallel()
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		})

		_, err := g.Translate(ctx, "Hello", "en", "de")
		require.ErrorIs(t, err, ErrTranslationService)
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("malformed payload", func(t *testing.T) {
		t.Parallel()
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"detail":"not an array"}`))
		})

		_, err := g.Translate(ctx, "Hello", "en", "de")
		assert.ErrorIs(t, err, ErrTranslationService)
	})

	t.Run("empty payload", func(t *testing.T) {
		t.Parallel()
		g := newServer(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		_, err := g.Translate(ctx, "Hello", "en", "de")
		assert.ErrorIs(t, err, ErrTranslationService)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.NotFoundHandler())
		g := NewGoogleTranslator(srv.Client())
		g.baseURL = srv.URL
		srv.Close()

		_, err := g.Translate(ctx, "Hello", "en", "de")
		assert.ErrorIs(t, err, ErrTranslationService)
	})
}

func TestNewGoogleTranslator(t *testing.T) {
	t.Parallel()

	t.Run("nil client selects a default", func(t *testing.T) {
		t.Parallel()
		g := NewGoogleTranslator(nil)
		require.NotNil(t, g.client)
		assert.NotZero(t, g.client.Timeout)
		assert.Equal(t, googleTranslateURL, g.baseURL)
	})

	t.Run("custom client is kept", func(t *testing.T) {
		t.Parallel()
		client := &http.Client{}
		g := NewGoogleTranslator(client)
		assert.Same(t, client, g.client)
	})
}
