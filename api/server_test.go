package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

func trainedClassifier() *bayes.Classifier {
	s := bayes.NewStore()
	s.RecordDocument("Python", tokenizer.Tokenize([]byte("def add(a, b):\n    return a + b\n")))
	s.RecordDocument("Python", tokenizer.Tokenize([]byte("import os\nprint(os.getcwd())\n")))
	s.RecordDocument("Ruby", tokenizer.Tokenize([]byte("def add(a, b)\n  a + b\nend\n")))
	s.RecordDocument("Ruby", tokenizer.Tokenize([]byte("puts 'hi'\nend\n")))
	return bayes.NewClassifier(s)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	r := httptest.NewRecorder()
	h.ServeHTTP(r, req)
	return r
}

func TestPing(t *testing.T) {
	srv, err := New("tcp", "127.0.0.1:0", trainedClassifier(), nil, bayes.Multinomial)
	require.NoError(t, err)
	defer srv.Close()

	req, err := http.NewRequest("GET", "/ping", nil)
	require.NoError(t, err)
	r := httptest.NewRecorder()
	srv.ServeRequest(r, req)

	assert.Equal(t, http.StatusOK, r.Code)
	assert.Equal(t, "PONG", r.Body.String())
}

func TestNewInvalidProtocol(t *testing.T) {
	_, err := New("udp", "127.0.0.1:0", trainedClassifier(), nil, bayes.Multinomial)
	assert.Error(t, err)
}

func TestStats(t *testing.T) {
	h := NewHandler(trainedClassifier(), nil, bayes.Multinomial)
	r := serve(h, httptest.NewRequest("GET", "/stats", nil))
	require.Equal(t, http.StatusOK, r.Code)

	var summary bayes.Summary
	require.NoError(t, json.NewDecoder(r.Body).Decode(&summary))
	assert.Equal(t, []string{"Python", "Ruby"}, summary.Labels)
	assert.Equal(t, 4, summary.Documents)
}

func TestClassifyJSON(t *testing.T) {
	h := NewHandler(trainedClassifier(), nil, bayes.Multinomial)

	testCases := []struct {
		name     string
		body     string
		code     int
		language string
		scores   int
	}{
		{"ruby", `{"code": "puts 'hello'\nend"}`, http.StatusOK, "Ruby", 2},
		{"bernoulli", `{"code": "puts 'hello'\nend", "model": "bernoulli"}`, http.StatusOK, "Ruby", 2},
		{"hinted", `{"code": "puts 'hello'\nend", "hints": ["Python"]}`, http.StatusOK, "Python", 1},
		{"both hinted", `{"code": "puts 'hello'\nend", "hints": ["Ruby", "Python"]}`, http.StatusOK, "Ruby", 2},
		{"empty code", `{"code": "  "}`, http.StatusBadRequest, "", 0},
		{"bad model", `{"code": "x", "model": "gaussian"}`, http.StatusBadRequest, "", 0},
		{"unknown hint", `{"code": "x", "hints": ["Cobol"]}`, http.StatusBadRequest, "", 0},
		{"malformed", `{"code": `, http.StatusBadRequest, "", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/classify", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r := serve(h, req)
			require.Equal(t, tc.code, r.Code, r.Body.String())
			if tc.code != http.StatusOK {
				var e ErrorResponse
				require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
				assert.NotEmpty(t, e.Error)
				return
			}
			var resp ClassifyResponse
			require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
			assert.Equal(t, tc.language, resp.Language)
			require.Len(t, resp.Scores, tc.scores)
			assert.Equal(t, resp.Language, resp.Scores[0].Label)
		})
	}
}

func TestClassifyForm(t *testing.T) {
	h := NewHandler(trainedClassifier(), nil, bayes.Multinomial)
	form := url.Values{"code_listing": {"import os\nprint(os.getcwd())"}}

	req := httptest.NewRequest("POST", "/classify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r := serve(h, req)
	require.Equal(t, http.StatusOK, r.Code, r.Body.String())

	var resp ClassifyResponse
	require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
	assert.Equal(t, "Python", resp.Language)
	assert.Equal(t, bayes.Multinomial, resp.Model)
	assert.Equal(t, "Python", resp.Scores[0].Label)
}

func TestClassifyEmptyModel(t *testing.T) {
	h := NewHandler(bayes.NewClassifier(bayes.NewStore()), nil, bayes.Multinomial)
	req := httptest.NewRequest("POST", "/classify", strings.NewReader(`{"code": "x"}`))
	req.Header.Set("Content-Type", "application/json")

	r := serve(h, req)
	assert.Equal(t, http.StatusServiceUnavailable, r.Code)
}

func TestClassifyUsesTokenizer(t *testing.T) {
	body := `{"code": "# puts end puts end\nimport os"}`
	testCases := []struct {
		name     string
		tok      *tokenizer.Tokenizer
		language string
	}{
		{"default", nil, "Ruby"},
		{"without comments", tokenizer.New(tokenizer.WithoutComments()), "Python"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHandler(trainedClassifier(), tc.tok, bayes.Multinomial)
			req := httptest.NewRequest("POST", "/classify", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r := serve(h, req)
			require.Equal(t, http.StatusOK, r.Code, r.Body.String())

			var resp ClassifyResponse
			require.NoError(t, json.NewDecoder(r.Body).Decode(&resp))
			assert.Equal(t, tc.language, resp.Language)
		})
	}
}

func TestClassifyConcurrentRequests(t *testing.T) {
	// a restored store has not sorted its vocabulary yet
	store, err := bayes.Restore(trainedClassifier().Store().Snapshot())
	require.NoError(t, err)
	h := NewHandler(bayes.NewClassifier(store), nil, bayes.Bernoulli)

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest("POST", "/classify", strings.NewReader(`{"code": "puts 'hello'\nend"}`))
			req.Header.Set("Content-Type", "application/json")
			codes[i] = serve(h, req).Code
		}(i)
	}
	wg.Wait()
	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
}
