// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mlnoga/quickselect/internal/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	return doContext(t, context.Background(), s, method, path, body)
}

func doContext(t *testing.T, ctx context.Context, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestPing(t *testing.T) {
	w := do(t, NewServer(io.Discard), "GET", "/api/v1/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", decode(t, w)["message"])
}

func TestSelect(t *testing.T) {
	s := NewServer(io.Discard)
	values := `[81,2,25,33,69,39,42,17,62,15]`
	for _, body := range []string{
		`{"values":` + values + `,"k":5}`,
		`{"values":` + values + `,"k":5,"policy":"deterministic"}`,
		`{"values":` + values + `,"k":5,"policy":"randomized","seed":7}`,
		`{"values":` + values + `,"k":5,"policy":"randomized"}`,
	} {
		w := do(t, s, "POST", "/api/v1/select", body)
		require.Equal(t, http.StatusOK, w.Code, body)
		assert.Equal(t, 39.0, decode(t, w)["result"], body)
	}

	w := do(t, s, "POST", "/api/v1/select", `{"values":[1.5,-2,7.25],"k":3}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, -2.0, decode(t, w)["result"])
}

func TestSelectErrors(t *testing.T) {
	s := NewServer(io.Discard)
	tests := []struct {
		body string
		kind string
	}{
		{`{"values":[],"k":1}`, KindEmptyInput},
		{`{"k":1}`, KindEmptyInput},
		{`{"values":[1,2,3],"k":0}`, KindInvalidRank},
		{`{"values":[1,2,3],"k":4}`, KindInvalidRank},
		{`{"values":[1,2,3],"k":1,"policy":"median"}`, KindBadRequest},
		{`{"values":[1,2,`, KindBadRequest},
	}
	for _, tt := range tests {
		w := do(t, s, "POST", "/api/v1/select", tt.body)
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.body)
		m := decode(t, w)
		assert.Equal(t, tt.kind, m["kind"], tt.body)
		assert.NotEmpty(t, m["error"], tt.body)
	}
}

const smallPlan = `{"type":"policyGrowth","sizes":[50,100],"trials":2}`

func TestBench(t *testing.T) {
	s := NewServer(io.Discard)
	w := do(t, s, "POST", "/api/v1/bench?seed=3&verify=true", smallPlan)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var r bench.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	assert.Equal(t, "policyGrowth", r.Type)
	require.Len(t, r.Series, 2)
	assert.Len(t, r.Series[0].Points, 2)

	w = do(t, s, "POST", "/api/v1/bench", `{"type":"bogus"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, "POST", "/api/v1/bench?seed=x", smallPlan)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.MaxInputLength = 60
	w = do(t, s, "POST", "/api/v1/bench", smallPlan)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "exceeds limit")
}

func TestSelectLimits(t *testing.T) {
	s := NewServer(io.Discard)
	s.MaxInputLength = 3
	w := do(t, s, "POST", "/api/v1/select", `{"values":[4,3,2,1],"k":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m := decode(t, w)
	assert.Equal(t, KindBadRequest, m["kind"])
	assert.Contains(t, m["error"], "exceeds limit")

	w = do(t, s, "POST", "/api/v1/select", `{"values":[3,2,1],"k":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3.0, decode(t, w)["result"])

	s = NewServer(io.Discard)
	s.MaxBodyBytes = 64
	long := `{"values":[` + strings.Repeat("1,", 100) + `1],"k":1}`
	w = do(t, s, "POST", "/api/v1/select", long)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, s, "POST", "/api/v1/bench", `{"type":"policyGrowth","sizes":[`+strings.Repeat("10,", 40)+`10]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestBenchWorkLimit(t *testing.T) {
	s := NewServer(io.Discard)
	s.MaxWork = 799
	// 2 sizes x 2 trials x 2 policies, largest input 100
	w := do(t, s, "POST", "/api/v1/bench", smallPlan)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["error"], "exceeds limit")

	s.MaxWork = 800
	w = do(t, s, "POST", "/api/v1/bench", smallPlan)
	assert.Equal(t, http.StatusOK, w.Code)

	s = NewServer(io.Discard)
	w = do(t, s, "POST", "/api/v1/bench", `{"type":"policyGrowth","sizes":[20000],"trials":1000000}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBenchStopsWhenClientGone(t *testing.T) {
	s := NewServer(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	w := doContext(t, ctx, s, "POST", "/api/v1/bench", `{"type":"policyGrowth","sizes":[20000],"trials":40}`)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, KindCanceled, decode(t, w)["kind"])
}

func TestPlot(t *testing.T) {
	s := NewServer(io.Discard)
	w := do(t, s, "POST", "/api/v1/plot?seed=5", smallPlan)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, s, "POST", "/api/v1/plot?format=tiff", smallPlan)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/tiff", w.Header().Get("Content-Type"))

	w = do(t, s, "POST", "/api/v1/plot?format=gif", smallPlan)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMakeSandboxNoop(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, MakeSandbox(&buf, "", -1))
	assert.Empty(t, buf.String())
}
