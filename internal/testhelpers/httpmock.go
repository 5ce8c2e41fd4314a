package testhelpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Expectation é uma resposta programada para uma requisição esperada.
type Expectation struct {
	Method string
	URL    *url.URL

	StatusCode int
	RespBody   []byte
	Headers    http.Header
	// Err, quando definido, simula uma falha de transporte.
	Err error
	// release, quando definido, segura a resposta até o canal ser fechado.
	release <-chan struct{}

	isMatched      bool
	MismatchReason string
}

// RecordedRequest guarda o que chegou ao transporte, com o corpo já lido.
type RecordedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// DecodeJSON decodifica o corpo gravado em v.
func (r RecordedRequest) DecodeJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// MockTransport é um http.RoundTripper que responde apenas às expectativas cadastradas.
type MockTransport struct {
	Expectations []*Expectation
	Requests     []RecordedRequest
	mutex        sync.Mutex
}

func NewMockTransport() *MockTransport {
	return &MockTransport{
		Expectations: make([]*Expectation, 0),
	}
}

// Client retorna um http.Client que usa este transporte.
func (t *MockTransport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// Expect cadastra uma nova expectativa para baseURL.
func (t *MockTransport) Expect(baseURL string) *Expectation {
	u, err := url.Parse(baseURL)
	if err != nil {
		panic(fmt.Sprintf("httpmock: invalid base URL provided: %v", err))
	}
	if u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("httpmock: base URL must include scheme and host (e.g., http://%s)", baseURL))
	}
	exp := &Expectation{
		URL:     u,
		Headers: make(http.Header),
	}
	t.Add(exp)
	return exp
}

func (e *Expectation) Post(path string) *Expectation {
	e.Method = http.MethodPost
	e.URL.Path = strings.TrimRight(e.URL.Path, "/") + path
	return e
}

func (e *Expectation) Reply(statusCode int) *Expectation {
	e.StatusCode = statusCode
	return e
}

func (e *Expectation) BodyString(body string) *Expectation {
	e.RespBody = []byte(body)
	return e
}

func (e *Expectation) JSON(v interface{}) *Expectation {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("httpmock: failed to marshal JSON: %v", err))
	}
	e.RespBody = data
	e.Headers.Set("Content-Type", "application/json")
	return e
}

// ReplyError faz a requisição falhar no transporte com err.
func (e *Expectation) ReplyError(err error) *Expectation {
	e.Err = err
	return e
}

// WaitFor segura a resposta até release ser fechado ou a requisição ser cancelada.
// A requisição já aparece em RequestCount enquanto espera.
func (e *Expectation) WaitFor(release <-chan struct{}) *Expectation {
	e.release = release
	return e
}

func (e *Expectation) Header(key, value string) *Expectation {
	e.Headers.Set(key, value)
	return e
}

func (t *MockTransport) Add(exp *Expectation) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Expectations = append(t.Expectations, exp)
}

// Reset descarta expectativas e requisições gravadas.
func (t *MockTransport) Reset() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.Expectations = make([]*Expectation, 0)
	t.Requests = nil
}

// IsDone indica se todas as expectativas foram atendidas.
func (t *MockTransport) IsDone() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	for _, exp := range t.Expectations {
		if !exp.isMatched {
			return false
		}
	}
	return true
}

// RequestCount retorna quantas requisições passaram pelo transporte.
func (t *MockTransport) RequestCount() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.Requests)
}

// LastRequest retorna a última requisição gravada.
func (t *MockTransport) LastRequest() (RecordedRequest, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.Requests) == 0 {
		return RecordedRequest{}, false
	}
	return t.Requests[len(t.Requests)-1], true
}

func (t *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		req.Body.Close()
	}

	t.mutex.Lock()
	t.Requests = append(t.Requests, RecordedRequest{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   body,
	})

	var matched *Expectation
	for _, exp := range t.Expectations {
		if !exp.isMatched && t.matches(exp, req) {
			exp.isMatched = true
			matched = exp
			break
		}
	}

	var reasons []string
	if matched == nil {
		for _, exp := range t.Expectations {
			if exp.MismatchReason != "" {
				reasons = append(reasons, exp.MismatchReason)
			}
		}
	}
	t.mutex.Unlock()

	if matched != nil {
		if matched.release != nil {
			select {
			case <-matched.release:
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
		if matched.Err != nil {
			return nil, matched.Err
		}
		return t.buildResponse(matched, req), nil
	}

	extra := ""
	if len(reasons) > 0 {
		extra = " (" + strings.Join(reasons, "; ") + ")"
	}

	return nil, fmt.Errorf("httpmock: no match found for request %s %s%s", req.Method, req.URL, extra)
}

func (t *MockTransport) matches(exp *Expectation, req *http.Request) bool {
	exp.MismatchReason = ""

	if exp.Method != "" && exp.Method != req.Method {
		exp.MismatchReason = fmt.Sprintf("method mismatch: expected %s got %s", exp.Method, req.Method)
		return false
	}

	if exp.URL.Scheme != req.URL.Scheme {
		exp.MismatchReason = fmt.Sprintf("scheme mismatch: expected %s got %s", exp.URL.Scheme, req.URL.Scheme)
		return false
	}

	if exp.URL.Host != req.URL.Host {
		exp.MismatchReason = fmt.Sprintf("host mismatch: expected %s got %s", exp.URL.Host, req.URL.Host)
		return false
	}

	if exp.URL.Path != req.URL.Path {
		exp.MismatchReason = fmt.Sprintf("path mismatch: expected %s got %s", exp.URL.Path, req.URL.Path)
		return false
	}

	return true
}

func (t *MockTransport) buildResponse(exp *Expectation, req *http.Request) *http.Response {
	statusCode := exp.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}

	return &http.Response{
		StatusCode:    statusCode,
		Body:          io.NopCloser(bytes.NewReader(exp.RespBody)),
		Header:        exp.Headers,
		Request:       req,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		ContentLength: int64(len(exp.RespBody)),
	}
}
