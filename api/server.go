package api

import (
	"encoding/json"
	"fmt"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// maxListingSize caps the request body of /classify.
const maxListingSize = 1 << 20

// Server is an API Server which listens and responds to HTTP requests.
type Server struct {
	HTTPServer *http.Server
	Listener   net.Listener
}

// Serve starts the HTTP server, accepting all new connections.
func (s *Server) Serve() error {
	return s.HTTPServer.Serve(s.Listener)
}

// Close shuts down the HTTP server, dropping all current connections.
func (s *Server) Close() error {
	return s.Listener.Close()
}

// ServeRequest processes a single HTTP request.
func (s *Server) ServeRequest(w http.ResponseWriter, req *http.Request) {
	s.HTTPServer.Handler.ServeHTTP(w, req)
}

// New sets up the required Server and does protocol specific checking. The
// server answers with c, tokenizing listings with tok and using m unless a
// request names another model.
func New(proto, addr string, c *bayes.Classifier, tok *tokenizer.Tokenizer, m bayes.Model) (*Server, error) {
	var (
		a   *Server
		err error
	)
	switch proto {
	case "tcp":
		a, err = setupTCPHTTP(addr)
	case "unix":
		a, err = setupUnixHTTP(addr)
	default:
		return nil, fmt.Errorf("invalid protocol format %q", proto)
	}
	if err != nil {
		return nil, err
	}
	a.HTTPServer.Handler = NewHandler(c, tok, m)
	return a, nil
}

func setupTCPHTTP(addr string) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	a := &Server{
		HTTPServer: &http.Server{Addr: addr},
		Listener:   l,
	}
	return a, nil
}

// NewHandler returns the API routes served for c. tok must match the
// tokenizer c's store was trained with; nil is the default tokenizer.
func NewHandler(c *bayes.Classifier, tok *tokenizer.Tokenizer, m bayes.Model) http.Handler {
	if tok == nil {
		tok = tokenizer.New()
	}
	h := &handler{classifier: c, tokenizer: tok, model: m}
	r := httprouter.New()

	routerMap := map[string]map[string]httprouter.Handle{
		"GET": {
			"/ping":  ping,
			"/stats": h.stats,
		},
		"POST": {
			"/classify": h.classify,
		},
	}

	for method, routes := range routerMap {
		for route, funct := range routes {
			r.Handle(method, route, logRequestMiddleware(funct))
		}
	}
	return r
}

func logRequestMiddleware(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		log.Infof("%s %s", r.Method, r.RequestURI)
		// Delegate request to the given handle
		h(w, r, p)
	}
}

// WriteJSON writes the value v to the http response stream as json with standard
// json encoding.
func WriteJSON(w http.ResponseWriter, v interface{}, code int) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ClassifyRequest is the JSON body accepted by /classify.
type ClassifyRequest struct {
	Code  string   `json:"code"`
	Model string   `json:"model,omitempty"`
	Hints []string `json:"hints,omitempty"`
}

// ClassifyResponse is the result of /classify.
type ClassifyResponse struct {
	Language string        `json:"language"`
	Model    bayes.Model   `json:"model"`
	Scores   []bayes.Score `json:"scores"`
}

func ping(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	w.Write([]byte{'P', 'O', 'N', 'G'})
}

type handler struct {
	classifier *bayes.Classifier
	tokenizer  *tokenizer.Tokenizer
	model      bayes.Model
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	WriteJSON(w, h.classifier.Store().Summary(), http.StatusOK)
}

func (h *handler) classify(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, maxListingSize)
	req, err := decodeClassifyRequest(r)
	if err != nil {
		writeError(w, err)
		return
	}
	m := h.model
	if req.Model != "" {
		if m, err = bayes.ParseModel(req.Model); err != nil {
			writeError(w, err)
			return
		}
	}

	tokens := h.tokenizer.Tokenize([]byte(req.Code))
	scores, err := h.classifier.RankAmong(tokens, m, req.Hints)
	if err != nil {
		writeError(w, err)
		return
	}
	language := scores[0].Label
	log.Debugf("classified %d tokens as %s", len(tokens), language)
	WriteJSON(w, ClassifyResponse{Language: language, Model: m, Scores: scores}, http.StatusOK)
}

// decodeClassifyRequest reads either a JSON body or the code_listing field of
// a submitted form.
func decodeClassifyRequest(r *http.Request) (*ClassifyRequest, error) {
	req := new(ClassifyRequest)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, errors.Wrapf(bayes.ErrInvalidArgument, "could not decode request: %v", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, errors.Wrapf(bayes.ErrInvalidArgument, "could not parse form: %v", err)
		}
		req.Code = r.PostForm.Get("code_listing")
		req.Model = r.PostForm.Get("model")
		req.Hints = r.PostForm["hint"]
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, errors.Wrap(bayes.ErrInvalidArgument, "no code listing given")
	}
	return req, nil
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, bayes.ErrEmptyModel):
		code = http.StatusServiceUnavailable
	case errors.Is(err, bayes.ErrInvalidArgument):
		code = http.StatusBadRequest
	}
	log.Debugf("request failed with %d: %v", code, err)
	WriteJSON(w, ErrorResponse{Error: err.Error()}, code)
}
