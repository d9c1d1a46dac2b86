package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Azure/glot/api"
	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist"
	"github.com/Azure/glot/pkg/storage"
	"github.com/Azure/glot/pkg/storage/inprocess"
)

const serveDesc = `
Serve a stored model over HTTP.

  GET  /ping      liveness check
  GET  /stats     what the model was trained on
  POST /classify  classify a listing, sent as JSON {"code": "..."} or as the
                  code_listing field of a form

With --ephemeral, a model is trained from --corpus at startup and kept in
memory only; the tokenizer flags then apply to it. A stored model is always
queried with the tokenizer it was trained with.
`

type serveCmd struct {
	out        io.Writer
	listenAddr string
	modelName  string
	model      string
	ephemeral  bool
	corpus     string
	maxFiles   int
	tokens     tokenizerFlags
}

func newServeCmd(out io.Writer) *cobra.Command {
	sc := &serveCmd{out: out}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a model over HTTP",
		Long:  serveDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return applyConfigDefaults(cmd.Flags(), map[string]configKey{
				"listen-addr": listenKey,
				"model-name":  modelNameKey,
				"model":       modelKey,
				"corpus":      corpusKey,
				"max-files":   maxFilesKey,
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return sc.run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&sc.listenAddr, "listen-addr", "l", "tcp://127.0.0.1:8080", "the address the server listens on")
	f.StringVar(&sc.modelName, "model-name", "", "name or ID of the stored model (latest when empty)")
	f.StringVarP(&sc.model, "model", "m", string(bayes.Multinomial), "default event model: multinomial or bernoulli")
	f.BoolVar(&sc.ephemeral, "ephemeral", false, "train an in-memory model from --corpus instead of loading a stored one")
	f.StringVar(&sc.corpus, "corpus", "", "corpus directory for --ephemeral")
	f.IntVar(&sc.maxFiles, "max-files", 20, "maximum number of files read per corpus directory for --ephemeral")
	sc.tokens.addFlags(f)

	return cmd
}

func (c *serveCmd) run(ctx context.Context) error {
	m, err := bayes.ParseModel(c.model)
	if err != nil {
		return err
	}
	obj, store, err := c.load(ctx)
	if err != nil {
		return err
	}

	protoAndAddr := strings.SplitN(c.listenAddr, "://", 2)
	if len(protoAndAddr) != 2 {
		return fmt.Errorf("listen address %q must look like tcp://host:port or unix:///path", c.listenAddr)
	}
	server, err := api.New(protoAndAddr[0], protoAndAddr[1], bayes.NewClassifier(store), obj.NewTokenizer(), m)
	if err != nil {
		return fmt.Errorf("failed to create server at %s: %v", c.listenAddr, err)
	}
	log.Infof("serving model %s (%s) at %s", obj.Name, obj.ID, c.listenAddr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.HTTPServer.Shutdown(shutdownCtx)
	}()
	if err := server.Serve(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// load returns the model to serve: a stored one, or with --ephemeral one
// trained now and kept in an in-memory store.
func (c *serveCmd) load(ctx context.Context) (*storage.Object, *bayes.Store, error) {
	if !c.ephemeral {
		return loadModel(ctx, c.modelName)
	}
	if c.corpus == "" {
		return nil, nil, errors.Errorf("--ephemeral needs a corpus: pass --corpus or run 'glot config set %s <dir>'", corpusKey.name)
	}
	tok, err := c.tokens.tokenizer()
	if err != nil {
		return nil, nil, err
	}
	docs, err := corpus.NewLoader(c.corpus, c.maxFiles).TrainingSet()
	if err != nil {
		return nil, nil, err
	}
	trained, err := linguist.Train(ctx, docs, tok, 0)
	if err != nil {
		return nil, nil, err
	}
	obj := storage.NewObject(c.modelName, trained)
	obj.Tokenizer = *tok
	models := inprocess.NewStore()
	if err := models.CreateModel(ctx, obj); err != nil {
		return nil, nil, err
	}
	obj, err = storage.Resolve(ctx, models, obj.ID)
	if err != nil {
		return nil, nil, err
	}
	store, err := obj.Store()
	return obj, store, err
}
