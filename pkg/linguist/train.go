package linguist

import (
	"context"
	"runtime"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/corpus"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// Train tokenizes docs and accumulates them into a new store. Each label is
// counted into its own shard by up to jobs goroutines and the shards are
// merged in label order, so the result does not depend on scheduling.
func Train(ctx context.Context, docs []corpus.Document, tok *tokenizer.Tokenizer, jobs int) (*bayes.Store, error) {
	tok = orDefault(tok)
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	byLabel := map[string][]corpus.Document{}
	for _, d := range docs {
		if d.Label == "" {
			return nil, errors.Wrapf(bayes.ErrInvalidArgument, "document %s has no label", d.Path)
		}
		byLabel[d.Label] = append(byLabel[d.Label], d)
	}
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	// one shard per label; each goroutine owns its index
	shards := make([]*bayes.Store, len(labels))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, label := range labels {
		i, label := i, label
		g.Go(func() error {
			shard := bayes.NewStore()
			for _, d := range byLabel[label] {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				shard.RecordDocument(label, tok.Tokenize(d.Content))
			}
			log.Debugf("trained %s on %d documents", label, len(byLabel[label]))
			shards[i] = shard
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	store := bayes.NewStore()
	for _, shard := range shards {
		if err := store.Merge(shard); err != nil {
			return nil, err
		}
	}
	log.Debugf("trained %d labels, vocabulary of %d words", len(labels), store.VocabularySize())
	return store, nil
}
