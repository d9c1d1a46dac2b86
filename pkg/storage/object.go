package storage

import (
	"math/rand"
	"time"

	"github.com/Masterminds/semver"
	"github.com/oklog/ulid"
	"github.com/pkg/errors"
	"github.com/technosophos/moniker"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Azure/glot/pkg/bayes"
	"github.com/Azure/glot/pkg/linguist/tokenizer"
)

// FormatVersion is written into every encoded object.
const FormatVersion = "1.0.0"

// formatConstraint is the range of format versions Decode accepts.
const formatConstraint = "~1"

// Object is a stored model: the store counters plus what is needed to list
// and reuse them.
type Object struct {
	ID        string    `msgpack:"id" json:"id"`
	Name      string    `msgpack:"name" json:"name"`
	Format    string    `msgpack:"format" json:"format"`
	CreatedAt time.Time `msgpack:"created_at" json:"createdAt"`
	// Method and FeatureCount record the feature selection applied, if any.
	Method       string          `msgpack:"method,omitempty" json:"method,omitempty"`
	FeatureCount int `msgpack:"feature_count,omitempty" json:"featureCount,omitempty"`
	// Tokenizer holds the settings the model was trained with. Objects
	// written before it existed decode to the default tokenizer.
	Tokenizer tokenizer.Tokenizer `msgpack:"tokenizer" json:"tokenizer"`
	Summary   bayes.Summary       `msgpack:"summary" json:"summary"`
	Snapshot  *bayes.Snapshot     `msgpack:"snapshot" json:"-"`
}

// NewObject captures store as a new object. An empty name is replaced with a
// generated one.
func NewObject(name string, store *bayes.Store) *Object {
	if name == "" {
		name = generateName()
	}
	return &Object{
		ID:        getulid(),
		Name:      name,
		Format:    FormatVersion,
		CreatedAt: time.Now().UTC(),
		Tokenizer: *tokenizer.New(),
		Summary:   store.Summary(),
		Snapshot:  store.Snapshot(),
	}
}

// Store restores the bayes store held by obj.
func (obj *Object) Store() (*bayes.Store, error) {
	return bayes.Restore(obj.Snapshot)
}

// NewTokenizer returns a tokenizer with the settings obj was trained with.
func (obj *Object) NewTokenizer() *tokenizer.Tokenizer {
	tok := obj.Tokenizer
	return &tok
}

// Matches reports whether ref is obj's ID or name.
func (obj *Object) Matches(ref string) bool {
	return ref != "" && (obj.ID == ref || obj.Name == ref)
}

// Encode serializes obj with msgpack.
func Encode(obj *Object) ([]byte, error) {
	b, err := msgpack.Marshal(obj)
	return b, errors.Wrapf(err, "encoding model %s", obj.ID)
}

// Decode deserializes an object written by Encode and rejects formats this
// version cannot read.
func Decode(b []byte) (*Object, error) {
	obj := new(Object)
	if err := msgpack.Unmarshal(b, obj); err != nil {
		return nil, errors.Wrap(err, "decoding model")
	}
	v, err := semver.NewVersion(obj.Format)
	if err != nil {
		return nil, errors.Wrapf(err, "model %s has invalid format %q", obj.ID, obj.Format)
	}
	c, err := semver.NewConstraint(formatConstraint)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return nil, errors.Errorf("model %s has unsupported format %s", obj.ID, obj.Format)
	}
	if obj.Snapshot == nil {
		return nil, errors.Errorf("model %s has no counters", obj.ID)
	}
	return obj, nil
}

func generateName() string {
	namer := moniker.New()
	return namer.NameSep("-")
}

func getulid() string { return <-ulidc }

// ulidc hands out monotonically increasing model IDs.
var ulidc = make(chan string)

func init() {
	rnd := rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	entropy := ulid.Monotonic(rnd, 0)
	go func() {
		for {
			ulidc <- ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
		}
	}()
}
