package bayes

import "github.com/pkg/errors"

var (
	// ErrEmptyModel is returned when a query needs trained statistics that are not there:
	// no labels at all, an empty vocabulary, or a smoothing denominator that collapsed to zero.
	ErrEmptyModel = errors.New("bayes: model has no usable training data")
	// ErrInvalidArgument is returned for out-of-range arguments such as a non-positive feature count.
	ErrInvalidArgument = errors.New("bayes: invalid argument")
)
