// Package classifier decides whether a rider is wearing a helmet by storing
// the submitted photo and running it through an image labelling service.
package classifier

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/linesmerrill/rider-safety-api/apperrors"
	"github.com/linesmerrill/rider-safety-api/storage"
)

// HelmetLabel is the label whose presence counts as a helmet being worn
const HelmetLabel = "Helmet"

// Annotator runs label detection and object localization on a stored image
type Annotator interface {
	Annotate(ctx context.Context, imageURL string) (labels []string, objects []string, err error)
}

// ImageInput is a photo submitted for a rider
type ImageInput struct {
	RiderName string
	RiderID   string
	Data      []byte
}

// Classification is the outcome of classifying one image
type Classification struct {
	HelmetDetected bool
	Labels         []string
	ImageURL       string
}

// Classifier uploads images to Store and labels them with Annotator
type Classifier struct {
	Store     storage.ObjectStore
	Annotator Annotator
	Folder    string
	Timeout   time.Duration

	now func() time.Time
}

// New returns a Classifier storing images under folder
func New(store storage.ObjectStore, annotator Annotator, folder string, timeout time.Duration) *Classifier {
	return &Classifier{
		Store:     store,
		Annotator: annotator,
		Folder:    folder,
		Timeout:   timeout,
		now:       time.Now,
	}
}

// Classify stores the image and reports whether a helmet was detected. Any
// storage or labelling failure comes back as an ExternalServiceError.
func (c *Classifier) Classify(ctx context.Context, in ImageInput) (Classification, error) {
	key := ImageKey(c.Folder, in.RiderName, in.RiderID, c.clock())

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	url, err := c.Store.Put(ctx, key, in.Data)
	if err != nil {
		return Classification{}, apperrors.External("object storage", err)
	}

	labels, objects, err := c.Annotator.Annotate(ctx, url)
	if err != nil {
		return Classification{}, apperrors.External("image classifier", err)
	}

	all := Union(labels, objects)
	zap.S().Debugw("classified image", "key", key, "labels", all)

	return Classification{
		HelmetDetected: contains(all, HelmetLabel),
		Labels:         all,
		ImageURL:       url,
	}, nil
}

func (c *Classifier) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

var keyUnsafe = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// ImageKey derives the storage key for a rider's photo taken at t:
// <folder>/<name>-<id>-<yyyymmddThhmmss>.
func ImageKey(folder, riderName, riderID string, t time.Time) string {
	name := strings.Trim(keyUnsafe.ReplaceAllString(riderName, "_"), "_")
	return fmt.Sprintf("%s/%s-%s-%s", folder, name, riderID, CompactTimestamp(t))
}

// CompactTimestamp renders t as a UTC ISO-8601 string with the '-', ':' and
// '.' separators removed, cut to 15 characters (20240501T101530).
func CompactTimestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	compact := strings.NewReplacer("-", "", ":", "", ".", "").Replace(iso)
	return compact[:15]
}

// Union joins label sets keeping first-seen order and dropping repeats
func Union(sets ...[]string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, set := range sets {
		for _, l := range set {
			if _, ok := seen[l]; ok {
				continue
			}
			seen[l] = struct{}{}
			out = append(out, l)
		}
	}
	return out
}

func contains(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
