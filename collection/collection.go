// Package collection implements the read-modify-write cycle on the single
// "websites" value held in a key-value store.
package collection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stevemurr/website-registry/store"
)

// Key is the store key holding the collection.
const Key = "websites"

// ErrInvalidIndex is returned by Update when the index is outside the
// current collection.
var ErrInvalidIndex = errors.New("invalid index")

// MissingID passed to Delete matches websites that have no "id" field.
// A nil id matches only websites whose id is JSON null.
var MissingID any = missingID{}

type missingID struct{}

// Website is a caller-defined JSON object. Only its "id" field is inspected.
type Website map[string]any

// Collection is the ordered list of websites stored as one JSON array.
//
// Mutations within one process are serialized: the lock is held from the
// read to the write. Writers in other processes sharing the store are not
// coordinated and may still overwrite each other.
type Collection struct {
	store  store.Store
	key    string
	mu     sync.Mutex
	tracer trace.Tracer
}

// New returns a Collection over the "websites" key of s.
func New(s store.Store) *Collection {
	return &Collection{
		store:  s,
		key:    Key,
		tracer: otel.Tracer("github.com/stevemurr/website-registry/collection"),
	}
}

// List returns the stored websites. An absent key yields an empty list.
func (c *Collection) List(ctx context.Context) ([]Website, error) {
	ctx, span := c.tracer.Start(ctx, "collection.List")
	defer span.End()

	sites, err := c.read(ctx)
	return sites, finish(span, len(sites), err)
}

// Add appends w to the collection.
func (c *Collection) Add(ctx context.Context, w Website) error {
	ctx, span := c.tracer.Start(ctx, "collection.Add")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.read(ctx)
	if err != nil {
		return finish(span, 0, err)
	}
	sites = append(sites, w)
	return finish(span, len(sites), c.write(ctx, sites))
}

// Update replaces the website at position index. The index refers to the
// collection as currently stored.
func (c *Collection) Update(ctx context.Context, index int, w Website) error {
	ctx, span := c.tracer.Start(ctx, "collection.Update",
		trace.WithAttributes(attribute.Int("websites.index", index)))
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.read(ctx)
	if err != nil {
		return finish(span, 0, err)
	}
	if index < 0 || index >= len(sites) {
		return finish(span, len(sites), fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, index, len(sites)))
	}
	sites[index] = w
	return finish(span, len(sites), c.write(ctx, sites))
}

// Delete removes every website whose "id" equals id, or every website
// without an id when id is MissingID. The collection is written back even
// when nothing matched.
func (c *Collection) Delete(ctx context.Context, id any) error {
	ctx, span := c.tracer.Start(ctx, "collection.Delete")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	sites, err := c.read(ctx)
	if err != nil {
		return finish(span, 0, err)
	}
	kept := make([]Website, 0, len(sites))
	for _, w := range sites {
		if !matchesID(w, id) {
			kept = append(kept, w)
		}
	}
	span.SetAttributes(attribute.Int("websites.removed", len(sites)-len(kept)))
	return finish(span, len(kept), c.write(ctx, kept))
}

func matchesID(w Website, id any) bool {
	v, has := w["id"]
	if _, missing := id.(missingID); missing {
		return !has
	}
	return has && reflect.DeepEqual(v, id)
}

func (c *Collection) read(ctx context.Context) ([]Website, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.key, err)
	}
	sites := []Website{}
	if !found {
		return sites, nil
	}
	if err := json.Unmarshal(raw, &sites); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.key, err)
	}
	if sites == nil {
		// a stored "null"
		sites = []Website{}
	}
	return sites, nil
}

func (c *Collection) write(ctx context.Context, sites []Website) error {
	b, err := json.Marshal(sites)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Put(ctx, c.key, b); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

func finish(span trace.Span, count int, err error) error {
	span.SetAttributes(attribute.Int("websites.count", count))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
