package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tyha2404/nexo-app/internal/log"
)

// Resource is a uniform CRUD client over one REST sub-resource,
// parameterized by the entity shape. The sub-path is fixed at
// construction; there is no per-call dispatch.
//
// Error contract, which callers rely on:
//   - transport or server failure: an error is returned;
//   - 2xx with an unsuccessful envelope: reads degrade to an empty page
//     or nil entity with no error, while Delete returns an error.
type Resource[T any] struct {
	transport *Transport
	subPath   string
	logger    *log.Logger
}

func NewResource[T any](transport *Transport, subPath string, logger *log.Logger) *Resource[T] {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentResource)
	}
	return &Resource[T]{
		transport: transport,
		subPath:   subPath,
		logger:    logger,
	}
}

// SubPath returns the sub-resource path this client is bound to.
func (r *Resource[T]) SubPath() string {
	return r.subPath
}

// GetAll lists the collection, optionally narrowed by query filters.
func (r *Resource[T]) GetAll(ctx context.Context, filters map[string]string) (Page[T], error) {
	query := url.Values{}
	for k, v := range filters {
		query.Set(k, v)
	}

	var env Envelope[Page[T]]
	if err := r.transport.Do(ctx, http.MethodGet, r.subPath, query, nil, &env); err != nil {
		return Page[T]{}, fmt.Errorf("fetch %s: %w", r.subPath, err)
	}
	if !env.Success {
		r.logger.DebugContext(ctx, "List request returned unsuccessful envelope, degrading to empty page",
			log.FieldResource, r.subPath, log.FieldOperation, log.OpList)
		return emptyPage[T](), nil
	}
	if env.Data.Items == nil {
		env.Data.Items = []T{}
	}
	return env.Data, nil
}

// GetByID fetches a single entity. A nil entity with a nil error means
// the server answered but reported no success.
func (r *Resource[T]) GetByID(ctx context.Context, id string) (*T, error) {
	var env Envelope[T]
	if err := r.transport.Do(ctx, http.MethodGet, r.subPath+"/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", r.subPath, id, err)
	}
	if !env.Success {
		return nil, nil
	}
	return &env.Data, nil
}

// Create posts a new entity. The body may be a partial record; the
// server fills in identity and audit fields.
func (r *Resource[T]) Create(ctx context.Context, body any) (*T, error) {
	var env Envelope[T]
	if err := r.transport.Do(ctx, http.MethodPost, r.subPath, nil, body, &env); err != nil {
		return nil, fmt.Errorf("create %s: %w", r.subPath, err)
	}
	if !env.Success {
		return nil, nil
	}
	return &env.Data, nil
}

// Update replaces fields of an existing entity.
func (r *Resource[T]) Update(ctx context.Context, id string, body any) (*T, error) {
	var env Envelope[T]
	if err := r.transport.Do(ctx, http.MethodPut, r.subPath+"/"+url.PathEscape(id), nil, body, &env); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", r.subPath, id, err)
	}
	if !env.Success {
		return nil, nil
	}
	return &env.Data, nil
}

// Delete removes an entity. Unlike the read operations, an unsuccessful
// envelope is an error here: destructive calls must not fail silently.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	var env Envelope[struct{}]
	if err := r.transport.Do(ctx, http.MethodDelete, r.subPath+"/"+url.PathEscape(id), nil, nil, &env); err != nil {
		return fmt.Errorf("delete %s/%s: %w", r.subPath, id, err)
	}
	if !env.Success {
		return fmt.Errorf("delete %s/%s: server reported failure", r.subPath, id)
	}
	return nil
}
