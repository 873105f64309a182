// Package records is the typed record fetcher over the document store.
//
// Every read is bounded by the fetch timeout, and every failure other than a
// missing document is reported as a *core.RetrievalError naming the
// collection. There is no retry: callers treat a retrieval error as terminal
// for the load that triggered it.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"admindash/internal/core"
	"admindash/internal/store"
)

const DefaultTimeout = 7 * time.Second

// Source is the read side of a store.
type Source interface {
	store.Fetcher
	store.Getter
}

type Fetcher struct {
	src     Source
	timeout time.Duration
}

func New(src Source, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{src: src, timeout: timeout}
}

// Fetch returns the raw documents of a collection.
func (f *Fetcher) Fetch(ctx context.Context, collection string, filters ...store.Filter) ([]store.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	docs, err := f.src.Fetch(ctx, collection, filters...)
	if err != nil {
		return nil, &core.RetrievalError{Collection: collection, Err: err}
	}
	return docs, nil
}

func (f *Fetcher) get(ctx context.Context, collection, id string) (store.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	doc, err := f.src.Get(ctx, collection, id)
	if errors.Is(err, core.ErrNotFound) {
		return store.Document{}, fmt.Errorf("%s %q: %w", collection, id, core.ErrNotFound)
	}
	if err != nil {
		return store.Document{}, &core.RetrievalError{Collection: collection, Err: err}
	}
	return doc, nil
}

func (f *Fetcher) Transactions(ctx context.Context, kind core.TransactionKind, filters ...store.Filter) ([]core.Transaction, error) {
	docs, err := f.Fetch(ctx, kind.Collection(), filters...)
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, len(docs))
	for i, d := range docs {
		out[i] = DecodeTransaction(kind, d)
	}
	return out, nil
}

func (f *Fetcher) Employees(ctx context.Context) ([]core.Employee, error) {
	return fetchAll(ctx, f, store.Employees, DecodeEmployee)
}

func (f *Fetcher) Projects(ctx context.Context) ([]core.Project, error) {
	return fetchAll(ctx, f, store.Projects, DecodeProject)
}

func (f *Fetcher) Clients(ctx context.Context) ([]core.Client, error) {
	return fetchAll(ctx, f, store.Clients, DecodeClient)
}

func (f *Fetcher) Accounts(ctx context.Context) ([]core.Account, error) {
	return fetchAll(ctx, f, store.Accounts, DecodeAccount)
}

func (f *Fetcher) Roles(ctx context.Context) ([]core.Role, error) {
	return fetchAll(ctx, f, store.Roles, DecodeRole)
}

func (f *Fetcher) Project(ctx context.Context, id string) (core.Project, error) {
	doc, err := f.get(ctx, store.Projects, id)
	if err != nil {
		return core.Project{}, err
	}
	return DecodeProject(doc), nil
}

func (f *Fetcher) Employee(ctx context.Context, id string) (core.Employee, error) {
	doc, err := f.get(ctx, store.Employees, id)
	if err != nil {
		return core.Employee{}, err
	}
	return DecodeEmployee(doc), nil
}

func fetchAll[T any](ctx context.Context, f *Fetcher, collection string, decode func(store.Document) T) ([]T, error) {
	docs, err := f.Fetch(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(docs))
	for i, d := range docs {
		out[i] = decode(d)
	}
	return out, nil
}
