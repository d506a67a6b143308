package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yeqown/medrec"
)

// env is what every sub-command works on: the registry loaded from the data
// file, and the persister to write it back to.
type env struct {
	cfg    *config
	logger *logrus.Logger

	reg     *medrec.Registry
	store   medrec.Persister
	closeFn func() error
}

// save writes the registry back to the data file.
func (e *env) save() error {
	return e.reg.SaveTo(e.store)
}

func (e *env) close() error {
	if e.closeFn == nil {
		return nil
	}
	return e.closeFn()
}

type envContextKey struct{}

func contextWithEnv(ctx context.Context, e *env) context.Context {
	return context.WithValue(ctx, envContextKey{}, e)
}

func envFromContext(ctx context.Context) *env {
	v := ctx.Value(envContextKey{})
	if v == nil {
		panic("no env in context")
	}

	return v.(*env)
}
