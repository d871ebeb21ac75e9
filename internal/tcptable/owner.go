package tcptable

import (
	"fmt"

	"go.uber.org/zap"
)

// Resolver finds a best-effort owner string for a row. It never fails:
// every strategy that errors falls through to the next one, and the last
// one is the empty string.
type Resolver struct {
	modules ModuleQuerier
	images  ImageLookup
	log     *zap.Logger
}

type ResolverOption func(*Resolver)

func WithResolverLogger(log *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver accepts nil collaborators; a nil collaborator is a strategy
// that always fails.
func NewResolver(modules ModuleQuerier, images ImageLookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		modules: modules,
		images:  images,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type ownerStrategy struct {
	name   string
	lookup func() (string, error)
}

// strategies returns the ordered resolution chain for row. Module-layout
// rows try the owner-module query before the process image path.
func (r *Resolver) strategies(row RawRow) []ownerStrategy {
	pid := row.OwningPID()
	image := ownerStrategy{name: "image-path", lookup: func() (string, error) {
		if r.images == nil {
			return "", fmt.Errorf("no image lookup configured")
		}
		return r.images.ImagePath(pid)
	}}
	empty := ownerStrategy{name: "default", lookup: func() (string, error) {
		return "", nil
	}}

	switch row.(type) {
	case ModuleRowV4, ModuleRowV6:
		module := ownerStrategy{name: "owner-module", lookup: func() (string, error) {
			if r.modules == nil {
				return "", fmt.Errorf("no module query configured")
			}
			return r.modules.QueryOwnerModule(row)
		}}
		return []ownerStrategy{module, image, empty}
	}
	return []ownerStrategy{image, empty}
}

// Resolve walks the strategy chain for row.
func (r *Resolver) Resolve(row RawRow) string {
	for _, s := range r.strategies(row) {
		owner, err := s.run()
		if err == nil {
			return owner
		}
		r.log.Debug("owner strategy failed",
			zap.String("strategy", s.name),
			zap.Int("pid", row.OwningPID()),
			zap.Stringer("family", row.Family()),
			zap.Error(err))
	}
	return ""
}

// run turns a panicking collaborator into an ordinary failure.
func (s ownerStrategy) run() (owner string, err error) {
	defer func() {
		if p := recover(); p != nil {
			owner, err = "", fmt.Errorf("%s panicked: %v", s.name, p)
		}
	}()
	return s.lookup()
}
