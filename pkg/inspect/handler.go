// Package inspect provides read-only HTTP endpoints for the
// building blocks of a design session:
//
//	GET <prefix>/blocks             all kinds with their instances
//	GET <prefix>/blocks/<kind>      a single kind
//	GET <prefix>/dependents/<kind>  direct and transitive dependents
package inspect

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/server"
	"github.com/mandelsoft/buildingblocks/pkg/session"
)

type Handler struct {
	prefix      string
	session     *session.Session
	catalog     string
	fingerprint string
}

var _ http.Handler = (*Handler)(nil)

func New(s *session.Session, prefix string) *Handler {
	return &Handler{
		prefix:  strings.TrimSuffix(prefix, "/") + "/",
		session: s,
	}
}

// WithCatalog adds the catalog identity to the block listing.
func (h *Handler) WithCatalog(name, fingerprint string) *Handler {
	h.catalog = name
	h.fingerprint = fingerprint
	return h
}

func (h *Handler) RegisterHandler(srv *server.Server) {
	srv.Handle(h.prefix, h)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debug("{{method}} serving {{url}}", "method", r.Method, "url", r.URL)
	if r.Method != http.MethodGet {
		h.reply(w, http.StatusMethodNotAllowed, Error{Error: "method not allowed"})
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, h.prefix), "/")
	resource, name, _ := strings.Cut(path, "/")
	kind := blocks.Kind(name)

	var (
		result interface{}
		err    error
	)
	switch {
	case resource == "blocks" && name == "":
		result, err = h.listBlocks()
	case resource == "blocks":
		result, err = h.block(kind)
	case resource == "dependents" && name != "":
		result, err = h.dependents(kind)
	default:
		h.reply(w, http.StatusNotFound, Error{Error: "not found"})
		return
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	h.reply(w, http.StatusOK, result)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, blocks.ErrUnknownBlockKind) {
		code = http.StatusNotFound
	} else {
		log.LogError(err, "inspection failed")
	}
	e := Error{Error: err.Error()}
	if k, ok := blocks.KindOf(err); ok {
		e.Kind = k
	}
	h.reply(w, code, e)
}

func (h *Handler) reply(w http.ResponseWriter, code int, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.LogError(err, "cannot marshal response")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(append(data, '\n'))
}

func (h *Handler) listBlocks() (*Blocks, error) {
	result := &Blocks{
		Catalog:     h.catalog,
		Fingerprint: h.fingerprint,
		Blocks:      []Block{},
	}
	for _, k := range h.session.Registry().AllKinds() {
		b, err := h.block(k)
		if err != nil {
			return nil, err
		}
		result.Blocks = append(result.Blocks, *b)
	}
	return result, nil
}

func (h *Handler) block(kind blocks.Kind) (*Block, error) {
	m, err := h.session.Registry().GetMetadata(kind)
	if err != nil {
		return nil, err
	}
	list, err := h.session.Store().GetAllInstances(kind)
	if err != nil {
		return nil, err
	}
	b := &Block{Metadata: m, Instances: []Instance{}}
	for _, i := range list {
		b.Instances = append(b.Instances, Instance{
			ID:         i.ID,
			Generation: i.Generation,
			Handle:     handleOf(i.Payload),
		})
	}
	return b, nil
}

func (h *Handler) dependents(kind blocks.Kind) (*Dependents, error) {
	direct, err := h.session.Graph().GetDirectDependents(kind)
	if err != nil {
		return nil, err
	}
	transitive, err := h.session.Graph().GetTransitiveDependents(kind)
	if err != nil {
		return nil, err
	}
	if direct == nil {
		direct = []blocks.Kind{}
	}
	if transitive == nil {
		transitive = []blocks.Kind{}
	}
	return &Dependents{Kind: kind, Direct: direct, Transitive: transitive}, nil
}
