package session_test

import (
	"errors"
	"fmt"

	. "github.com/mandelsoft/buildingblocks/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/dependency"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
	"github.com/mandelsoft/buildingblocks/pkg/invalidation"
	"github.com/mandelsoft/buildingblocks/pkg/objectstore"

	me "github.com/mandelsoft/buildingblocks/pkg/session"
)

const (
	CUP         = blocks.Kind("Cup")
	STUDS       = blocks.Kind("CupStuds")
	SKIRT_CURVE = blocks.Kind("SkirtCurve")
	SKIRT_MESH  = blocks.Kind("SkirtMesh")
	SKIRT_GUIDE = blocks.Kind("SkirtGuide")
	SCREWS      = blocks.Kind("Screws")
	SCREW_HOLES = blocks.Kind("ScrewHoles")
)

func mesh(h string) geometry.Payload {
	return geometry.NewRef(geometry.CategoryMesh, h)
}

func curve(h string) geometry.Payload {
	return geometry.NewRef(geometry.CategoryCurve, h)
}

func graph() *dependency.Graph {
	reg := blocks.MustRegistry(
		blocks.Metadata{Kind: CUP, Category: geometry.CategoryMesh, Name: "Cup"},
		blocks.Metadata{Kind: STUDS, Category: geometry.CategoryMesh, Name: "Cup Studs"},
		blocks.Metadata{Kind: SKIRT_CURVE, Category: geometry.CategoryCurve, Name: "Skirt Curve"},
		blocks.Metadata{Kind: SKIRT_MESH, Category: geometry.CategoryMesh, Name: "Skirt Mesh"},
		blocks.Metadata{Kind: SKIRT_GUIDE, Category: geometry.CategoryMesh, Name: "Skirt Guide"},
		blocks.Metadata{Kind: SCREWS, Category: geometry.CategoryMesh, Name: "Screws", Multiplicity: blocks.Multiple},
		blocks.Metadata{Kind: SCREW_HOLES, Category: geometry.CategoryMesh, Name: "Screw Holes"},
	)
	return Must(dependency.NewFromEdges(reg,
		dependency.Edge{From: CUP, To: STUDS},
		dependency.Edge{From: CUP, To: SKIRT_GUIDE},
		dependency.Edge{From: SKIRT_CURVE, To: SKIRT_MESH},
		dependency.Edge{From: SKIRT_MESH, To: SKIRT_GUIDE},
		dependency.Edge{From: SCREWS, To: SCREW_HOLES},
	))
}

type Trace struct {
	calls []string
}

func (t *Trace) Callback(kind blocks.Kind, trigger invalidation.Trigger) error {
	t.calls = append(t.calls, fmt.Sprintf("%s %s", trigger, kind))
	return nil
}

// Exploding panics when an instance of its kind is deleted.
type Exploding struct {
	kind blocks.Kind
}

func (h Exploding) HandleEvent(e objectstore.Event) {
	if e.Type == objectstore.Deleted && e.Instance.Kind == h.kind {
		panic(fmt.Sprintf("cannot drop %s", e.Instance.Kind))
	}
}

var _ = Describe("session", func() {
	var session *me.Session
	var store *objectstore.Store
	var trace *Trace

	BeforeEach(func() {
		session = Must(me.ForGraph(graph()))
		store = session.Store()
		trace = &Trace{}
		for _, k := range session.Registry().AllKinds() {
			Must(session.Dispatcher().Register(k, invalidation.OnMutate, trace.Callback))
			Must(session.Dispatcher().Register(k, invalidation.OnDelete, trace.Callback))
		}
	})

	It("rejects components with different registries", func() {
		g := graph()
		_, err := me.New(g, objectstore.New(graph().Registry()), invalidation.New(g.Registry()))
		Expect(err).To(MatchError("object store uses a different block registry"))
		_, err = me.New(g, objectstore.New(g.Registry()), invalidation.New(graph().Registry()))
		Expect(err).To(MatchError("dispatcher uses a different block registry"))
	})

	Context("mutate", func() {
		It("cascades to dependents", func() {
			Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))
			Must(store.SetBlock(SKIRT_CURVE, curve("curve"), uuid.Nil))
			Must(store.SetBlock(SKIRT_GUIDE, mesh("guide"), uuid.Nil))
			old := Must(store.GetInstance(CUP))

			i := Must(session.MutateAndCascade(CUP, mesh("cup2"), old.ID))
			Expect(i.ID).To(Equal(old.ID))
			Expect(i.Generation).To(Equal(int64(1)))

			Expect(Must(store.GetInstance(CUP)).Payload).To(Equal(mesh("cup2")))
			Expect(store.HasBlock(STUDS)).To(BeFalse())
			Expect(store.HasBlock(SKIRT_GUIDE)).To(BeFalse())
			Expect(store.HasBlock(SKIRT_CURVE)).To(BeTrue())
			Expect(trace.calls).To(Equal([]string{
				"OnMutate Cup",
				"OnDelete CupStuds",
				"OnDelete SkirtGuide",
			}))
		})

		It("cascades transitively in dependency order", func() {
			Must(store.SetBlock(SKIRT_MESH, mesh("mesh"), uuid.Nil))
			Must(store.SetBlock(SKIRT_GUIDE, mesh("guide"), uuid.Nil))

			r := Must(session.Mutate(SKIRT_CURVE, curve("curve"), uuid.Nil))
			Expect(r.Deleted).To(Equal([]blocks.Kind{SKIRT_MESH, SKIRT_GUIDE}))
			Expect(r.Instances).To(Equal(2))
			Expect(r.Failures).To(BeEmpty())
			Expect(store.Kinds()).To(Equal([]blocks.Kind{SKIRT_CURVE}))
			Expect(r.String()).To(MatchRegexp(`^set SkirtCurve/[-0-9a-f]+, deleted 2 instance\(s\) of \[SkirtMesh, SkirtGuide\]$`))
		})

		It("is idempotent", func() {
			i := Must(session.MutateAndCascade(CUP, mesh("cup"), uuid.Nil))
			Must(session.MutateAndCascade(CUP, mesh("cup"), i.ID))
			Must(session.MutateAndCascade(CUP, mesh("cup"), i.ID))
			Expect(Must(store.GetAllInstances(CUP))).To(HaveLen(1))
			Expect(store.Len()).To(Equal(1))
		})

		It("fires delete callbacks for empty dependents", func() {
			Must(session.MutateAndCascade(SCREWS, mesh("s1"), uuid.Nil))
			Expect(trace.calls).To(Equal([]string{"OnMutate Screws", "OnDelete ScrewHoles"}))
		})

		It("keeps the store unchanged on type mismatch", func() {
			Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))

			_, err := session.MutateAndCascade(CUP, curve("cup"), uuid.Nil)
			Expect(err).To(MatchError(objectstore.ErrTypeMismatch))
			Expect(store.Kinds()).To(Equal([]blocks.Kind{CUP, STUDS}))
			Expect(trace.calls).To(BeEmpty())
		})

		It("rejects unknown kinds", func() {
			_, err := session.MutateAndCascade("Unknown", mesh("x"), uuid.Nil)
			Expect(err).To(MatchError(blocks.ErrUnknownBlockKind))
			kind, ok := blocks.KindOf(err)
			Expect(ok).To(BeTrue())
			Expect(kind).To(Equal(blocks.Kind("Unknown")))
			Expect(store.Len()).To(Equal(0))
		})

		It("rejects ids of other kinds without cascading", func() {
			cup := Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))

			_, err := session.MutateAndCascade(STUDS, mesh("studs2"), cup.ID)
			Expect(err).To(MatchError(objectstore.ErrTypeMismatch))
			Expect(Must(store.GetInstance(STUDS)).Payload).To(Equal(mesh("studs")))
			Expect(Must(store.GetInstance(CUP)).Generation).To(Equal(int64(0)))
			Expect(trace.calls).To(BeEmpty())
		})

		It("completes the cascade if a store handler panics", func() {
			store.RegisterHandler(Exploding{STUDS})
			cup := Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))
			Must(store.SetBlock(SKIRT_GUIDE, mesh("guide"), uuid.Nil))

			r := Must(session.Mutate(CUP, mesh("cup2"), cup.ID))
			Expect(r.Deleted).To(Equal([]blocks.Kind{STUDS, SKIRT_GUIDE}))
			Expect(r.Instances).To(Equal(2))
			Expect(store.Kinds()).To(Equal([]blocks.Kind{CUP}))
			Expect(Must(store.GetInstance(CUP)).Payload).To(Equal(mesh("cup2")))
			Expect(trace.calls).To(Equal([]string{
				"OnMutate Cup",
				"OnDelete CupStuds",
				"OnDelete SkirtGuide",
			}))
		})

		It("reports failing callbacks", func() {
			cause := errors.New("stale")
			Must(session.Dispatcher().Register(STUDS, invalidation.OnDelete, func(blocks.Kind, invalidation.Trigger) error {
				return cause
			}))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))

			r := Must(session.Mutate(CUP, mesh("cup"), uuid.Nil))
			Expect(store.HasBlock(STUDS)).To(BeFalse())
			Expect(store.HasBlock(CUP)).To(BeTrue())
			Expect(r.Failures).To(HaveLen(1))
			Expect(r.Failures[0]).To(MatchError(cause))
			Expect(trace.calls).To(ContainElement("OnDelete SkirtGuide"))
		})
	})

	Context("delete", func() {
		It("deletes a kind and its dependents", func() {
			Must(store.SetBlock(SKIRT_CURVE, curve("curve"), uuid.Nil))
			Must(store.SetBlock(SKIRT_MESH, mesh("mesh"), uuid.Nil))
			Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))

			r := Must(session.DeleteAndCascade(SKIRT_CURVE))
			Expect(r.Deleted).To(Equal([]blocks.Kind{SKIRT_CURVE, SKIRT_MESH, SKIRT_GUIDE}))
			Expect(r.Instances).To(Equal(2))
			Expect(store.Kinds()).To(Equal([]blocks.Kind{CUP}))
			Expect(trace.calls).To(Equal([]string{
				"OnDelete SkirtCurve",
				"OnDelete SkirtMesh",
				"OnDelete SkirtGuide",
			}))
		})

		It("deletes a single instance", func() {
			s1 := Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			s2 := Must(store.SetBlock(SCREWS, mesh("s2"), uuid.Nil))
			Must(store.SetBlock(SCREW_HOLES, mesh("holes"), uuid.Nil))

			r := Must(session.DeleteInstanceAndCascade(s1.ID))
			Expect(r.Instances).To(Equal(2))
			Expect(Must(store.GetAllInstances(SCREWS))).To(Equal([]objectstore.Instance{s2}))
			Expect(store.HasBlock(SCREW_HOLES)).To(BeFalse())
			Expect(trace.calls).To(Equal([]string{"OnDelete Screws", "OnDelete ScrewHoles"}))
		})

		It("ignores unknown instances", func() {
			r := Must(session.DeleteInstanceAndCascade(uuid.New()))
			Expect(r.Instances).To(Equal(0))
			Expect(trace.calls).To(BeEmpty())
		})

		It("invalidates dependents only", func() {
			Must(store.SetBlock(CUP, mesh("cup"), uuid.Nil))
			Must(store.SetBlock(STUDS, mesh("studs"), uuid.Nil))

			r := Must(session.InvalidateDependents(CUP))
			Expect(r.Deleted).To(Equal([]blocks.Kind{STUDS, SKIRT_GUIDE}))
			Expect(store.Kinds()).To(Equal([]blocks.Kind{CUP}))
		})

		It("rejects unknown kinds", func() {
			_, err := session.DeleteAndCascade("Unknown")
			Expect(err).To(MatchError(blocks.ErrUnknownBlockKind))
		})
	})
})
