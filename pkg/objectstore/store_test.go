package objectstore_test

import (
	"errors"

	. "github.com/mandelsoft/buildingblocks/pkg/testutils"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/go-test/deep"
	"github.com/google/uuid"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"

	me "github.com/mandelsoft/buildingblocks/pkg/objectstore"
)

const (
	CUP     = blocks.Kind("Cup")
	STUDS   = blocks.Kind("CupStuds")
	SKIRT   = blocks.Kind("SkirtCurve")
	SCREWS  = blocks.Kind("Screws")
	UNKNOWN = blocks.Kind("Unknown")
)

func mesh(h string) geometry.Payload {
	return geometry.NewRef(geometry.CategoryMesh, h)
}

type Recorder struct {
	events []string
}

func (r *Recorder) HandleEvent(e me.Event) {
	r.events = append(r.events, e.Type.String()+" "+string(e.Instance.Kind))
}

// Counter is a value handler with a non-comparable type.
type Counter struct {
	kinds []blocks.Kind
	count *int
}

func (c Counter) HandleEvent(e me.Event) {
	*c.count++
}

var _ = Describe("object store", func() {
	var store *me.Store

	BeforeEach(func() {
		store = me.New(blocks.MustRegistry(
			blocks.Metadata{Kind: CUP, Category: geometry.CategoryMesh, Name: "Cup"},
			blocks.Metadata{Kind: STUDS, Category: geometry.CategoryMesh, Name: "Cup Studs"},
			blocks.Metadata{Kind: SKIRT, Category: geometry.CategoryCurve, Name: "Skirt Curve"},
			blocks.Metadata{Kind: SCREWS, Category: geometry.CategoryMesh, Name: "Screws", Multiplicity: blocks.Multiple},
		))
	})

	Context("set", func() {
		It("creates instances", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(i.ID).NotTo(Equal(uuid.Nil))
			Expect(i.Kind).To(Equal(CUP))
			Expect(i.Generation).To(Equal(int64(0)))
			Expect(store.HasBlock(CUP)).To(BeTrue())
			Expect(deep.Equal(Must(store.GetInstance(CUP)), i)).To(BeNil())
		})

		It("replaces payloads keeping the identity", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			n := Must(store.SetBlock(CUP, mesh("m2"), i.ID))
			Expect(n.ID).To(Equal(i.ID))
			Expect(n.Generation).To(Equal(int64(1)))
			Expect(n.Payload).To(Equal(mesh("m2")))
			Expect(store.Len()).To(Equal(1))
		})

		It("keeps single kinds single", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			n := Must(store.SetBlock(CUP, mesh("m2"), uuid.Nil))
			Expect(n.ID).To(Equal(i.ID))
			Expect(Must(store.GetAllInstances(CUP))).To(HaveLen(1))
		})

		It("creates new instances for absent ids", func() {
			id := uuid.New()
			i := Must(store.SetBlock(SCREWS, mesh("s1"), id))
			Expect(i.ID).NotTo(Equal(id))
		})

		It("handles multiple instances", func() {
			s1 := Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			s2 := Must(store.SetBlock(SCREWS, mesh("s2"), uuid.Nil))
			Expect(s1.ID).NotTo(Equal(s2.ID))
			list := Must(store.GetAllInstances(SCREWS))
			Expect(list).To(HaveLen(2))
			Expect(list[0].ID).To(Equal(s1.ID))
			Expect(list[1].ID).To(Equal(s2.ID))
			Expect(Must(store.GetInstance(SCREWS)).ID).To(Equal(s1.ID))
		})

		It("rejects category mismatches", func() {
			_, err := store.SetBlock(SKIRT, mesh("m1"), uuid.Nil)
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
			Expect(err).To(MatchError(`block kind "SkirtCurve": type mismatch: payload category mesh, but curve required`))
			Expect(store.HasBlock(SKIRT)).To(BeFalse())
		})

		It("rejects missing payloads", func() {
			_, err := store.SetBlock(CUP, nil, uuid.Nil)
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
			var ref *geometry.Ref
			_, err = store.SetBlock(CUP, ref, uuid.Nil)
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
		})

		It("rejects ids of other kinds", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			_, err := store.SetBlock(STUDS, mesh("m2"), i.ID)
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
			Expect(store.HasBlock(STUDS)).To(BeFalse())
		})

		It("rejects unknown kinds", func() {
			_, err := store.SetBlock(UNKNOWN, mesh("m1"), uuid.Nil)
			Expect(errors.Is(err, blocks.ErrUnknownBlockKind)).To(BeTrue())
			_, err = store.GetInstance(UNKNOWN)
			Expect(errors.Is(err, blocks.ErrUnknownBlockKind)).To(BeTrue())
			_, err = store.GetAllInstances(UNKNOWN)
			Expect(errors.Is(err, blocks.ErrUnknownBlockKind)).To(BeTrue())
			_, err = store.DeleteAllOfKind(UNKNOWN)
			Expect(errors.Is(err, blocks.ErrUnknownBlockKind)).To(BeTrue())
		})

		It("checks without modification", func() {
			MustBeSuccessful(store.CheckBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(store.CheckBlock(SKIRT, mesh("m1"), uuid.Nil)).To(MatchError(me.ErrTypeMismatch))
			Expect(store.Len()).To(Equal(0))
		})
	})

	Context("get", func() {
		It("reports missing instances", func() {
			_, err := store.GetInstance(CUP)
			Expect(errors.Is(err, me.ErrNotFound)).To(BeTrue())
			Expect(Must(store.GetAllInstances(CUP))).To(BeEmpty())
		})

		It("lists instances by kind", func() {
			s := Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			c := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(store.Kinds()).To(Equal([]blocks.Kind{CUP, SCREWS}))
			Expect(store.Instances()).To(Equal([]me.Instance{c, s}))
		})
	})

	Context("delete", func() {
		It("deletes instances", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(store.DeleteBlock(i.ID)).To(BeTrue())
			Expect(store.HasBlock(CUP)).To(BeFalse())
			_, ok := store.Get(i.ID)
			Expect(ok).To(BeFalse())
		})

		It("ignores absent instances", func() {
			i := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			before := store.Instances()
			Expect(store.DeleteBlock(uuid.New())).To(BeFalse())
			Expect(store.DeleteBlock(i.ID)).To(BeTrue())
			Expect(store.DeleteBlock(i.ID)).To(BeFalse())
			Expect(before).To(HaveLen(1))
			Expect(store.Instances()).To(BeEmpty())
		})

		It("deletes all instances of a kind", func() {
			Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			Must(store.SetBlock(SCREWS, mesh("s2"), uuid.Nil))
			c := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(store.DeleteAllOfKind(SCREWS)).To(Equal(2))
			Expect(store.DeleteAllOfKind(SCREWS)).To(Equal(0))
			Expect(store.Instances()).To(Equal([]me.Instance{c}))
		})

		It("deletes one of multiple instances", func() {
			s1 := Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			s2 := Must(store.SetBlock(SCREWS, mesh("s2"), uuid.Nil))
			Expect(store.DeleteBlock(s1.ID)).To(BeTrue())
			Expect(store.GetAllInstances(SCREWS)).To(Equal([]me.Instance{s2}))
		})
	})

	Context("import", func() {
		It("imports instances with identity", func() {
			id := uuid.New()
			MustBeSuccessful(store.Import(me.Instance{Kind: CUP, ID: id, Payload: mesh("m1"), Generation: 3}))
			i := Must(store.GetInstance(CUP))
			Expect(i.ID).To(Equal(id))
			Expect(i.Generation).To(Equal(int64(3)))
		})

		It("rejects a second instance for single kinds", func() {
			MustBeSuccessful(store.Import(me.Instance{Kind: CUP, ID: uuid.New(), Payload: mesh("m1")}))
			err := store.Import(me.Instance{Kind: CUP, ID: uuid.New(), Payload: mesh("m2")})
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
		})

		It("rejects missing ids", func() {
			err := store.Import(me.Instance{Kind: CUP, Payload: mesh("m1")})
			Expect(errors.Is(err, me.ErrTypeMismatch)).To(BeTrue())
		})
	})

	Context("events", func() {
		It("notifies handlers", func() {
			all := &Recorder{}
			screws := &Recorder{}
			store.RegisterHandler(all)
			store.RegisterHandler(screws, SCREWS)

			c := Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Must(store.SetBlock(CUP, mesh("m2"), c.ID))
			Must(store.SetBlock(SCREWS, mesh("s1"), uuid.Nil))
			Must(store.DeleteAllOfKind(SCREWS))
			store.DeleteBlock(c.ID)
			store.DeleteBlock(c.ID)

			Expect(all.events).To(Equal([]string{
				"created Cup", "updated Cup", "created Screws", "deleted Screws", "deleted Cup",
			}))
			Expect(screws.events).To(Equal([]string{"created Screws", "deleted Screws"}))

			store.UnregisterHandler(all)
			Must(store.SetBlock(CUP, mesh("m3"), uuid.Nil))
			Expect(all.events).To(HaveLen(5))
		})

		It("handles value handlers of non-comparable types", func() {
			count := 0
			Expect(func() {
				store.RegisterHandler(Counter{[]blocks.Kind{CUP}, &count})
				store.RegisterHandler(Counter{[]blocks.Kind{CUP}, &count})
			}).NotTo(Panic())
			Must(store.SetBlock(CUP, mesh("m1"), uuid.Nil))
			Expect(count).To(Equal(1))

			Expect(func() { store.UnregisterHandler(Counter{[]blocks.Kind{CUP}, &count}) }).NotTo(Panic())
			Must(store.SetBlock(CUP, mesh("m2"), uuid.Nil))
			Expect(count).To(Equal(1))
		})
	})
})
