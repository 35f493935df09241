package visualizer_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/render"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/visualizer"
)

func instant(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// gate blocks every paced wait until released, signalling each entry.
type gate struct {
	open    chan struct{}
	entered chan struct{}
}

func newGate() *gate {
	return &gate{open: make(chan struct{}), entered: make(chan struct{}, 1)}
}

func (g *gate) sleep(ctx context.Context, _ time.Duration) error {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	select {
	case <-g.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type result struct {
	report *visualizer.Report
	err    error
}

func runAsync(v *visualizer.Visualizer, alg sorting.Algorithm) <-chan result {
	ch := make(chan result, 1)
	go func() {
		r, err := v.Run(context.Background(), alg)
		ch <- result{r, err}
	}()
	return ch
}

func liftOf(v *visualizer.Visualizer, sc *render.Scene, id scene.Identity) float64 {
	h, err := v.Registry().Lookup(id)
	Expect(err).NotTo(HaveOccurred())
	p, ok := sc.Position(h)
	Expect(ok).To(BeTrue())
	return p.Get(scene.LiftAxis)
}

func placementOf(v *visualizer.Visualizer, sc *render.Scene, id scene.Identity) float64 {
	h, err := v.Registry().Lookup(id)
	Expect(err).NotTo(HaveOccurred())
	p, ok := sc.Position(h)
	Expect(ok).To(BeTrue())
	return p.Get(scene.PlacementAxis)
}

var _ = Describe("Visualizer", func() {
	var (
		sc   *render.Scene
		opts visualizer.Options
		v    *visualizer.Visualizer
	)

	BeforeEach(func() {
		sc = render.NewScene()
		opts = visualizer.DefaultOptions()
		opts.Seed = 11
		opts.Sleeper = instant
	})

	JustBeforeEach(func() {
		v = visualizer.New(sc, opts)
	})

	Describe("starting a run", func() {
		It("returns an empty-array notice before any array exists", func() {
			report, err := v.Run(context.Background(), sorting.Bubble)
			Expect(err).To(MatchError(visualizer.ErrEmptyArray))
			Expect(visualizer.IsNotice(err)).To(BeTrue())
			Expect(report).To(BeNil())
			Expect(v.IsRunning()).To(BeFalse())
		})

		It("rejects an unknown algorithm as a programmer error", func() {
			_, err := v.Run(context.Background(), sorting.Algorithm("bogo"))
			Expect(err).To(MatchError(sorting.ErrUnknownAlgorithm))
			Expect(visualizer.IsNotice(err)).To(BeFalse())
		})

		It("sorts with every algorithm and returns to idle", func() {
			for _, alg := range sorting.Algorithms() {
				_, err := v.Generate(12, 16)
				Expect(err).NotTo(HaveOccurred())

				report, err := v.Run(context.Background(), alg)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Sorted).To(BeTrue(), string(alg))
				Expect(report.Cancelled || report.Stale).To(BeFalse())
				Expect(v.IsRunning()).To(BeFalse())
				Expect(report.Final).To(Equal(v.Values()))
				Expect(report.Metrics["exchanges"]).To(BeNumerically("==", len(report.Exchanges())))
			}
		})

		It("animates exactly the exchanges the driver performs", func() {
			values := []int{7, 1, 7, 3, 12, 2, 9, 4}
			for _, alg := range sorting.Algorithms() {
				elems, err := v.Load(values)
				Expect(err).NotTo(HaveOccurred())
				drive, _ := alg.Driver()
				expected := sorting.Drain(scene.NewArray(elems), drive)

				report, err := v.Run(context.Background(), alg)
				Expect(err).NotTo(HaveOccurred())
				Expect(report.Records).To(HaveLen(len(expected)), string(alg))
				for i, rec := range report.Records {
					Expect(rec.Step).To(Equal(expected[i]))
				}
			}
		})

		It("leaves every bar at its element's slot", func() {
			_, err := v.Load([]int{5, 3, 8, 1, 9, 2})
			Expect(err).NotTo(HaveOccurred())
			_, err = v.Run(context.Background(), sorting.Insertion)
			Expect(err).NotTo(HaveOccurred())

			for i, e := range v.Elements() {
				Expect(placementOf(v, sc, e.ID)).To(Equal(v.Registry().SlotPosition(i)))
			}
		})
	})

	Describe("quick sort end to end", func() {
		It("partitions [8,3,9,1,5] the Lomuto way", func() {
			_, err := v.Load([]int{8, 3, 9, 1, 5})
			Expect(err).NotTo(HaveOccurred())

			report, err := v.Run(context.Background(), sorting.Quick)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Final).To(Equal([]int{1, 3, 5, 8, 9}))

			var got [][2]int
			var snapshots [][]int
			for _, rec := range report.Exchanges() {
				got = append(got, [2]int{rec.Step.I, rec.Step.J})
				snapshots = append(snapshots, rec.Values)
			}
			Expect(got).To(Equal([][2]int{{1, 1}, {3, 2}, {4, 3}, {0, 3}, {1, 1}, {2, 2}, {0, 2}, {0, 0}}))
			Expect(snapshots[3]).To(Equal([]int{5, 3, 1, 8, 9}))
			Expect(snapshots[6]).To(Equal([]int{1, 3, 5, 8, 9}))
		})
	})

	Describe("generate", func() {
		It("discards every identity of the previous array", func() {
			first, err := v.Generate(10, 16)
			Expect(err).NotTo(HaveOccurred())
			_, err = v.Generate(10, 16)
			Expect(err).NotTo(HaveOccurred())

			for _, e := range first {
				_, err := v.Registry().Lookup(e.ID)
				Expect(err).To(MatchError(scene.ErrNotFound))
			}
			Expect(sc.Len()).To(Equal(10))
		})

		It("uses the configured defaults on regenerate", func() {
			elems, err := v.Regenerate()
			Expect(err).NotTo(HaveOccurred())
			Expect(elems).To(HaveLen(10))
			for _, e := range elems {
				Expect(e.Value).To(BeNumerically(">=", 1))
				Expect(e.Value).To(BeNumerically("<=", 16))
			}
		})

		It("fails fast on a negative size", func() {
			_, err := v.Generate(-1, 16)
			Expect(err).To(MatchError(scene.ErrInvalidSize))
		})
	})

	Context("while a run is active", func() {
		var g *gate

		BeforeEach(func() {
			g = newGate()
			opts.Sleeper = g.sleep
		})

		It("rejects a second run and regeneration without touching the array", func() {
			_, err := v.Load([]int{4, 3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			done := runAsync(v, sorting.Bubble)
			Eventually(g.entered).Should(Receive())
			Expect(v.IsRunning()).To(BeTrue())

			before := v.Elements()
			_, err = v.Run(context.Background(), sorting.Quick)
			Expect(err).To(MatchError(visualizer.ErrRunActive))
			Expect(visualizer.IsNotice(err)).To(BeTrue())
			_, err = v.Generate(5, 16)
			Expect(err).To(MatchError(visualizer.ErrRunActive))
			_, err = v.Load([]int{1})
			Expect(err).To(MatchError(visualizer.ErrRunActive))
			Expect(v.Elements()).To(Equal(before))

			close(g.open)
			var res result
			Eventually(done).Should(Receive(&res))
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.report.Final).To(Equal([]int{1, 2, 3, 4}))
			Expect(v.IsRunning()).To(BeFalse())
		})

		It("cancels and keeps the scene consistent with the array", func() {
			_, err := v.Load([]int{6, 5, 4, 3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			done := runAsync(v, sorting.Selection)
			Eventually(g.entered).Should(Receive())

			v.Cancel()
			var res result
			Eventually(done).Should(Receive(&res))
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.report.Cancelled).To(BeTrue())
			Expect(v.IsRunning()).To(BeFalse())
			Expect(v.Values()).To(Equal([]int{6, 5, 4, 3, 2, 1}))

			for i, e := range v.Elements() {
				Expect(placementOf(v, sc, e.ID)).To(Equal(v.Registry().SlotPosition(i)))
			}
		})

		DescribeTable("cancelling a shifting sort leaves every bar resting at its slot",
			func(alg sorting.Algorithm, values []int) {
				_, err := v.Load(values)
				Expect(err).NotTo(HaveOccurred())
				done := runAsync(v, alg)
				Eventually(g.entered).Should(Receive())

				v.Cancel()
				var res result
				Eventually(done).Should(Receive(&res))
				Expect(res.err).NotTo(HaveOccurred())
				Expect(res.report.Cancelled).To(BeTrue())
				Expect(v.Values()).To(Equal(values))

				for i, e := range v.Elements() {
					Expect(placementOf(v, sc, e.ID)).To(Equal(v.Registry().SlotPosition(i)))
					Expect(liftOf(v, sc, e.ID)).To(Equal(float64(e.Value)/2), string(e.ID))
				}
			},
			Entry("insertion", sorting.Insertion, []int{2, 1}),
			Entry("insertion with a longer prefix", sorting.Insertion, []int{5, 4, 3, 2, 1}),
			Entry("shell", sorting.Shell, []int{6, 5, 4, 3, 2, 1}),
		)

		It("sorts cleanly after a cancelled insertion run", func() {
			_, err := v.Load([]int{2, 1})
			Expect(err).NotTo(HaveOccurred())
			done := runAsync(v, sorting.Insertion)
			Eventually(g.entered).Should(Receive())
			v.Cancel()
			Eventually(done).Should(Receive())

			v.Animator().SetSleeper(instant)
			report, err := v.Run(context.Background(), sorting.Insertion)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Sorted).To(BeTrue())
			for i, e := range v.Elements() {
				Expect(placementOf(v, sc, e.ID)).To(Equal(v.Registry().SlotPosition(i)))
				Expect(liftOf(v, sc, e.ID)).To(Equal(float64(e.Value) / 2))
			}
		})

		It("cancels when the caller's context ends", func() {
			_, err := v.Load([]int{2, 1})
			Expect(err).NotTo(HaveOccurred())
			ctx, cancel := context.WithCancel(context.Background())
			ch := make(chan result, 1)
			go func() {
				r, err := v.Run(ctx, sorting.Bubble)
				ch <- result{r, err}
			}()
			Eventually(g.entered).Should(Receive())
			cancel()

			var res result
			Eventually(ch).Should(Receive(&res))
			Expect(res.report.Cancelled).To(BeTrue())
		})

		It("tears down mid-run without further mutation", func() {
			_, err := v.Load([]int{3, 2, 1})
			Expect(err).NotTo(HaveOccurred())
			done := runAsync(v, sorting.Bubble)
			Eventually(g.entered).Should(Receive())
			writes := sc.Writes()

			v.Teardown()
			var res result
			Eventually(done).Should(Receive(&res))
			Expect(res.err).NotTo(HaveOccurred())
			Expect(res.report.Cancelled || res.report.Stale).To(BeTrue())
			Expect(sc.Len()).To(BeZero())
			Expect(sc.Writes()).To(Equal(writes))
			Expect(v.IsRunning()).To(BeFalse())

			_, err = v.Run(context.Background(), sorting.Bubble)
			Expect(err).To(MatchError(visualizer.ErrTornDown))
			_, err = v.Generate(3, 3)
			Expect(err).To(MatchError(visualizer.ErrTornDown))
			v.Teardown()
		})
	})

	Context("when the scene is replaced under a paced step", func() {
		var fresh []scene.Element

		BeforeEach(func() {
			opts.Sleeper = func(ctx context.Context, _ time.Duration) error {
				if fresh == nil {
					var err error
					fresh, err = v.Registry().Load([]int{10, 20, 30})
					Expect(err).NotTo(HaveOccurred())
				}
				return nil
			}
		})

		AfterEach(func() { fresh = nil })

		It("resolves the step as stale and never moves the new bars", func() {
			_, err := v.Load([]int{2, 1})
			Expect(err).NotTo(HaveOccurred())

			report, err := v.Run(context.Background(), sorting.Bubble)
			Expect(err).NotTo(HaveOccurred())
			Expect(report.Stale).To(BeTrue())
			Expect(report.Metrics["stale_steps"]).To(BeNumerically("==", 1))
			Expect(sc.Writes()).To(BeZero())
			for i, e := range fresh {
				Expect(placementOf(v, sc, e.ID)).To(Equal(v.Registry().SlotPosition(i)))
			}
		})
	})

	It("notifies observers given in the options", func() {
		spy := &countingObserver{}
		o := visualizer.DefaultOptions()
		o.Sleeper = instant
		o.Observers = []animate.Observer{spy}
		viz := visualizer.New(render.NewScene(), o)
		_, err := viz.Load([]int{5, 5})
		Expect(err).NotTo(HaveOccurred())

		_, err = viz.Run(context.Background(), sorting.Selection)
		Expect(err).NotTo(HaveOccurred())
		Expect(spy.exchanges).To(Equal(1))
	})
})

type countingObserver struct{ exchanges int }

func (c *countingObserver) OnStep(step sorting.Step, _ animate.Outcome) {
	if step.Op == sorting.OpExchange {
		c.exchanges++
	}
}
