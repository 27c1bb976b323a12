package orrery_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/orrery/internal/geom"
	"github.com/san-kum/orrery/internal/orrery"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

var _ = Describe("Focus transition", func() {
	var (
		clock *fakeClock
		ctrl  *orrery.Controller
		start geom.Vec3
	)

	BeforeEach(func() {
		clock = &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
		ctrl = orrery.New(nil, nil, orrery.WithClock(clock.Now))
		ctrl.Tick(3.0)
		start = ctrl.Camera().Position
	})

	It("starts Idle", func() {
		Expect(ctrl.Focusing()).To(BeFalse())
		Expect(ctrl.AdvanceFocusTransition(clock.Now())).To(BeFalse())
	})

	It("rejects unknown bodies without starting", func() {
		err := ctrl.FocusOn("pluto")
		Expect(err).To(MatchError(orrery.ErrUnknownBody))
		Expect(ctrl.Focusing()).To(BeFalse())
	})

	Context("after FocusOn", func() {
		var target geom.Vec3

		BeforeEach(func() {
			saturn, _ := ctrl.Body("saturn")
			target = saturn.WorldPosition()
			Expect(ctrl.FocusOn("saturn")).To(Succeed())
		})

		It("is InFlight and has not moved yet", func() {
			Expect(ctrl.Focusing()).To(BeTrue())
			Expect(ctrl.AdvanceFocusTransition(clock.Now())).To(BeTrue())
			Expect(ctrl.Camera().Position).To(Equal(start))
			Expect(ctrl.Camera().Target).To(Equal(target))
		})

		It("is halfway at the midpoint", func() {
			clock.Advance(500 * time.Millisecond)
			ctrl.AdvanceFocusTransition(clock.Now())

			end := target.Add(orrery.FocusOffset)
			mid := geom.Lerp(start, end, 0.5)
			pos := ctrl.Camera().Position
			Expect(pos.X).To(BeNumerically("~", mid.X, 1e-9))
			Expect(pos.Y).To(BeNumerically("~", mid.Y, 1e-9))
			Expect(pos.Z).To(BeNumerically("~", mid.Z, 1e-9))
		})

		It("lands exactly on the end pose and goes Idle", func() {
			clock.Advance(orrery.FocusDuration)
			Expect(ctrl.AdvanceFocusTransition(clock.Now())).To(BeFalse())

			Expect(ctrl.Camera().Position).To(Equal(target.Add(orrery.FocusOffset)))
			Expect(ctrl.Camera().Target).To(Equal(target))
			Expect(ctrl.Focusing()).To(BeFalse())
		})

		It("overshooting the duration still lands on the end pose", func() {
			clock.Advance(7 * time.Second)
			ctrl.Tick(0.016)

			Expect(ctrl.Camera().Position).To(Equal(target.Add(orrery.FocusOffset)))
			Expect(ctrl.Focusing()).To(BeFalse())
		})

		It("does not track the body while it keeps orbiting", func() {
			for i := 0; i < 10; i++ {
				clock.Advance(50 * time.Millisecond)
				ctrl.Tick(0.5)
			}
			moved, _ := ctrl.Body("saturn")
			Expect(moved.WorldPosition()).NotTo(Equal(target))
			Expect(ctrl.Camera().Target).To(Equal(target))
		})

		It("keeps moving while the simulation is paused", func() {
			ctrl.TogglePause()
			clock.Advance(250 * time.Millisecond)
			ctrl.Tick(0.25)

			Expect(ctrl.Camera().Position).NotTo(Equal(start))
			Expect(ctrl.Focusing()).To(BeTrue())

			clock.Advance(time.Second)
			ctrl.Tick(0.25)
			Expect(ctrl.Focusing()).To(BeFalse())
		})

		It("restarts from the current interpolated position", func() {
			clock.Advance(300 * time.Millisecond)
			ctrl.AdvanceFocusTransition(clock.Now())
			current := ctrl.Camera().Position
			Expect(current).NotTo(Equal(start))

			mars, _ := ctrl.Body("mars")
			marsPos := mars.WorldPosition()
			Expect(ctrl.FocusOn("mars")).To(Succeed())

			Expect(ctrl.State().Focus.Start).To(Equal(current))
			Expect(ctrl.State().Focus.Target).To(Equal(marsPos))

			ctrl.AdvanceFocusTransition(clock.Now())
			Expect(ctrl.Camera().Position).To(Equal(current))
			Expect(ctrl.Camera().Target).To(Equal(marsPos))

			clock.Advance(orrery.FocusDuration)
			ctrl.AdvanceFocusTransition(clock.Now())
			Expect(ctrl.Camera().Position).To(Equal(marsPos.Add(orrery.FocusOffset)))
		})
	})
})

var _ = Describe("Pause", func() {
	It("round-trips with zero net angle change", func() {
		ctrl := orrery.New(nil, nil)
		ctrl.Tick(1)
		before := ctrl.Bodies()

		ctrl.TogglePause()
		ctrl.Tick(5)
		ctrl.TogglePause()

		Expect(ctrl.Paused()).To(BeFalse())
		Expect(ctrl.Bodies()).To(Equal(before))
	})

	It("resumes from the frozen angle", func() {
		ctrl := orrery.New(nil, nil)
		ctrl.Tick(1)
		ctrl.TogglePause()
		ctrl.Tick(10)
		ctrl.TogglePause()
		ctrl.Tick(1)

		earth, _ := ctrl.Body("earth")
		Expect(earth.OrbitalAngle).To(BeNumerically("~", 0.2, 1e-12))
	})
})
