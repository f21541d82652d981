package ringfield_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gyropulse/internal/geom"
	"github.com/san-kum/gyropulse/internal/ringfield"
)

const tol = 1e-6

func stepFor(f *ringfield.Field, seconds float64, steps int) {
	dt := seconds / float64(steps)
	for i := 0; i < steps; i++ {
		f.Step(dt)
	}
}

func expectAligned(rings []ringfield.Ring, initial []float64) {
	for i, r := range rings {
		ExpectWithOffset(1, geom.AngleDist(r.Phase, initial[i])).To(BeNumerically("<", tol),
			"ring %d phase %v, want %v", i, r.Phase, initial[i])
	}
}

func phases(f *ringfield.Field) []float64 {
	var out []float64
	for _, r := range f.Rings() {
		out = append(out, r.Phase)
	}
	return out
}

func signedArea(pts []geom.Point2) float64 {
	var a float64
	for i := 0; i+1 < len(pts); i++ {
		a += pts[i].X*pts[i+1].Y - pts[i+1].X*pts[i].Y
	}
	return a / 2
}

var _ = Describe("Field", func() {
	var opts ringfield.Options

	BeforeEach(func() {
		opts = ringfield.DefaultOptions()
		opts.Rings = 4
		opts.BPM = 120
		opts.BeatsPerMeasure = 4
		opts.Multipliers = []int{1, 2, 3, 4}
	})

	Describe("periodicity", func() {
		It("returns four rings at 120 BPM to zero after two seconds", func() {
			f := ringfield.New(opts)
			Expect(f.Tempo().MeasureDuration()).To(BeNumerically("~", 2.0, 1e-12))

			stepFor(f, 2.0, 120)
			expectAligned(f.Rings(), []float64{0, 0, 0, 0})
		})

		DescribeTable("realigns after one measure for any integer multipliers",
			func(bpm float64, beats int, mults []int, steps int) {
				opts.BPM = bpm
				opts.BeatsPerMeasure = beats
				opts.Multipliers = mults
				opts.Rings = len(mults)
				f := ringfield.New(opts)
				start := phases(f)

				stepFor(f, f.Tempo().MeasureDuration(), steps)
				expectAligned(f.Rings(), start)
			},
			Entry("waltz", 90.0, 3, []int{1, -1, 2, 5}, 333),
			Entry("negative rates", 140.0, 4, []int{-7, 3, -2, 11, 0}, 500),
			Entry("slow", 20.0, 7, []int{13, -13}, 1000),
			Entry("fast", 300.0, 1, []int{16, -15, 1}, 17),
		)

		It("realigns the euler tilts too", func() {
			opts.Variant = ringfield.VariantEuler
			f := ringfield.New(opts)
			stepFor(f, 2.0, 240)
			for _, r := range f.Rings() {
				Expect(geom.AngleDist(r.TiltX, 0)).To(BeNumerically("<", tol))
				Expect(geom.AngleDist(r.TiltY, 0)).To(BeNumerically("<", tol))
			}
		})

		It("realigns in ratio mode after the ratio cycle", func() {
			opts.Mode = ringfield.ModeRatio
			opts.RPM = 60
			opts.Ratios = []ringfield.Ratio{{1, 1}, {3, 2}}
			opts.Rings = 2
			f := ringfield.New(opts)

			Expect(f.Rings()[0].Multiplier).To(Equal(2))
			Expect(f.Rings()[1].Multiplier).To(Equal(3))
			Expect(f.CycleDuration()).To(BeNumerically("~", 2.0, 1e-12))

			stepFor(f, 1.0, 60)
			Expect(geom.AngleDist(f.Rings()[0].Phase, 0)).To(BeNumerically("<", tol))
			Expect(geom.AngleDist(f.Rings()[1].Phase, math.Pi)).To(BeNumerically("<", tol))

			stepFor(f, 1.0, 60)
			expectAligned(f.Rings(), []float64{0, 0})
		})
	})

	Describe("invariants", func() {
		It("keeps every phase in [0, 2π)", func() {
			opts.Variant = ringfield.VariantEuler
			f := ringfield.New(opts)
			for _, dt := range []float64{1e-9, 0.016, 0.5, 3.7, 1000.3, 1e6} {
				f.Step(dt)
				t := f.Tempo()
				Expect(t.BeatPhase).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
				Expect(t.MeasurePhase).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
				for _, r := range f.Rings() {
					Expect(r.Phase).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
					Expect(r.TiltX).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
					Expect(r.TiltY).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
				}
			}
		})

		It("keeps the precessing axis normalized", func() {
			opts.Variant = ringfield.VariantWobble
			opts.PrecessionRatio = 3.3
			f := ringfield.New(opts)
			for i := 0; i < 20000; i++ {
				f.Step(1.0 / 60)
			}
			for _, r := range f.Rings() {
				Expect(r.Axis.Length()).To(BeNumerically("~", 1.0, 1e-6))
			}
		})

		It("actually precesses in the wobble variant", func() {
			opts.Variant = ringfield.VariantWobble
			f := ringfield.New(opts)
			before := f.Rings()[0].Axis
			f.Step(0.25)
			Expect(f.Rings()[0].Axis).NotTo(Equal(before))
		})

		It("moves every default axis in the wobble variant", func() {
			o := ringfield.DefaultOptions()
			o.Variant = ringfield.VariantWobble
			f := ringfield.New(o)
			var before []geom.Vec3
			for _, r := range f.Rings() {
				before = append(before, r.Axis)
			}
			stepFor(f, 1.0, 60)
			for i, r := range f.Rings() {
				Expect(r.Axis.Sub(before[i]).Length()).To(BeNumerically(">", 0.1), "ring %d axis did not move", i)
			}
		})

		It("keeps counting beats through a huge step", func() {
			f := ringfield.New(opts)
			tick := f.Step(1e19)
			Expect(tick.Beats).To(BeNumerically(">", 0))
			Expect(tick.Downbeats).To(BeNumerically(">", 0))
			Expect(f.Beats()).To(Equal(tick.Beats))
			Expect(f.BeatInMeasure()).To(And(BeNumerically(">=", 0), BeNumerically("<", 4)))
			t := f.Tempo()
			Expect(t.BeatPhase).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
			Expect(t.MeasurePhase).To(And(BeNumerically(">=", 0), BeNumerically("<", geom.TwoPi)))
		})

		It("counts beats as floor(D / interval) within one", func() {
			f := ringfield.New(opts)
			d := 10.3
			beats := 0
			steps := int(d * 60)
			for i := 0; i < steps; i++ {
				beats += f.Step(1.0 / 60).Beats
			}
			want := math.Floor(float64(steps) / 60 / f.Tempo().BeatInterval())
			Expect(float64(beats)).To(BeNumerically("~", want, 1))
			Expect(f.Beats()).To(Equal(beats))
			Expect(f.Downbeats()).To(Equal(beats / 4))
		})
	})

	Describe("projection", func() {
		It("never divides by a depth at or below the clamp", func() {
			f := ringfield.New(opts)
			f.Step(0.37)
			for _, d := range []float64{0, -0.5, -10, 1e-12, 0.05, 3} {
				cam := geom.Camera{Distance: d, FocalLength: 2}
				for _, r := range f.Rings() {
					p := f.ProjectRing(r, cam)
					for _, pt := range p.Points() {
						Expect(math.IsNaN(pt.X) || math.IsInf(pt.X, 0)).To(BeFalse())
						Expect(math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0)).To(BeFalse())
						limit := 2 * r.Radius / geom.MinDepth
						Expect(math.Abs(pt.X)).To(BeNumerically("<=", limit+1e-9))
						Expect(math.Abs(pt.Y)).To(BeNumerically("<=", limit+1e-9))
					}
				}
			}
		})

		It("produces closed contours wound for even-odd fill", func() {
			opts.Segments = 32
			opts.Multipliers = []int{1}
			opts.Rings = 1
			f := ringfield.New(opts)
			p := f.ProjectRing(f.Rings()[0], f.Camera())

			Expect(p.Outer).To(HaveLen(33))
			Expect(p.Inner).To(HaveLen(33))
			Expect(p.Outer[0]).To(Equal(p.Outer[32]))
			Expect(p.Inner[0]).To(Equal(p.Inner[32]))
			Expect(signedArea(p.Outer)).To(BeNumerically(">", 0))
			Expect(signedArea(p.Inner)).To(BeNumerically("<", 0))
			Expect(p.Points()).To(HaveLen(66))
		})

		It("omits the inner contour for bare circles", func() {
			opts.Thickness = 0
			f := ringfield.New(opts)
			Expect(f.ProjectRing(f.Rings()[0], f.Camera()).Inner).To(BeNil())
		})

		It("orders paths back to front", func() {
			f := ringfield.New(opts)
			f.Step(0.3)
			paths := f.ProjectAll()
			Expect(paths).To(HaveLen(4))
			for i := 1; i < len(paths); i++ {
				Expect(paths[i-1].Depth).To(BeNumerically(">=", paths[i].Depth))
			}
		})
	})

	Describe("beat pulse", func() {
		It("is zero before the first beat", func() {
			f := ringfield.New(opts)
			f.Step(0.2)
			Expect(f.BeatPulse()).To(Equal(0.0))
		})

		It("fires on the beat and decays over the pulse duration", func() {
			f := ringfield.New(opts)
			tick := f.Step(0.51)
			Expect(tick.Beats).To(Equal(1))
			Expect(tick.Haptic()).To(BeTrue())

			first := f.BeatPulse()
			Expect(first).To(BeNumerically("~", math.Exp(-5*0.01/0.3), 1e-9))
			Expect(f.BeatPulse()).To(Equal(first))

			f.Step(0.1)
			Expect(f.BeatPulse()).To(BeNumerically("<", first))
			f.Step(0.25)
			Expect(f.BeatPulse()).To(Equal(0.0))
		})

		It("decays linearly when configured", func() {
			opts.Pulse = ringfield.PulseLinear
			f := ringfield.New(opts)
			f.Step(0.51)
			Expect(f.BeatPulse()).To(BeNumerically("~", 1-0.01/0.3, 1e-9))
		})

		It("pulses on downbeats once per measure", func() {
			f := ringfield.New(opts)
			tick := f.Step(1.4)
			Expect(tick.Beats).To(Equal(2))
			Expect(tick.Downbeats).To(Equal(0))
			Expect(f.MeasurePulse()).To(Equal(0.0))

			tick = f.Step(0.61)
			Expect(tick.Downbeats).To(Equal(1))
			Expect(f.MeasurePulse()).To(BeNumerically(">", 0.8))
			Expect(f.BeatInMeasure()).To(Equal(0))
		})
	})

	Describe("setters", func() {
		It("clamps invalid tempos", func() {
			f := ringfield.New(opts)
			for _, bpm := range []float64{0, -30, math.NaN()} {
				f.SetTempo(bpm)
				Expect(f.Tempo().BPM).To(Equal(ringfield.BPMMin))
				Expect(f.Tempo().BaseAngularFrequency).To(BeNumerically(">", 0))
			}
			f.SetTempo(1e6)
			Expect(f.Tempo().BPM).To(Equal(ringfield.BPMMax))
			f.SetTempo(90)
			Expect(f.Tempo().BaseAngularFrequency).To(BeNumerically("~", 2*math.Pi*1.5/4, 1e-12))
		})

		It("clamps the speed scale and camera distance", func() {
			f := ringfield.New(opts)
			f.SetSpeedScale(0)
			Expect(f.Controls().SpeedScale).To(Equal(ringfield.SpeedMin))
			f.SetSpeedScale(50)
			Expect(f.Controls().SpeedScale).To(Equal(ringfield.SpeedMax))
			f.SetCameraDistance(0)
			Expect(f.Camera().Distance).To(Equal(ringfield.CameraMin))
		})

		It("integrates acceleration into the speed scale", func() {
			f := ringfield.New(opts)
			f.SetAcceleration(1)
			f.Step(0.5)
			Expect(f.Controls().SpeedScale).To(BeNumerically("~", 1.5, 1e-12))
			f.Step(10)
			Expect(f.Controls().SpeedScale).To(Equal(ringfield.SpeedMax))
		})

		It("yields an empty field for non-positive ring counts", func() {
			f := ringfield.New(opts)
			f.SetRingCount(-3)
			Expect(f.Len()).To(Equal(0))
			f.Step(0.1)
			Expect(f.ProjectAll()).To(BeEmpty())

			opts.Rings = 0
			Expect(ringfield.New(opts).Len()).To(Equal(0))
		})

		It("caps the ring count", func() {
			f := ringfield.New(opts)
			f.SetRingCount(100)
			Expect(f.Len()).To(Equal(ringfield.MaxRings))
		})

		It("assigns the same multipliers after shrinking as a fresh field", func() {
			opts.Multipliers = nil
			grown := ringfield.New(opts)
			grown.SetRingCount(6)
			grown.SetRingCount(3)

			opts.Rings = 3
			fresh := ringfield.New(opts)

			Expect(grown.Len()).To(Equal(3))
			for i := 0; i < 3; i++ {
				Expect(grown.Rings()[i].Multiplier).To(Equal(fresh.Rings()[i].Multiplier))
				Expect(grown.Rings()[i].Radius).To(Equal(fresh.Rings()[i].Radius))
			}
			Expect(fresh.Rings()[0].Multiplier).To(Equal(1))
			Expect(fresh.Rings()[1].Multiplier).To(Equal(-2))
			Expect(fresh.Rings()[2].Multiplier).To(Equal(3))
		})

		It("joins new rings in phase with the field", func() {
			opts.Rings = 2
			late := ringfield.New(opts)
			stepFor(late, 0.7, 42)
			late.SetRingCount(4)

			opts.Rings = 4
			early := ringfield.New(opts)
			stepFor(early, 0.7, 42)

			for i := 0; i < 4; i++ {
				Expect(geom.AngleDist(late.Rings()[i].Phase, early.Rings()[i].Phase)).To(BeNumerically("<", tol))
			}
		})

		It("replaces degenerate axes", func() {
			opts.Axes = []geom.Vec3{{}}
			f := ringfield.New(opts)
			for _, r := range f.Rings() {
				Expect(r.Axis).To(Equal(geom.UnitZ))
			}
		})

		It("keeps radius above thickness", func() {
			opts.Thickness = 5
			f := ringfield.New(opts)
			f.SetRingCount(ringfield.MaxRings)
			for _, r := range f.Rings() {
				Expect(r.Radius).To(BeNumerically(">", r.Thickness))
				Expect(r.Thickness).To(BeNumerically(">=", 0))
			}
		})

		It("switches multipliers with the mode and back", func() {
			f := ringfield.New(opts)
			f.ToggleMode()
			Expect(f.Mode()).To(Equal(ringfield.ModeRatio))
			Expect(f.Rings()[0].Multiplier).To(Equal(120))
			f.ToggleMode()
			Expect(f.Rings()[0].Multiplier).To(Equal(1))
		})

		It("alternates precession direction by ring", func() {
			f := ringfield.New(opts)
			f.SetPrecessionRatio(1.5)
			Expect(f.Rings()[0].PrecessionRate).To(Equal(1.5))
			Expect(f.Rings()[1].PrecessionRate).To(Equal(-1.5))
		})

		It("recomputes the base rate when the meter changes", func() {
			f := ringfield.New(opts)
			f.SetBeatsPerMeasure(3)
			Expect(f.Tempo().BaseAngularFrequency).To(BeNumerically("~", geom.TwoPi*2/3, 1e-12))
			Expect(f.Tempo().MeasureDuration()).To(BeNumerically("~", 1.5, 1e-12))

			stepFor(f, 1.5, 90)
			expectAligned(f.Rings(), []float64{0, 0, 0, 0})
		})

		It("clamps the meter", func() {
			f := ringfield.New(opts)
			f.SetBeatsPerMeasure(0)
			Expect(f.Tempo().BeatsPerMeasure).To(Equal(1))
			f.AdjustBeatsPerMeasure(100)
			Expect(f.Tempo().BeatsPerMeasure).To(Equal(ringfield.MaxBeatsPerBar))
		})

		It("restores the configured rpm on reset", func() {
			opts.Mode = ringfield.ModeRatio
			opts.RPM = 12
			f := ringfield.New(opts)
			cycle := f.CycleDuration()

			f.SetRPM(300)
			Expect(f.Controls().RPM).To(Equal(300.0))
			Expect(f.CycleDuration()).To(BeNumerically("<", cycle))

			f.Reset()
			Expect(f.Controls().RPM).To(Equal(12.0))
			Expect(f.Options().RPM).To(Equal(12.0))
			Expect(f.CycleDuration()).To(BeNumerically("~", cycle, 1e-12))
		})

		It("restores the construction options on reset", func() {
			f := ringfield.New(opts)
			f.SetTempo(200)
			f.SetSpeedScale(2)
			f.SetRingCount(9)
			f.Step(1.3)
			f.Reset()
			Expect(f.Tempo().BPM).To(Equal(120.0))
			Expect(f.Controls().SpeedScale).To(Equal(1.0))
			Expect(f.Len()).To(Equal(4))
			Expect(f.Beats()).To(Equal(0))
			expectAligned(f.Rings(), []float64{0, 0, 0, 0})
		})
	})

	Describe("pause", func() {
		It("freezes phases and resumes with the same delta", func() {
			paused := ringfield.New(opts)
			running := ringfield.New(opts)
			paused.Step(0.3)
			running.Step(0.3)

			paused.TogglePause()
			before := phases(paused)
			Expect(paused.Step(0.1)).To(Equal(ringfield.Tick{}))
			Expect(phases(paused)).To(Equal(before))

			paused.TogglePause()
			paused.Step(0.1)
			running.Step(0.1)
			Expect(phases(paused)).To(Equal(phases(running)))
		})

		It("ignores non-positive steps", func() {
			f := ringfield.New(opts)
			f.Step(0.2)
			before := phases(f)
			f.Step(0)
			f.Step(-1)
			f.Step(math.NaN())
			Expect(phases(f)).To(Equal(before))
		})
	})
})
