package experiment_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/analysis"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/config"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/dynamo"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/experiment"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/grid"
	"github.com/jinchen-zhao/cascaded-nonlinearity/internal/physics"
)

func smallGrid() config.GridParams {
	g := config.DefaultGrid()
	g.TPrecision = 256
	g.ZPrecision = 200
	return g
}

func runConfig(cfg *config.Config) *dynamo.Result {
	result, err := experiment.RunConfig(context.Background(), cfg)
	Expect(err).NotTo(HaveOccurred())
	Expect(result.StepsTaken).To(Equal(cfg.Grid().ZPrecision))
	return result
}

var _ = Describe("Kerr propagation", func() {
	It("conserves energy at every step", func() {
		cfg := config.DefaultConfig()
		cfg.Model = config.ModelKerr
		cfg.Kerr.GridParams = smallGrid()

		g, err := grid.New(cfg.Kerr.Spec())
		Expect(err).NotTo(HaveOccurred())
		input := physics.InputEnergy(physics.Sech(g.Tau))

		result := runConfig(cfg)
		for i := 0; i < result.StepsTaken; i++ {
			e := dynamo.Field(result.Time[0].Row(i)).Energy()
			Expect(math.Abs(e-input) / input).To(BeNumerically("<", 1e-9), "step %d", i)
		}
	})

	It("keeps the envelope magnitude without dispersion", func() {
		cfg := config.GetPreset(config.ModelKerr, "dispersionless")
		Expect(cfg).NotTo(BeNil())

		g, err := grid.New(cfg.Kerr.Spec())
		Expect(err).NotTo(HaveOccurred())
		initial := physics.Sech(g.Tau).Abs(nil)

		result := runConfig(cfg)
		mags := result.Time[0].Abs()
		worst := 0.0
		for _, row := range mags {
			for k, v := range row {
				worst = math.Max(worst, math.Abs(v-initial[k]))
			}
		}
		Expect(worst).To(BeNumerically("<", 1e-9))
	})

	It("broadens the spectrum on every step under pure self-phase modulation", func() {
		p := config.DefaultKerr()
		p.GridParams = smallGrid()
		p.Beta2 = 0
		p.Length = 2
		p.ZPrecision = 100

		report, err := experiment.Kerr(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(report.SpectralWidth).To(HaveLen(p.ZPrecision))
		for i := 1; i < len(report.SpectralWidth); i++ {
			Expect(report.SpectralWidth[i]).To(BeNumerically(">", report.SpectralWidth[i-1]), "step %d", i)
		}

		cfg := config.DefaultConfig()
		cfg.Model = config.ModelKerr
		cfg.Kerr = p
		result := runConfig(cfg)
		Expect(result.Metrics).To(HaveKey(experiment.SpectralBroadening))
		Expect(result.Metrics[experiment.SpectralBroadening]).To(BeNumerically(">", 1))
	})
})

var _ = Describe("SHG propagation", func() {
	Context("with default parameters", Ordered, func() {
		var report *analysis.SHGReport

		BeforeAll(func() {
			var err error
			report, err = experiment.SHG(context.Background(), config.DefaultSHG())
			Expect(err).NotTo(HaveOccurred())
		})

		It("starts with the pump holding all the energy", func() {
			steps := len(report.Energy.Sum)
			Expect(steps).To(Equal(config.DefaultZPrecision))
			for i := 0; i < steps/100; i++ {
				Expect(report.Energy.Sum[i]).To(BeNumerically("~", 1, 1e-3), "step %d", i)
			}
		})

		It("converts a measurable fraction to the second harmonic", func() {
			Expect(analysis.Final(report.Energy.Signal)).To(BeNumerically(">", 0.01))
		})

		It("reports every history with one row per step", func() {
			Expect(report.PumpTime).To(HaveLen(config.DefaultZPrecision))
			Expect(report.SignalSpectrum).To(HaveLen(config.DefaultZPrecision))
			Expect(report.PumpSpectrum[0]).To(HaveLen(config.DefaultTPrecision))
		})
	})

	It("suppresses conversion under a large phase mismatch", func() {
		p := config.DefaultSHG()
		p.GridParams = smallGrid()
		p.Length = 2e-6
		p.DBeta0 = 1e8

		report, err := experiment.SHG(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		for i := range report.Energy.Signal {
			Expect(report.Energy.Signal[i]).To(BeNumerically("<", 1e-3))
			Expect(report.Energy.Pump[i]).To(BeNumerically(">", 0.99))
		}

		uncoupled := p
		uncoupled.NLLength1 = math.Inf(1)
		uncoupled.NLLength2 = math.Inf(1)
		linear, err := experiment.SHG(context.Background(), uncoupled)
		Expect(err).NotTo(HaveOccurred())

		Expect(report.PumpTime).To(HaveLen(len(linear.PumpTime)))
		for i, row := range report.PumpTime {
			for k, v := range row {
				Expect(v).To(BeNumerically("~", linear.PumpTime[i][k], 5e-3), "step %d sample %d", i, k)
			}
		}
	})

	It("reduces to linear dispersion with infinite nonlinear lengths", func() {
		shg := config.DefaultConfig()
		shg.SHG.GridParams = smallGrid()
		shg.SHG.NLLength1 = math.Inf(1)
		shg.SHG.NLLength2 = math.Inf(1)

		kerr := config.DefaultConfig()
		kerr.Model = config.ModelKerr
		kerr.Kerr.GridParams = smallGrid()
		kerr.Kerr.Beta2 = shg.SHG.Beta21
		kerr.Kerr.Gamma = 0

		a := runConfig(shg)
		b := runConfig(kerr)

		for i := 0; i < a.StepsTaken; i++ {
			pa, pb := a.Time[physics.Pump].Row(i), b.Time[0].Row(i)
			for k := range pa {
				Expect(real(pa[k])).To(BeNumerically("~", real(pb[k]), 1e-9))
				Expect(imag(pa[k])).To(BeNumerically("~", imag(pb[k]), 1e-9))
			}
		}
	})
})

var _ = DescribeTable("determinism",
	func(model string) {
		cfg := config.DefaultConfig()
		cfg.Model = model
		cfg.SHG.GridParams = smallGrid()
		cfg.Kerr.GridParams = smallGrid()

		a := runConfig(cfg)
		b := runConfig(cfg)

		Expect(a.Fields).To(Equal(b.Fields))
		for f := range a.Fields {
			for i := 0; i < a.StepsTaken; i++ {
				Expect(a.Time[f].Row(i)).To(Equal(b.Time[f].Row(i)))
				Expect(a.Spectrum[f].Row(i)).To(Equal(b.Spectrum[f].Row(i)))
			}
		}
		Expect(a.Energy).To(Equal(b.Energy))
	},
	Entry("shg", config.ModelSHG),
	Entry("kerr", config.ModelKerr),
)

var _ = Describe("backends", func() {
	It("produce matching histories", func() {
		dsp := config.DefaultConfig()
		dsp.SHG.GridParams = smallGrid()
		dsp.SHG.ZPrecision = 50

		gonum := *dsp
		gonum.Backend = "gonum"

		a := runConfig(dsp)
		b := runConfig(&gonum)

		for f := range a.Fields {
			last := a.StepsTaken - 1
			ra, rb := a.Time[f].Row(last), b.Time[f].Row(last)
			for k := range ra {
				Expect(real(ra[k])).To(BeNumerically("~", real(rb[k]), 1e-9))
				Expect(imag(ra[k])).To(BeNumerically("~", imag(rb[k]), 1e-9))
			}
		}
	})
})
