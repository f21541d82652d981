package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gyropulse/internal/analysis"
	"github.com/san-kum/gyropulse/internal/export"
	"github.com/san-kum/gyropulse/internal/storage"
)

var (
	xRing     int
	yRing     int
	strobe    bool
	svgAt     float64
	svgWidth  int
	svgHeight int
	outFile   string
)

func outputCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot ring phases and the beat pulse",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "measure each ring's rotation rate",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&xRing, "x-ring", 0, "ring for the portrait x axis")
	analyzeCmd.Flags().IntVar(&yRing, "y-ring", 1, "ring for the portrait y axis")
	analyzeCmd.Flags().BoolVar(&strobe, "strobe", false, "sample the portrait once per beat")
	analyzeCmd.Flags().StringVarP(&outFile, "output", "o", "", "also write the portrait as svg")

	svgCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "write a frame of the scene as svg",
		RunE:  exportSVG,
	}
	svgCmd.Flags().Float64Var(&svgAt, "at", 0, "scene time in seconds")
	svgCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	svgCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")
	svgCmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")

	csvCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run's samples as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	jsonCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its samples as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	return []*cobra.Command{plotCmd, analyzeCmd, svgCmd, csvCmd, jsonCmd}
}

const maxPlots = 6

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(res.Times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("tempo: %.1f bpm, %d beats per measure\n", meta.BPM, meta.BeatsPerMeasure)
	fmt.Printf("samples: %d\n\n", len(res.Times))

	rings := len(res.Phases[len(res.Phases)-1])
	if rings > maxPlots {
		rings = maxPlots
	}
	for i := 0; i < rings; i++ {
		fmt.Println(asciigraph.Plot(res.Trace(i),
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("ring %d phase", i)),
		))
		fmt.Println()
	}
	fmt.Println(asciigraph.Plot(res.Pulses,
		asciigraph.Height(6),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption("beat pulse"),
	))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if len(res.Times) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("rotation analysis: %s\n", meta.ID)
	measureRate := meta.BPM / 60 / float64(meta.BeatsPerMeasure)
	fmt.Printf("measure rate: %.4f hz\n\n", measureRate)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RING\tRATE (rad/s)\tTURNS/MEASURE\tFFT PEAK (hz)")
	rings := len(res.Phases[len(res.Phases)-1])
	for i := 0; i < rings; i++ {
		rate := analysis.RingRate(res, i)
		turns := 0.0
		if measureRate > 0 {
			turns = rate / (2 * math.Pi) / measureRate
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.3f\t%.4f\n", i, rate, turns, analysis.RingFrequency(res, i))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	ps := analysis.PowerSpectrum(cosTrace(res.Trace(0)))
	if len(ps) > 8 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(ps[:len(ps)/4],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum (ring 0)"),
		))
	}

	if xRing >= rings || yRing >= rings {
		return nil
	}
	portrait := analysis.Lissajous(res, xRing, yRing)
	if strobe {
		portrait = analysis.StrobeSection(res, xRing, yRing)
	}
	fmt.Printf("\nportrait: ring %d vs ring %d\n", xRing, yRing)
	fmt.Println(analysis.PortraitToASCII(portrait, 60, 20))

	if outFile != "" {
		svg := export.PortraitToSVG(portrait, 600, 600, "#00ff88")
		if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}
	return nil
}

func cosTrace(phases []float64) []float64 {
	out := make([]float64, len(phases))
	for i, p := range phases {
		if !math.IsNaN(p) {
			out[i] = math.Cos(p)
		}
	}
	return out
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, f, _, err := buildField()
	if err != nil {
		return err
	}
	const step = 1.0 / 240
	for t := 0.0; t+step/2 < svgAt; t += step {
		f.Step(step)
	}

	opts := export.DefaultSVGOptions()
	opts.Width = svgWidth
	opts.Height = svgHeight

	var w io.Writer = os.Stdout
	if outFile != "" {
		file, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer file.Close()
		w = file
	}
	return export.FieldToSVG(w, f, opts)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	res, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, res)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	res, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, res)
}
