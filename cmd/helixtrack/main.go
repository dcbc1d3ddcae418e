package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"

	"github.com/san-kum/helixtrack/internal/config"
	"github.com/san-kum/helixtrack/internal/helix"
	"github.com/san-kum/helixtrack/internal/montecarlo"
	"github.com/san-kum/helixtrack/internal/report"
	"github.com/san-kum/helixtrack/internal/transform"
	"github.com/san-kum/helixtrack/internal/tui"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	tesla      float64
	plain      bool
	verbose    bool

	charge   int
	position []float64
	momentum []float64
	sigma    []float64
	params   []float64
	asJSON   bool

	samples int
	workers int
	seed    uint64

	axis      string
	sweepPar  string
	points    int
	sweepMin  float64
	sweepMax  float64
	outConfig string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("helixtrack failed", slog.Any("err", err))
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Binding the flags resets the
// package-level flag values to their defaults.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "helixtrack",
		Short:         "helix track parameters and covariance propagation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			report.Plain = plain
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset track")
	rootCmd.PersistentFlags().Float64Var(&tesla, "tesla", 0, "solenoid field in T (0 keeps config, unit scale by default)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "disable colours")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log progress")

	convertCmd := &cobra.Command{
		Use:   "convert",
		Short: "convert a cartesian track to helix parameters",
		RunE:  runConvert,
	}
	addTrackFlags(convertCmd)
	convertCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	inverseCmd := &cobra.Command{
		Use:   "inverse",
		Short: "convert helix parameters to position, momentum and their error matrix",
		RunE:  runInverse,
	}
	inverseCmd.Flags().Float64SliceVar(&params, "params", nil, "d0,phi0,omega,dz,tanDip")
	inverseCmd.Flags().Float64SliceVar(&sigma, "sigma", nil, "five helix parameter uncertainties")
	inverseCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "check round trip, jacobian and covariance of a track",
		RunE:  runCheck,
	}
	addTrackFlags(checkCmd)

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "compare linearised propagation with monte carlo sampling",
		RunE:  runValidate,
	}
	addTrackFlags(validateCmd)
	validateCmd.Flags().IntVar(&samples, "samples", 0, "number of samples (0 keeps config)")
	validateCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0 keeps config)")
	validateCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 keeps config)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "plot a propagated uncertainty against azimuth or pt",
		RunE:  runSweep,
	}
	addTrackFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&axis, "axis", "phi", "sweep axis: phi or pt")
	sweepCmd.Flags().StringVar(&sweepPar, "param", "d0", "helix parameter to plot")
	sweepCmd.Flags().IntVar(&points, "points", 0, "number of points (0 keeps config)")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "lowest pt for the pt axis")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 100, "highest pt for the pt axis")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactively adjust helix parameters",
		RunE:  runExplore,
	}
	addTrackFlags(exploreCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				s := config.GetPreset(name).Track.GetState()
				fmt.Fprintf(cmd.OutOrStdout(), "  %-15s %s\n", name, s)
			}
			return nil
		},
	}

	saveCmd := &cobra.Command{
		Use:   "save-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return config.Save(args[0], cfg)
		},
	}
	addTrackFlags(saveCmd)

	rootCmd.AddCommand(convertCmd, inverseCmd, checkCmd, validateCmd, sweepCmd, exploreCmd, presetsCmd, saveCmd)

	return rootCmd
}

func addTrackFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&charge, "charge", 1, "track charge (+1 or -1)")
	cmd.Flags().Float64SliceVar(&position, "pos", nil, "position x,y,z")
	cmd.Flags().Float64SliceVar(&momentum, "mom", nil, "momentum px,py,pz")
	cmd.Flags().Float64SliceVar(&sigma, "sigma", nil, "six position-momentum uncertainties")
	cmd.Flags().StringVar(&outConfig, "save", "", "also write the effective config here")
}

// loadConfig layers defaults, preset, config file and flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if tesla != 0 {
		cfg.Field.Tesla = tesla
	}

	flags := cmd.Flags()
	if flags.Changed("charge") {
		cfg.Track.Charge = charge
	}
	if err := copyFlag(flags.Changed("pos"), cfg.Track.Position[:], position, "pos"); err != nil {
		return nil, err
	}
	if err := copyFlag(flags.Changed("mom"), cfg.Track.Momentum[:], momentum, "mom"); err != nil {
		return nil, err
	}
	if flags.Lookup("params") != nil {
		if err := copyFlag(flags.Changed("params"), cfg.Helix.Params[:], params, "params"); err != nil {
			return nil, err
		}
		if err := copyFlag(flags.Changed("sigma"), cfg.Helix.Sigma[:], sigma, "sigma"); err != nil {
			return nil, err
		}
		if flags.Changed("sigma") {
			cfg.Helix.Covariance = nil
		}
	} else {
		if err := copyFlag(flags.Changed("sigma"), cfg.Track.Sigma[:], sigma, "sigma"); err != nil {
			return nil, err
		}
		if flags.Changed("sigma") {
			cfg.Track.Covariance = nil
		}
	}
	if flags.Changed("samples") {
		cfg.MonteCarlo.Samples = samples
	}
	if flags.Changed("workers") {
		cfg.MonteCarlo.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.MonteCarlo.Seed = seed
	}
	if flags.Changed("points") {
		cfg.Sweep.Points = points
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if outConfig != "" {
		if err := config.Save(outConfig, cfg); err != nil {
			return nil, err
		}
		slog.Debug("wrote config", slog.String("path", outConfig))
	}
	slog.Debug("field", slog.Float64("k", cfg.GetField().CurvatureScale()))
	return cfg, nil
}

func copyFlag(changed bool, dst, src []float64, name string) error {
	if !changed {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("--%s needs %d values, got %d", name, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

// helixJSON carries non-finite values as null; encoding/json rejects NaN.
type helixJSON struct {
	Params     map[string]*float64 `json:"params"`
	Errors     map[string]*float64 `json:"errors"`
	Covariance []*float64          `json:"covariance"`
	Charge     int                 `json:"charge"`
	Pt         *float64            `json:"pt"`
	Invalid    bool                `json:"invalid,omitempty"`
	Problem    string              `json:"problem,omitempty"`
}

type cartesianJSON struct {
	Charge   int        `json:"charge"`
	Position [3]float64 `json:"position"`
	Momentum [3]float64 `json:"momentum"`
	Error    []*float64 `json:"error"`
	Invalid  bool       `json:"invalid,omitempty"`
}

func finite(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func finiteAll(xs []float64) []*float64 {
	out := make([]*float64, len(xs))
	for i, x := range xs {
		out[i] = finite(x)
	}
	return out
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr := transform.New(cfg.GetField())
	s, e := cfg.Track.GetState(), cfg.Track.GetError()
	if err := s.Validate(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}

	par, cov := tr.FromCartesian(s, e)
	covErr := cov.Validate()
	if covErr != nil {
		slog.Warn("propagated covariance is invalid", slog.Any("err", covErr))
	}

	w := cmd.OutOrStdout()
	if asJSON {
		out := helixJSON{
			Params:     map[string]*float64{},
			Errors:     map[string]*float64{},
			Covariance: finiteAll(cov.Raw()),
			Charge:     tr.Charge(par),
			Pt:         finite(tr.ToCartesian(par).Pt()),
		}
		if covErr != nil {
			out.Invalid = true
			out.Problem = covErr.Error()
		}
		for _, p := range helix.Params {
			out.Params[p.String()] = finite(par.At(p))
			out.Errors[p.String()] = finite(cov.Error(p))
		}
		return printJSON(w, out)
	}

	fmt.Fprintln(w, report.State(s, e))
	fmt.Fprintln(w, report.Parameters(par, cov))
	fmt.Fprintln(w, report.HelixCovariance(cov))
	return nil
}

func runInverse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr := transform.New(cfg.GetField())
	par, cov := cfg.Helix.GetParameters(), cfg.Helix.GetCovariance()
	if err := par.Validate(); err != nil {
		return err
	}
	if err := cov.Validate(); err != nil {
		return err
	}

	s := tr.ToCartesian(par)
	e := tr.PosMomError(par, cov)

	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, cartesianJSON{
			Charge:   s.Charge,
			Position: [3]float64{s.Position.X, s.Position.Y, s.Position.Z},
			Momentum: [3]float64{s.Momentum.X, s.Momentum.Y, s.Momentum.Z},
			Error:    finiteAll(e.Raw()),
			Invalid:  e.Validate() != nil,
		})
	}

	fmt.Fprintln(w, report.Parameters(par, cov))
	fmt.Fprintln(w, report.State(s, e))
	fmt.Fprintln(w, report.CartesianError(e))
	return nil
}

// errCheckFailed is returned by check when any verdict fails.
var errCheckFailed = errors.New("check failed")

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr := transform.New(cfg.GetField())
	s, e := cfg.Track.GetState(), cfg.Track.GetError()
	if err := s.Validate(); err != nil {
		return err
	}

	par, cov := tr.FromCartesian(s, e)
	rt := tr.RoundTripDeviation(par)
	jac := tr.CheckJacobian(s, 0)
	psd := cov.IsPositiveSemiDefinite(cfg.Tolerance.PSD)
	back := tr.PosMomError(par, cov)

	rtOK := rt < cfg.Tolerance.RoundTrip
	jacOK := jac.MaxDeviation < cfg.Tolerance.Jacobian
	chargeOK := tr.Charge(par) == s.Charge

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "round trip        %.2e  %s\n", rt, report.Verdict(rtOK))
	fmt.Fprintf(w, "jacobian          %.2e  %s  (worst d%s/d%s)\n", jac.MaxDeviation, report.Verdict(jacOK), jac.Row, jac.Col)
	fmt.Fprintf(w, "charge            %+d     %s\n", tr.Charge(par), report.Verdict(chargeOK))
	fmt.Fprintf(w, "covariance psd              %s\n", report.Verdict(psd))
	fmt.Fprintf(w, "inverse psd                 %s\n", report.Verdict(back.IsPositiveSemiDefinite(cfg.Tolerance.PSD)))

	if !rtOK || !jacOK || !chargeOK || !psd {
		return fmt.Errorf("%w for %s", errCheckFailed, s)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr := transform.New(cfg.GetField())
	s, e := cfg.Track.GetState(), cfg.Track.GetError()
	if err := s.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ens := montecarlo.NewEnsemble(tr, montecarlo.Config{
		Samples: cfg.MonteCarlo.Samples,
		Workers: cfg.MonteCarlo.Workers,
		Seed:    cfg.MonteCarlo.Seed,
	})
	slog.Debug("sampling",
		slog.Int("samples", cfg.MonteCarlo.Samples),
		slog.Int("workers", cfg.MonteCarlo.Workers))
	res, err := ens.Run(ctx, s, e)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-8s %12s %12s %8s %8s\n", "param", "linear σ", "sampled σ", "ratio", "bias")
	for _, p := range helix.Params {
		fmt.Fprintf(w, "%-8s %12.4e %12.4e %8.4f %+8.4f\n", p,
			res.Linearized.Error(p), res.Sampled.Error(p), res.SigmaRatio[p], res.Bias[p])
	}
	fmt.Fprintf(w, "\nmax deviation %.4f on %s (%d samples)\n", res.MaxDeviation, res.Worst, res.Samples)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, ok := helix.ParseParam(sweepPar)
	if !ok {
		return fmt.Errorf("unknown parameter: %s", sweepPar)
	}
	s, e := cfg.Track.GetState(), cfg.Track.GetError()
	if err := s.Validate(); err != nil {
		return err
	}

	res, err := report.Sweep(transform.New(cfg.GetField()), s, e, report.SweepSpec{
		Axis:   report.Axis(axis),
		Param:  p,
		Points: cfg.Sweep.Points,
		Min:    sweepMin,
		Max:    sweepMax,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Plot(cfg.Sweep.Width, cfg.Sweep.Height))
	return nil
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tr := transform.New(cfg.GetField())
	s := cfg.Track.GetState()
	if err := s.Validate(); err != nil {
		return err
	}
	par, cov := tr.FromCartesian(s, cfg.Track.GetError())
	return tui.RunExplorer(tr, par, cov)
}
