package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mfaller/shadetemp/internal/engine"
	"github.com/mfaller/shadetemp/internal/solar"
	"github.com/mfaller/shadetemp/internal/store"
	"github.com/mfaller/shadetemp/internal/weather"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shadetemp",
		Short: "Generate facade-shaded weather files from solar irradiance data",
		Long: `Shadetemp adjusts hourly temperatures in a TRY weather file wherever the
solar irradiance on a building facade exceeds a threshold, simulating
automatic solar shading. One shaded weather file is written per facade.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.shadetemp/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "history database path (default is $HOME/.shadetemp/shadetemp.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")

	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(facadesCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		configDir := filepath.Join(home, ".shadetemp")
		os.MkdirAll(configDir, 0755)

		viper.AddConfigPath(configDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetDefault("threshold", 200.0)
	viper.SetDefault("delta_t", 7.0)
	viper.SetDefault("output_dir", "output")

	viper.AutomaticEnv()
	viper.ReadInConfig()

	if dbPath == "" {
		home, _ := os.UserHomeDir()
		dbPath = filepath.Join(home, ".shadetemp", "shadetemp.db")
	}
}

func newLogger() *zap.SugaredLogger {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger.Sugar()
}

// runParams resolves threshold/delta from flags, falling back to viper
// (config file or environment) when the flag was not given.
func runParams(cmd *cobra.Command, weatherFile, solarFile string, threshold, deltaT float64) engine.Params {
	if !cmd.Flags().Changed("threshold") {
		threshold = viper.GetFloat64("threshold")
	}
	if !cmd.Flags().Changed("delta") {
		deltaT = viper.GetFloat64("delta_t")
	}
	return engine.Params{
		Threshold:   threshold,
		DeltaT:      deltaT,
		WeatherFile: weatherFile,
		SolarFile:   solarFile,
	}
}

func processCmd() *cobra.Command {
	var weatherFile, solarFile, outDir string
	var threshold, deltaT float64

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process all facades and write one shaded weather file per facade",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			if !cmd.Flags().Changed("out") {
				outDir = viper.GetString("output_dir")
			}

			weatherSrc := weather.NewSource(weatherFile)
			solarSrc := solar.NewSource(solarFile)

			eng := engine.New(weatherSrc, solarSrc, log)
			result, err := eng.Run(runParams(cmd, weatherFile, solarFile, threshold, deltaT))
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}

			original := weatherSrc.File()
			base := strings.TrimSuffix(filepath.Base(weatherFile), filepath.Ext(weatherFile))

			outputs := map[string]string{}
			for _, fr := range result.Facades {
				if fr.NoData() {
					fmt.Fprintf(os.Stderr, "Warning: no irradiance data for %s, no file written\n", fr.Facade)
					continue
				}

				outPath := filepath.Join(outDir, fmt.Sprintf("%s_%s.dat", base, fr.Facade.Slug()))
				if err := weather.WriteAdjusted(outPath, original, fr.Series); err != nil {
					return fmt.Errorf("writing output for %s: %w", fr.Facade, err)
				}
				outputs[fr.Facade.Key()] = outPath
			}

			if st, err := store.NewStore(dbPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: run not saved to history: %v\n", err)
			} else {
				defer st.Close()
				if _, err := st.SaveRun(result, outputs); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: run not saved to history: %v\n", err)
				}
			}

			fmt.Printf("%-30s %10s  %s\n", "FACADE", "ADJUSTED", "OUTPUT")
			for _, fr := range result.Facades {
				out := outputs[fr.Facade.Key()]
				if out == "" {
					out = "(no irradiance data)"
				}
				fmt.Printf("%-30s %10d  %s\n", fr.Facade.Key(), fr.Adjustments, out)
			}
			fmt.Printf("\n%d adjustments across %d facades (threshold %.0f W/m², delta %.1f °C)\n",
				result.TotalAdjustments(), len(result.Facades),
				result.Params.Threshold, result.Params.DeltaT)

			return nil
		},
	}

	cmd.Flags().StringVarP(&weatherFile, "weather", "w", "", "TRY weather file (.dat, required)")
	cmd.Flags().StringVarP(&solarFile, "solar", "s", "", "solar irradiance HTML export (required)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 200, "irradiance threshold in W/m²")
	cmd.Flags().Float64VarP(&deltaT, "delta", "d", 7, "temperature increase in °C")
	cmd.Flags().StringVarP(&outDir, "out", "o", "output", "output directory")

	cmd.MarkFlagRequired("weather")
	cmd.MarkFlagRequired("solar")

	return cmd
}

func previewCmd() *cobra.Command {
	var weatherFile, solarFile string
	var threshold, deltaT float64
	var maxSamples int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the full matching pass without writing files, output a JSON summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()
			defer log.Sync()

			eng := engine.New(weather.NewSource(weatherFile), solar.NewSource(solarFile), log)
			result, err := eng.Run(runParams(cmd, weatherFile, solarFile, threshold, deltaT))
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result.Summarize(maxSamples))
		},
	}

	cmd.Flags().StringVarP(&weatherFile, "weather", "w", "", "TRY weather file (.dat, required)")
	cmd.Flags().StringVarP(&solarFile, "solar", "s", "", "solar irradiance HTML export (required)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 200, "irradiance threshold in W/m²")
	cmd.Flags().Float64VarP(&deltaT, "delta", "d", 7, "temperature increase in °C")
	cmd.Flags().IntVar(&maxSamples, "samples", 20, "max example adjustments in the summary")

	cmd.MarkFlagRequired("weather")
	cmd.MarkFlagRequired("solar")

	return cmd
}

func facadesCmd() *cobra.Command {
	var solarFile string

	cmd := &cobra.Command{
		Use:   "facades",
		Short: "List facade combinations found in a solar export",
		RunE: func(cmd *cobra.Command, args []string) error {
			export, err := solar.ReadFile(solarFile)
			if err != nil {
				return err
			}

			facades := engine.ExtractFacades(export.Labels)
			if len(facades) == 0 {
				fmt.Println("No facades found")
				return nil
			}

			peaks := solar.PeakByFacade(export.Records, export.Labels)

			fmt.Printf("%-30s %-34s %12s\n", "FACADE", "COLUMN", "PEAK W/m²")
			for _, f := range facades {
				column, ok := engine.FindFacadeColumn(export.Labels, f)
				if !ok {
					fmt.Printf("%-30s %-34s %12s\n", f.Key(), "(none)", "-")
					continue
				}
				fmt.Printf("%-30s %-34s %12.1f\n", f.Key(), column, peaks[column])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&solarFile, "solar", "s", "", "solar irradiance HTML export (required)")
	cmd.MarkFlagRequired("solar")

	return cmd
}

func inspectCmd() *cobra.Command {
	var weatherFile string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show metadata and temperature statistics of a TRY weather file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := weather.ReadFile(weatherFile)
			if err != nil {
				return err
			}

			fmt.Printf("Location:  %d, %d (elevation %dm)\n", f.Meta.Rechtswert, f.Meta.Hochwert, f.Meta.Elevation)
			if f.Meta.TRYType != "" {
				fmt.Printf("TRY type:  %s\n", f.Meta.TRYType)
			}
			if f.Meta.ReferencePeriod != "" {
				fmt.Printf("Period:    %s\n", f.Meta.ReferencePeriod)
			}
			if f.Meta.CreationDate != "" {
				fmt.Printf("Created:   %s\n", f.Meta.CreationDate)
			}

			stats := weather.Summarize(f.Records)
			fmt.Printf("\nRecords:   %d", stats.Records)
			if stats.Records != 8760 {
				fmt.Printf(" (expected 8760 for a full year)")
			}
			fmt.Println()
			if f.Skipped > 0 {
				fmt.Printf("Skipped:   %d unparseable lines\n", f.Skipped)
			}
			fmt.Printf("Temp:      %.1f °C to %.1f °C, mean %.1f °C (σ %.1f)\n",
				stats.MinTemp, stats.MaxTemp, stats.MeanTemp, stats.StdDev)

			return nil
		},
	}

	cmd.Flags().StringVarP(&weatherFile, "weather", "w", "", "TRY weather file (.dat, required)")
	cmd.MarkFlagRequired("weather")

	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past processing runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.NewStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(limit)
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded")
				return nil
			}

			fmt.Printf("%-5s %-20s %-28s %9s %7s %10s\n", "ID", "DATE", "WEATHER FILE", "THRESHOLD", "DELTA", "ADJUSTED")
			for _, r := range runs {
				fmt.Printf("%-5d %-20s %-28s %9.0f %7.1f %10d\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04"),
					filepath.Base(r.WeatherFile), r.Threshold, r.DeltaT, r.TotalAdjustments)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "max runs to list")

	return cmd
}
