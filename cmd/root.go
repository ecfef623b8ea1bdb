/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/notargets/tetlattice/InputParameters"
)

var (
	cfgFile   string
	verbose   bool
	profiling string

	logger   *zap.Logger
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tetlattice",
	Short: "Turn tetrahedral meshes into solid bodies",
	Long: `tetlattice reads a tetrahedral mesh (node and element files) and places a
template body on every element, or a joint on every node and edge, then unions
the placed bodies into one solid written as an STL feature.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		if logger, err = config.Build(); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		switch profiling {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
		default:
			return fmt.Errorf("unknown profile %q, use cpu or mem", profiling)
		}
		if f := viper.ConfigFileUsed(); len(f) != 0 {
			logger.Debug("using config file", zap.String("file", f))
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finish()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		getLogger().Error("command failed", zap.Error(err))
		finish()
		fmt.Printf("error: %s\n", err.Error())
		os.Exit(1)
	}
}

// finish stops the profiler and flushes the logger, once
func finish() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tetlattice.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&profiling, "profile", "", "write a cpu or mem profile to the current directory")
	rootCmd.PersistentFlags().StringP("output", "o", InputParameters.DefaultOutput, "directory for STL features")
	rootCmd.PersistentFlags().Int("resolution", InputParameters.DefaultResolution, "meshing cells across the longest side of a body")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("resolution", rootCmd.PersistentFlags().Lookup("resolution"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".tetlattice" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".tetlattice")
	}
	viper.SetEnvPrefix("TETLATTICE")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func getLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
