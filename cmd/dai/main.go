// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command dai scores household and person profiles without running the server.
//
//	dai score --size 4 --internet --computer --smartphone --computers 1 --smartphones 2
//	dai literacy --own-device --hours 4 --education --json
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/digital-access/dai"
	"github.com/danielhkuo/digital-access/models"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes
const (
	exitInvalidInput = 2
	exitBadConfig    = 3
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

type scoreFlags struct {
	profile    dai.Profile
	geoType    string
	weights    dai.Weights
	thresholds dai.Thresholds
	asJSON     bool
}

type literacyFlags struct {
	usage  dai.PersonUsage
	asJSON bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dai",
		Short:         "Compute Digital Access Index and literacy scores",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScoreCmd(), newLiteracyCmd())
	return root
}

func newScoreCmd() *cobra.Command {
	flags := scoreFlags{
		weights:    dai.DefaultWeights,
		thresholds: dai.DefaultThresholds,
	}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a household profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.profile.HasInternetAccess, "internet", false, "Household has internet access")
	f.BoolVar(&flags.profile.HasComputer, "computer", false, "Household owns a computer")
	f.BoolVar(&flags.profile.HasSmartphone, "smartphone", false, "Household owns a smartphone")
	f.IntVar(&flags.profile.NumComputers, "computers", 0, "Number of computers")
	f.IntVar(&flags.profile.NumSmartphones, "smartphones", 0, "Number of smartphones")
	f.IntVar(&flags.profile.HouseholdSize, "size", 1, "Number of people in the household")
	f.StringVar(&flags.geoType, "geo-type", string(dai.GeoUrban), "Settlement type: urban, rural, metro, informal")

	f.Float64Var(&flags.weights.Internet, "weight-internet", dai.DefaultWeights.Internet, "Internet access weight")
	f.Float64Var(&flags.weights.Computers, "weight-computers", dai.DefaultWeights.Computers, "Computer coverage weight")
	f.Float64Var(&flags.weights.Smartphones, "weight-smartphones", dai.DefaultWeights.Smartphones, "Smartphone coverage weight")
	f.Float64Var(&flags.weights.Diversity, "weight-diversity", dai.DefaultWeights.Diversity, "Device diversity weight")
	f.Float64Var(&flags.thresholds.Medium, "medium", dai.DefaultThresholds.Medium, "Lowest score in the medium band")
	f.Float64Var(&flags.thresholds.High, "high", dai.DefaultThresholds.High, "Lowest score in the high band")

	f.BoolVar(&flags.asJSON, "json", false, "Print the API response body instead of text")

	return cmd
}

func runScore(out io.Writer, flags scoreFlags) error {
	geo := dai.GeoType(flags.geoType)
	if !geo.Valid() {
		return codeError(exitInvalidInput, "unknown geo type %q", flags.geoType)
	}
	flags.profile.GeoType = geo

	calc, err := dai.NewCalculator(flags.weights, flags.thresholds)
	if err != nil {
		return codeError(exitBadConfig, "%s", err)
	}

	result, err := calc.Compute(flags.profile)
	if err != nil {
		return codeError(exitInvalidInput, "%s", err)
	}

	if flags.asJSON {
		return writeJSON(out, models.AccessIndexResponse{
			Score:    result.Score,
			Category: string(result.Category),
		})
	}

	_, err = fmt.Fprintf(out, "score:    %s\ncategory: %s\n", humanize.FtoaWithDigits(result.Score, 2), result.Category)
	return err
}

func newLiteracyCmd() *cobra.Command {
	var flags literacyFlags

	cmd := &cobra.Command{
		Use:   "literacy",
		Short: "Score one person's digital literacy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLiteracy(cmd.OutOrStdout(), flags)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&flags.usage.HasOwnDevice, "own-device", false, "Person has their own device")
	f.Float64Var(&flags.usage.InternetUsageHours, "hours", 0, "Daily internet usage in hours (0-24)")
	f.BoolVar(&flags.usage.UsesInternetForEducation, "education", false, "Person uses the internet for education")
	f.BoolVar(&flags.asJSON, "json", false, "Print the API response body instead of text")

	return cmd
}

func runLiteracy(out io.Writer, flags literacyFlags) error {
	result, err := dai.Literacy(flags.usage)
	if err != nil {
		return codeError(exitInvalidInput, "%s", err)
	}

	if flags.asJSON {
		return writeJSON(out, models.LiteracyResponse{Score: result.Score})
	}

	_, err = fmt.Fprintf(out, "score: %s\n", humanize.FtoaWithDigits(result.Score, 3))
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	return enc.Encode(v)
}
