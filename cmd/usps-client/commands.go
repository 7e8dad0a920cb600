package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ponyexpress/config"
	"ponyexpress/courier"
	"ponyexpress/logging"
	"ponyexpress/shipping"
	"ponyexpress/usps"
)

type client struct {
	verbose bool
	logger  *zap.Logger
	usps    *usps.Courier
}

func newRootCmd(envErr error) *cobra.Command {
	c := &client{}

	root := &cobra.Command{
		Use:          "usps-client",
		Short:        "Call the USPS Web Tools API from the command line",
		SilenceUsage: true,
		Long: `usps-client tracks packages, validates addresses and quotes rates
against USPS. Credentials and endpoints come from config.json, .env or the
environment (USPS_USERNAME, USPS_PASSWORD, HTTP_TIMEOUT, LOG_LEVEL).

Examples:
  usps-client track 9405510200881234567890
  usps-client validate --state CA --city Cupertino --zip 95014 --street "1 Infinite Loop"
  usps-client rate --weight-oz 24 --origin 10001 --destination 95014 --detailed`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			if c.verbose {
				cfg.LogLevel = "debug"
			}
			logger, err := logging.New(cfg.LogLevel)
			if err != nil {
				return errors.Wrap(err, "failed to build logger")
			}
			if envErr != nil {
				logger.Debug("no .env file found, using system environment variables")
			}
			c.logger = logger
			c.usps = usps.NewCourier(cfg, logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(c.trackCmd(), c.validateCmd(), c.rateCmd())
	return root
}

func (c *client) trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track <tracking-id>",
		Short: "Show the tracking history of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.usps.Track(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printTracking(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

func printTracking(w io.Writer, resp *shipping.TrackingResponse) {
	fmt.Fprintf(w, "Status:    %s\n", resp.Status())
	if at, ok := resp.Accepted(); ok {
		fmt.Fprintf(w, "Accepted:  %s\n", at.Format(shipping.DisplayLayout))
	}
	if at, ok := resp.Delivered(); ok {
		fmt.Fprintf(w, "Delivered: %s\n", at.Format(shipping.DisplayLayout))
	}
	for _, e := range resp.Events {
		fmt.Fprintf(w, "  %s  %-40s %s, %s %s\n", e.Format(""), e.Type, e.City, e.State, e.PostalCode)
	}
}

func (c *client) validateCmd() *cobra.Command {
	var req courier.AddressRequest
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Standardize an address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.usps.ValidateAddress(cmd.Context(), req)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if !resp.Validated() {
				fmt.Fprintln(w, "address not found")
				return nil
			}
			for _, a := range resp.Addresses {
				fmt.Fprintf(w, "%s\n%s, %s %s\n", a.Street, a.City, a.State, a.Zip)
				if a.DeliveryPoint != "" || a.CarrierRoute != "" {
					fmt.Fprintf(w, "delivery point %s, carrier route %s\n", a.DeliveryPoint, a.CarrierRoute)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.State, "state", "", "two letter state code")
	cmd.Flags().StringVar(&req.City, "city", "", "city")
	cmd.Flags().StringVar(&req.PostalCode, "zip", "", "5 or 5+4 digit zip code")
	cmd.Flags().StringVar(&req.Street2, "street", "", "street number and name")
	cmd.Flags().StringVar(&req.Street1, "unit", "", "apartment, suite or building")
	cmd.Flags().StringVar(&req.Name, "name", "", "firm or recipient name")
	_ = cmd.MarkFlagRequired("state")
	_ = cmd.MarkFlagRequired("street")
	return cmd
}

type rateFlags struct {
	weightOz      float64
	length        float64
	width         float64
	height        float64
	rectangular   bool
	origin        string
	destination   string
	international bool
	method        string
	detailed      bool
}

func (c *client) rateCmd() *cobra.Command {
	var f rateFlags
	cmd := &cobra.Command{
		Use:   "rate",
		Short: "Quote postage for a package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.weightOz <= 0 {
				return errors.Wrap(courier.ErrInvalidArgument, "--weight-oz must be positive")
			}
			rateType := shipping.Domestic
			if f.international {
				rateType = shipping.International
			}
			pkg := shipping.NewPackage(shipping.OuncesWeight(f.weightOz), f.length, f.width, f.height, f.rectangular, f.origin, f.destination)

			resp, err := c.usps.GetRate(cmd.Context(), rateType, f.method, pkg)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Package: %s, %s %s\n", pkg.Weight, pkg.Size(), pkg.Shape())
			for _, rate := range resp.Rates {
				if !f.detailed {
					printRate(w, rate)
					continue
				}
				detailed, err := c.usps.GetDetailedRate(cmd.Context(), rate)
				if errors.Is(err, courier.ErrInvalidArgument) {
					c.logger.Debug("no detailed rate", zap.String("method", rate.Method), zap.Error(err))
					printRate(w, rate)
					continue
				}
				if err != nil {
					return err
				}
				printRate(w, detailed)
			}
			if cheapest := resp.Cheapest(); cheapest != nil {
				fmt.Fprintf(w, "Cheapest: %s\n", plainMethod(cheapest.Method))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&f.weightOz, "weight-oz", 0, "package weight in ounces")
	cmd.Flags().Float64Var(&f.length, "length", 0, "length in inches")
	cmd.Flags().Float64Var(&f.width, "width", 0, "width in inches")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in inches")
	cmd.Flags().BoolVar(&f.rectangular, "rectangular", true, "package is a rectangular box")
	cmd.Flags().StringVar(&f.origin, "origin", "", "origin zip code")
	cmd.Flags().StringVar(&f.destination, "destination", "", "destination zip code or country")
	cmd.Flags().BoolVar(&f.international, "international", false, "quote international rates")
	cmd.Flags().StringVar(&f.method, "method", "", "service to quote (default ALL)")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "include special services for each rate")
	_ = cmd.MarkFlagRequired("weight-oz")
	return cmd
}

func printRate(w io.Writer, rate *shipping.RateCalculation) {
	fmt.Fprintf(w, "  %-50s %8.2f\n", plainMethod(rate.Method), rate.Price)
	for _, o := range rate.Options {
		fmt.Fprintf(w, "    + %-46s %8.2f\n", plainMethod(o.Name), o.Price)
	}
}

var markup = strings.NewReplacer("<sup>", "", "</sup>", "")

func plainMethod(name string) string {
	return markup.Replace(name)
}
