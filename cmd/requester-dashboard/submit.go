package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"requester-dashboard/internal/config"
	"requester-dashboard/internal/dashboard"
	"requester-dashboard/internal/requests"
	"requester-dashboard/internal/util"
)

func newSubmitCmd(cfg *config.Config) *cobra.Command {
	var (
		d     requests.Draft
		files []string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and create a new request",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return validateClient(cfg)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			sels, err := describeFiles(files)
			if err != nil {
				return err
			}
			draft := d.WithFiles(sels)

			if errs := requests.Validate(draft); !errs.Empty() {
				for _, f := range errs.Fields() {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f, errs[f])
				}
				return dashboard.ErrInvalid
			}

			gw, err := newGateway(*cfg, newLogger(cfg.LogLevel, cmd.ErrOrStderr()), nil)
			if err != nil {
				return err
			}
			rec, err := gw.CreateRequest(cmd.Context(), draft)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), util.MustJSON(rec))
			if len(sels) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "note: %d attached file(s) were listed but not uploaded\n", len(sels))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&d.Email, "email", "", "requester email")
	f.StringVar(&d.Name, "name", "", "requester name")
	f.StringVar(&d.TypeOfClient, "type-of-client", "", "type of client")
	f.StringVar(&d.Classification, "classification", "", "Negotiable or Competitive")
	f.StringVar(&d.ProjectTitle, "project-title", "", "project title")
	f.StringVar(&d.PhilgepsReferenceNumber, "philgeps-reference-number", "", "Philgeps reference number or NA")
	f.StringVar(&d.ProductType, "product-type", "", "product type")
	f.StringVar(&d.RequestType, "request-type", "", "request type")
	f.StringVar(&d.DateNeeded, "date-needed", "", "date needed (YYYY-MM-DD)")
	f.StringVar(&d.SpecialInstructions, "special-instructions", "", "special instructions")
	f.StringArrayVar(&files, "file", nil, "file to list with the request (repeatable; metadata only)")
	return cmd
}

func describeFiles(paths []string) ([]requests.FileSelection, error) {
	var out []requests.FileSelection
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		mt, err := mimetype.DetectFile(p)
		if err != nil {
			return nil, fmt.Errorf("detect type of %s: %w", p, err)
		}
		out = append(out, requests.FileSelection{
			Name:        filepath.Base(p),
			Size:        fi.Size(),
			ContentType: mt.String(),
		})
	}
	return out, nil
}
