package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jpfielding/webpexif.go/pkg/util"
	"github.com/jpfielding/webpexif.go/pkg/webp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Report is the inspect output for json and yaml.
type Report struct {
	webp.Summary `yaml:",inline"`

	URI         string   `json:"uri" yaml:"uri"`
	Fingerprint string   `json:"fingerprint" yaml:"fingerprint"`
	Digests     []string `json:"digests,omitempty" yaml:"digests,omitempty"`
}

func newReport(uri string, doc *webp.WebP, digests bool) Report {
	r := Report{URI: uri, Summary: doc.Summary()}
	r.Fingerprint = util.Fingerprint(r.Summary)
	if digests {
		for _, ch := range doc.Chunks() {
			r.Digests = append(r.Digests, util.Digest(ch.RawBytes()))
		}
	}
	return r
}

// NewInspectCmd prints the chunk layout of a WebP image
func NewInspectCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "WebP container layout",
		Long:  "Decodes a WebP image and prints its canvas, chunks and animation frames.",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadURI(ctx, cmd)
			if err != nil {
				return err
			}
			uri, _ := cmd.Flags().GetString("uri")
			digests, _ := cmd.Flags().GetBool("digests")
			report := newReport(uri, doc, digests)

			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "text":
				fmt.Fprint(out, doc)
				fmt.Fprintf(out, "Fingerprint %s\n", report.Fingerprint)
				for i, d := range report.Digests {
					fmt.Fprintf(out, "Digest %s %s\n", report.Chunks[i].FourCC, d)
				}
			case "yaml":
				y, err := yaml.Marshal(report)
				if err != nil {
					return fmt.Errorf("failed to marshal yaml: %w", err)
				}
				out.Write(y)
			case "json":
				j, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal json: %w", err)
				}
				out.Write(append(j, '\n'))
			default:
				return fmt.Errorf("unknown format %q (text|json|yaml)", format)
			}
			return nil
		},
	}
	uriFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json|yaml)")
	pf.Bool("digests", false, "include a BLAKE3 digest of every chunk payload")
	return cmd
}
