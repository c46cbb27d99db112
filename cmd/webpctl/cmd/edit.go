package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/webpexif.go/pkg/webp"
	"github.com/spf13/cobra"
)

// NewEditCmd rewrites the metadata chunks of a WebP image
func NewEditCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "WebP metadata editing",
		Long:  "Strips or replaces the EXIF, XMP, ICC profile and unknown chunks of a WebP image. Strips apply before replacements.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("output path is required. Use --out flag, - for stdout")
			}
			doc, _, err := loadURI(ctx, cmd)
			if err != nil {
				return err
			}
			doc, err = applyEdits(cmd, doc)
			if err != nil {
				return err
			}
			b := webp.Encode(doc)
			if err := writeOut(out, cmd.OutOrStdout(), b); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			slog.InfoContext(ctx, "wrote", "out", out, "bytes", len(b), "chunks", len(doc.Chunks()))
			return nil
		},
	}
	uriFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("out", "o", "", "output path, - for stdout")
	pf.Bool("strip-exif", false, "remove the EXIF chunk")
	pf.Bool("strip-xmp", false, "remove the XMP chunk")
	pf.Bool("strip-iccp", false, "remove the ICC profile")
	pf.Bool("strip-unknown", false, "remove every unknown chunk")
	pf.Bool("strip-all", false, "remove all of the above")
	pf.String("exif", "", "file whose contents replace the EXIF chunk")
	pf.String("xmp", "", "file whose contents replace the XMP chunk")
	pf.String("iccp", "", "file whose contents replace the ICC profile")
	pf.StringArray("chunk", nil, "append an unknown chunk as FOURCC=file (repeatable)")
	return cmd
}

func applyEdits(cmd *cobra.Command, doc *webp.WebP) (*webp.WebP, error) {
	flag := func(name string) bool {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	all := flag("strip-all")
	if all || flag("strip-exif") {
		doc = doc.WithExif(nil)
	}
	if all || flag("strip-xmp") {
		doc = doc.WithXmp(nil)
	}
	if all || flag("strip-iccp") {
		doc = doc.WithIccp(nil)
	}
	if all || flag("strip-unknown") {
		doc = doc.WithoutUnknownChunks()
	}

	read := func(name string) ([]byte, bool, error) {
		path, _ := cmd.Flags().GetString(name)
		if path == "" {
			return nil, false, nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to read --%s: %w", name, err)
		}
		return b, true, nil
	}
	if b, ok, err := read("exif"); err != nil {
		return nil, err
	} else if ok {
		doc = doc.WithExif(webp.NewExif(0, b))
	}
	if b, ok, err := read("xmp"); err != nil {
		return nil, err
	} else if ok {
		doc = doc.WithXmp(webp.NewXmp(0, b))
	}
	if b, ok, err := read("iccp"); err != nil {
		return nil, err
	} else if ok {
		doc = doc.WithIccp(webp.NewIccp(0, b))
	}

	specs, _ := cmd.Flags().GetStringArray("chunk")
	for _, arg := range specs {
		fourCC, path, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --chunk %q, expected FOURCC=file", arg)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunk %s: %w", fourCC, err)
		}
		u, err := webp.NewUnknown(webp.FourCC(fourCC), 0, b)
		if err != nil {
			return nil, err
		}
		doc = doc.WithUnknownChunks(u)
	}
	return doc, nil
}
