package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jpfielding/webpexif.go/pkg/exiftag"
	"github.com/spf13/cobra"
)

// NewExifCmd prints the EXIF tags of a WebP image
func NewExifCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exif",
		Short: "WebP EXIF tags",
		Long:  "Decodes the EXIF chunk of a WebP image and prints its tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, err := loadURI(ctx, cmd)
			if err != nil {
				return err
			}
			names, _ := cmd.Flags().GetStringSlice("tag")
			tags, err := doc.ExifTags(exiftag.Reader{Names: names})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format, _ := cmd.Flags().GetString("format"); format {
			case "json":
				j, _ := json.MarshalIndent(tags, "", "  ")
				out.Write(append(j, '\n'))
			default:
				keys := make([]string, 0, len(tags))
				for k := range tags {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "%s: %s\n", k, tags[k])
				}
			}
			return nil
		},
	}
	uriFlags(cmd)
	pf := cmd.PersistentFlags()
	pf.StringP("format", "f", "text", "output format (text|json)")
	pf.StringSliceP("tag", "t", nil, "only print these tag names")
	return cmd
}
