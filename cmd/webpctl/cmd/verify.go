package cmd

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/jpfielding/webpexif.go/pkg/webp"
	"github.com/spf13/cobra"
	xwebp "golang.org/x/image/webp"
)

// NewVerifyCmd checks that a WebP image survives decode and encode unchanged
func NewVerifyCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "WebP round trip check",
		Long:  "Decodes and re-encodes a WebP image and reports whether the bytes are identical. Still images are also checked against golang.org/x/image/webp.",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, raw, err := loadURI(ctx, cmd)
			if err != nil {
				return err
			}
			if err := crossCheck(ctx, doc, raw); err != nil {
				return err
			}
			enc := webp.Encode(doc)
			if at := firstDifference(raw, enc); at >= 0 {
				return fmt.Errorf("round trip differs at offset 0x%x (%d bytes in, %d bytes out)", at, len(raw), len(enc))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %dx%d, %d bytes\n", doc.Width(), doc.Height(), len(raw))
			return nil
		},
	}
	uriFlags(cmd)
	return cmd
}

// crossCheck compares the canvas size with the x/image decoder, which does
// not support animations.
func crossCheck(ctx context.Context, doc *webp.WebP, raw []byte) error {
	if doc.Animation() != nil {
		return nil
	}
	cfg, err := xwebp.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		slog.WarnContext(ctx, "x/image cannot read the image", "error", err)
		return nil
	}
	if cfg.Width != doc.Width() || cfg.Height != doc.Height() {
		return fmt.Errorf("x/image reports %dx%d, container reports %dx%d", cfg.Width, cfg.Height, doc.Width(), doc.Height())
	}
	return nil
}

// firstDifference returns the first offset where a and b differ, or -1.
func firstDifference(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
