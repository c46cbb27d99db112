package cmd

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"

	"github.com/jpfielding/webpexif.go/pkg/webp"
	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"
	"github.com/ulikunitz/xz"
)

var (
	gzipMagic = []byte{0x1F, 0x8B}
	xzMagic   = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}
)

// loadURI decodes the image named by the --uri flag.
func loadURI(ctx context.Context, cmd *cobra.Command) (*webp.WebP, []byte, error) {
	uri, _ := cmd.Flags().GetString("uri")
	if uri == "" && len(cmd.Flags().Args()) > 0 {
		uri = cmd.Flags().Arg(0)
	}
	if uri == "" {
		return nil, nil, fmt.Errorf("uri is required. Use --uri flag or provide as argument")
	}
	raw, err := readURI(ctx, cmd, uri)
	if err != nil {
		return nil, nil, err
	}
	raw, err = decompress(raw)
	if err != nil {
		return nil, nil, err
	}
	doc, err := webp.Decode(raw)
	if err != nil {
		return nil, raw, fmt.Errorf("failed to decode %s: %w", uri, err)
	}
	slog.DebugContext(ctx, "decoded", "uri", uri, "bytes", len(raw), "chunks", len(doc.Chunks()))
	return doc, raw, nil
}

// readURI returns the bytes behind a path, "-" (stdin) or an http(s) URL.
func readURI(ctx context.Context, cmd *cobra.Command, uri string) ([]byte, error) {
	var in io.Reader
	uri = strings.TrimPrefix(uri, "file://")
	switch {
	case uri == "-":
		in = cmd.InOrStdin()
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		insecure, _ := cmd.Flags().GetBool("insecure")
		cl := &http.Client{
			Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: insecure}},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := cl.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download: %w", err)
		}
		defer resp.Body.Close()
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			reqDump, _ := httputil.DumpRequest(req, true)
			cmd.ErrOrStderr().Write(reqDump)
			resDump, _ := httputil.DumpResponse(resp, false)
			cmd.ErrOrStderr().Write(resDump)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("failed to download: %s", resp.Status)
		}
		in = resp.Body
	default:
		f, err := os.Open(uri)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		in = f
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return b, nil
}

// decompress unwraps gzip and xz input, detected by magic bytes.
func decompress(b []byte) ([]byte, error) {
	var r io.Reader
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer zr.Close()
		r = zr
	case bytes.HasPrefix(b, xzMagic):
		xr, err := xz.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("failed to open xz stream: %w", err)
		}
		r = xr
	default:
		return b, nil
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}
