package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NeuralTrust/SportLens/pkg/handlers/http/response"
	"github.com/NeuralTrust/SportLens/pkg/infra/httpx"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:8080"

var ErrImageRequired = errors.New("--image is required")

type analyzeOptions struct {
	image   string
	context string
	url     string
	token   string
	timeout time.Duration
}

func NewAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Send an image to a running server and print the analysis",
		Long: `Send an image to a running server and print the analysis.

Examples:
  sportlens analyze --image serve.jpg
  sportlens analyze -i serve.jpg -x "Is the toss legal?" --url http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := httpx.NewFastHTTPClient(httpx.WithTimeout(opts.timeout))
			return runAnalyze(cmd.Context(), client, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "Path of the image to analyze")
	cmd.Flags().StringVarP(&opts.context, "context", "x", "", "Instructions sent with the image")
	cmd.Flags().StringVarP(&opts.url, "url", "u", defaultServerURL, "Server base URL")
	cmd.Flags().StringVarP(&opts.token, "token", "t", os.Getenv("SPORTLENS_TOKEN"), "Bearer token when auth is enabled")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 90*time.Second, "Request timeout")
	return cmd
}

func runAnalyze(ctx context.Context, client httpx.Client, opts *analyzeOptions, out io.Writer) error {
	if opts.image == "" {
		return ErrImageRequired
	}
	data, err := os.ReadFile(filepath.Clean(opts.image))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}

	body, contentType, err := httpx.BuildMultipart(
		[]httpx.FilePart{{
			FieldName:   "image",
			FileName:    filepath.Base(opts.image),
			ContentType: http.DetectContentType(data),
			Data:        data,
		}},
		map[string]string{"context-ai": opts.context},
	)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(opts.url, "/")+"/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var output response.AnalyzeImageOutput
	if err := json.Unmarshal(raw, &output); err != nil {
		return fmt.Errorf("invalid server response: %w", err)
	}
	_, err = fmt.Fprintln(out, output.APIResponse)
	return err
}
