// scripts/viewer_smoke_check.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/mtdash/internal/appconfig"
	"github.com/mwiater/mtdash/internal/results"
	"github.com/spf13/viper"
)

// Checks a running `mtdash serve` end to end: health, the current payload,
// an optional upload through the apply action and the chart configs.
func main() {
	configPath := flag.String("config", appconfig.DefaultConfigPath, "Path to config JSON")
	baseURL := flag.String("url", "", "Override the viewer URL (defaults to http://<addr>)")
	file := flag.String("file", "", "Results file to upload through /apply")
	timeout := flag.Duration("timeout", 10*time.Second, "HTTP timeout")
	flag.Parse()

	target, err := resolveTarget(*configPath, *baseURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	client := &http.Client{
		Timeout: *timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	fmt.Printf("Target viewer: %s\n\n", target)

	failed := false
	if err := checkHealth(client, target); err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		os.Exit(1)
	}
	if err := checkPayload(client, target); err != nil {
		fmt.Fprintf(os.Stderr, "payload check failed: %v\n", err)
		failed = true
	}
	if *file != "" {
		if err := applyFile(client, target, *file); err != nil {
			fmt.Fprintf(os.Stderr, "apply failed: %v\n", err)
			failed = true
		} else if err := checkPayload(client, target); err != nil {
			fmt.Fprintf(os.Stderr, "payload check after apply failed: %v\n", err)
			failed = true
		}
	}
	if err := checkCharts(client, target); err != nil {
		fmt.Fprintf(os.Stderr, "charts check failed: %v\n", err)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
}

func resolveTarget(configPath, override string) (string, error) {
	if override != "" {
		return strings.TrimRight(override, "/"), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("MTDASH")
	v.AutomaticEnv()
	_ = v.BindEnv("addr")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	var cfg appconfig.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return "", err
	}
	return "http://" + cfg.ListenAddr(), nil
}

func checkHealth(client *http.Client, baseURL string) error {
	fmt.Println("== /healthz ==")
	status, body, err := get(client, baseURL+"/healthz")
	if err != nil {
		return err
	}
	fmt.Printf("Status: %d\n%s\n\n", status, indentJSON(body))
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status %d", status)
	}
	return nil
}

func checkPayload(client *http.Client, baseURL string) error {
	fmt.Println("== /api/payload ==")
	status, body, err := get(client, baseURL+"/api/payload")
	if err != nil {
		return err
	}
	fmt.Printf("Status: %d\n", status)
	var resp struct {
		State   string          `json:"state"`
		Payload results.Payload `json:"payload"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	p := resp.Payload
	fmt.Printf("State: %s\n", resp.State)
	fmt.Printf("Counts: train=%d val=%d test=%d\n", p.Counts.Train, p.Counts.Val, p.Counts.Test)
	fmt.Printf("Epochs: %d (train losses=%d, val losses=%d)\n", p.Epochs, len(p.Losses.Train), len(p.Losses.Val))
	for _, s := range p.Bleu {
		fmt.Printf("  - %s: %s\n", s.Name, results.FormatPercentage(s.Value))
	}
	fmt.Printf("Best model: %s\n\n", results.BestModel(p.Bleu))
	return nil
}

func applyFile(client *http.Client, baseURL, path string) error {
	fmt.Println("== POST /apply ==")
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/apply", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	fmt.Printf("Status: %s -> %s\n\n", resp.Status, resp.Header.Get("Location"))
	if resp.StatusCode != http.StatusSeeOther {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func checkCharts(client *http.Client, baseURL string) error {
	fmt.Println("== /api/charts ==")
	status, body, err := get(client, baseURL+"/api/charts")
	if err != nil {
		return err
	}
	var charts map[string]struct {
		Type string `json:"type"`
		Data struct {
			Labels []string `json:"labels"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &charts); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Printf("Status: %d\n", status)
	for canvas, c := range charts {
		fmt.Printf("  - %s: %s chart, %d labels\n", canvas, c.Type, len(c.Data.Labels))
	}
	fmt.Println()
	if len(charts) != 2 {
		return fmt.Errorf("expected 2 live charts, got %d", len(charts))
	}
	return nil
}

func get(client *http.Client, url string) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), client.Timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func indentJSON(body []byte) string {
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		return string(body)
	}
	return out.String()
}
