package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/korean-dog/receipt-recognizer/internal/history"
	"github.com/korean-dog/receipt-recognizer/internal/recognizer"
	"github.com/korean-dog/receipt-recognizer/internal/scanning"
)

func main() {
	rootFlags := ff.NewFlagSet("receipt-recognizer")
	var (
		apiURL      = rootFlags.StringLong("api-url", "", "Recognition API base URL (or set RECEIPT_RECOGNIZER_API_URL)")
		clientToken = rootFlags.StringLong("client-token", "", "Client token for the API (or set RECEIPT_RECOGNIZER_CLIENT_TOKEN)")
		showVersion = rootFlags.BoolLong("version", "Show version information")
	)

	recognizeFlags := ff.NewFlagSet("recognize").SetParent(rootFlags)
	var (
		output      = recognizeFlags.StringLong("output", "", "Write the result JSON to a file instead of stdout")
		pretty      = recognizeFlags.BoolLong("pretty", "Indent the JSON output")
		remote      = recognizeFlags.BoolLong("remote", "Send PDFs to the server instead of processing them locally")
		timeout     = recognizeFlags.DurationLong("timeout", 30*time.Second, "Request timeout")
		insecure    = recognizeFlags.BoolLong("insecure", "Skip TLS certificate verification")
		historyPath = recognizeFlags.StringLong("history", "", "Append the result to a history database at this path")
		scannerType = recognizeFlags.StringLong("scanner", "", "External scanner for images in local mode: 'gemini' or 'ollama'")
		geminiKey   = recognizeFlags.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY)")
		geminiModel = recognizeFlags.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL   = recognizeFlags.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = recognizeFlags.StringLong("ollama-model", "llava", "Ollama model name")
	)

	validateFlags := ff.NewFlagSet("validate").SetParent(rootFlags)

	historyFlags := ff.NewFlagSet("history").SetParent(rootFlags)
	historyDB := historyFlags.StringLong("db", "recognitions.db", "History database path")

	root := &ff.Command{
		Name:  "receipt-recognizer",
		Usage: "receipt-recognizer [FLAGS] SUBCOMMAND ...",
		Flags: rootFlags,
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
		Subcommands: []*ff.Command{
			{
				Name:      "recognize",
				Usage:     "receipt-recognizer recognize [FLAGS] FILE",
				ShortHelp: "Recognize a receipt from a PDF or image file",
				Flags:     recognizeFlags,
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return errors.New("recognize: exactly one file argument is required")
					}
					return runRecognize(ctx, args[0], recognizeOptions{
						apiURL:      *apiURL,
						clientToken: *clientToken,
						output:      *output,
						pretty:      *pretty,
						remote:      *remote,
						timeout:     *timeout,
						insecure:    *insecure,
						historyPath: *historyPath,
						scannerType: *scannerType,
						geminiKey:   *geminiKey,
						geminiModel: *geminiModel,
						ollamaURL:   *ollamaURL,
						ollamaModel: *ollamaModel,
					})
				},
			},
			{
				Name:      "check-version",
				Usage:     "receipt-recognizer check-version SERVER_VERSION",
				ShortHelp: "Check client/server version compatibility",
				Flags:     ff.NewFlagSet("check-version").SetParent(rootFlags),
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return errors.New("check-version: a server version argument is required (e.g. 1.2.0)")
					}
					return runCheckVersion(args[0])
				},
			},
			{
				Name:      "validate",
				Usage:     "receipt-recognizer validate JSON_FILE",
				ShortHelp: "Validate a recognition result JSON against the required base fields",
				Flags:     validateFlags,
				Exec: func(ctx context.Context, args []string) error {
					if len(args) != 1 {
						return errors.New("validate: a JSON file argument is required")
					}
					return runValidate(args[0])
				},
			},
			{
				Name:      "history",
				Usage:     "receipt-recognizer history [--db PATH]",
				ShortHelp: "List recorded recognitions",
				Flags:     historyFlags,
				Exec: func(ctx context.Context, args []string) error {
					return runHistory(*historyDB)
				},
			},
		},
	}

	err := root.ParseAndRun(context.Background(), os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_RECOGNIZER"),
	)

	if *showVersion {
		fmt.Println(recognizer.Version)
		return
	}

	switch {
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root))
		os.Exit(1)
	case err != nil:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type recognizeOptions struct {
	apiURL      string
	clientToken string
	output      string
	pretty      bool
	remote      bool
	timeout     time.Duration
	insecure    bool
	historyPath string
	scannerType string
	geminiKey   string
	geminiModel string
	ollamaURL   string
	ollamaModel string
}

func runRecognize(ctx context.Context, path string, opts recognizeOptions) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("file not found: %s", path)
	}

	clientOpts := []recognizer.Option{}

	switch opts.scannerType {
	case "":
		// No external scanner: PDFs locally, everything else via the API.
	case "gemini":
		apiKey := opts.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		scanner, err := scanning.NewGemini(apiKey, opts.geminiModel)
		if err != nil {
			return fmt.Errorf("initializing gemini scanner: %w", err)
		}
		defer scanner.Close()
		clientOpts = append(clientOpts, recognizer.WithScanner(scanner))
	case "ollama":
		scanner, err := scanning.NewOllama(opts.ollamaURL, opts.ollamaModel)
		if err != nil {
			return fmt.Errorf("initializing ollama scanner: %w", err)
		}
		defer scanner.Close()
		clientOpts = append(clientOpts, recognizer.WithScanner(scanner))
	default:
		return fmt.Errorf("invalid scanner type %q (valid: gemini, ollama)", opts.scannerType)
	}

	client, err := recognizer.NewClient(recognizer.Config{
		APIURL:            opts.apiURL,
		ClientToken:       opts.clientToken,
		Timeout:           opts.timeout,
		SkipTLSVerify:     opts.insecure,
		ProcessPDFLocally: !opts.remote,
	}, clientOpts...)
	if err != nil {
		return err
	}

	slog.Info("Recognizing receipt...", "file", path)
	result, err := client.Recognize(ctx, path)
	if err != nil {
		return err
	}

	if opts.historyPath != "" {
		if err := appendHistory(opts.historyPath, path, result); err != nil {
			slog.Warn("Failed to record history", "error", err)
		}
	}

	var encoded []byte
	if opts.pretty {
		encoded, err = json.MarshalIndent(result, "", "  ")
	} else {
		encoded, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, encoded, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", opts.output, err)
		}
		slog.Info("Result saved", "file", opts.output)
		return nil
	}

	fmt.Println(string(encoded))
	return nil
}

func appendHistory(dbPath, filename string, result recognizer.Fields) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	success := true
	if v, ok := result["success"].(bool); ok {
		success = v
	}
	sourceKind, _ := result["source_kind"].(string)

	return store.Append(&history.Entry{
		Filename:   filename,
		SourceKind: sourceKind,
		Success:    success,
		Fields:     result,
	})
}

func runCheckVersion(serverVersion string) error {
	if err := recognizer.CheckCompatibility(recognizer.Version, serverVersion); err != nil {
		return err
	}
	fmt.Printf("versions are compatible: client %s, server %s\n", recognizer.Version, serverVersion)
	return nil
}

func runValidate(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var result recognizer.Fields
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := recognizer.Validate(result); err != nil {
		return err
	}
	fmt.Println("JSON contains all required fields")
	return nil
}

func runHistory(dbPath string) error {
	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		fmt.Printf("%s  %-6s  %-7s  %s\n",
			entry.CreatedAt.Format(time.RFC3339),
			status,
			orDash(entry.SourceKind),
			entry.Filename,
		)
	}
	return nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
