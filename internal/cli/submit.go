package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"selfeval/internal/capture"
	"selfeval/internal/config"
	"selfeval/internal/evaluation"
	"selfeval/internal/host"
	"selfeval/internal/template"
	"selfeval/internal/verbose"
	"selfeval/internal/wizard"
)

// submitInput allows tests to override stdin for host confirmations.
var submitInput io.Reader = os.Stdin

// runSubmit builds the handler for the submit command.
func runSubmit(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "", "Path to config file (default: search for .selfeval/config.yml)")
		userID := fs.Int64("user", 0, "Host user id (overrides host.fallback_user_id)")
		noColor := fs.Bool("no-color", false, "Disable ANSI colors in logs")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(stderr, "Usage: selfeval submit [--config <path>] [--user <id>] <answers.yml>")
			return ExitUsage
		}

		cfg, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		answersPath, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fmt.Fprintf(stderr, "Failed to resolve answers file: %v\n", err)
			return ExitError
		}
		file, err := loadAnswersFile(answersPath)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		if _, err := file.values(template.Default()); err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}
		signature, err := loadSignature(file.Signature)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}

		logger := newLogger(cfg, stderr, *noColor)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		history := openLedger(ctx, cfg, logger)
		if history != nil {
			defer func() { _ = history.Close() }()
		}

		bridge := host.NewFallback(stderr, submitInput, userIDFor(cfg, *userID))
		w := newWizard(cfg, bridge, logger, history)
		if err := fillWizard(ctx, w, cfg, file, signature, logger); err != nil {
			fmt.Fprintf(stderr, "Submit failed: %v\n", err)
			return ExitError
		}
		if err := w.Submit(ctx); err != nil {
			message := w.SubmitErrorMessage()
			if message == "" {
				message = err.Error()
			}
			fmt.Fprintf(stderr, "Submit failed: %s\n", message)
			logger.Debugf("submit: %v", err)
			return ExitError
		}
		result, _ := w.Result()
		w.Close()
		fmt.Fprintf(stdout, "Evaluation %s for %s: score %.2f (%s)\n", result.ID, result.LocationName, result.Score, verdict(result.Passed))
		return ExitOK
	}
}

// fillWizard loads the user context and walks every area, answering from
// file, until the wizard reaches the signature step.
func fillWizard(ctx context.Context, w *wizard.Wizard, cfg config.Config, file answersFile, signature []byte, logger *verbose.Logger) error {
	_ = w.Load(ctx)
	switch w.Step() {
	case wizard.StepError:
		return errors.New(w.ErrorMessage())
	case wizard.StepLocationSelect:
		if file.LocationID == 0 {
			return errors.New("several locations are assigned; set location_id in the answers file")
		}
		if err := w.SelectLocation(file.LocationID); err != nil {
			return err
		}
	}
	if location, ok := w.Location(); ok && file.LocationID != 0 && location.ID != file.LocationID {
		return fmt.Errorf("location %d is not assigned; only %s (%d) is", file.LocationID, location.Name, location.ID)
	}

	opts := capture.PhotoOptions{
		Quality:      cfg.Capture.JPEGQuality,
		MaxDimension: cfg.Capture.MaxPhotoDimension,
		GeoTimeout:   cfg.Capture.GeolocationTimeout(),
		OnGeoMiss: func(questionID string) {
			logger.Warnf("no position fix for photo of %s", questionID)
		},
	}
	locator := locatorFor(cfg)
	for w.Step() == wizard.StepQuestions {
		area, _ := w.Area()
		for _, question := range area.Questions {
			if raw, ok := file.Answers[question.ID]; ok {
				value, err := evaluation.ParseValue(raw)
				if err != nil {
					return err
				}
				if err := w.Answer(question.ID, value); err != nil {
					return err
				}
			}
			if path, ok := file.Photos[question.ID]; ok {
				photo, err := capture.TakePhoto(ctx, question.ID, capture.FileCamera{Path: path}, locator, opts)
				if err != nil {
					return err
				}
				if err := w.AttachPhoto(photo); err != nil {
					return err
				}
			}
		}
		if err := w.Next(); err != nil {
			return err
		}
	}
	if err := w.SetSignature(signature); err != nil {
		return err
	}
	return w.SetSignerName(file.SignedBy)
}

// loadSignature reads a signature image and re-encodes it as PNG. Blank images
// are rejected.
func loadSignature(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signature: %w", err)
	}
	img, err := capture.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}
	if capture.InkBounds(img).Empty() {
		return nil, errors.New("signature image is blank")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode signature: %w", err)
	}
	return buf.Bytes(), nil
}
