package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idlab-discover/InfraClassify-cli/internal/apperr"
	"github.com/idlab-discover/InfraClassify-cli/internal/client"
	"github.com/idlab-discover/InfraClassify-cli/internal/imagefile"
	"github.com/idlab-discover/InfraClassify-cli/internal/notify"
	"github.com/idlab-discover/InfraClassify-cli/internal/render"
	"github.com/idlab-discover/InfraClassify-cli/internal/ui"
	"github.com/idlab-discover/InfraClassify-cli/internal/upload"
	"github.com/idlab-discover/InfraClassify-cli/internal/validator"
)

// classifyReport is what --output writes: the response as received next to
// its clamped rendering.
type classifyReport struct {
	File    string               `json:"file" yaml:"file"`
	Result  *client.Result       `json:"result" yaml:"result"`
	Display *render.DisplayModel `json:"display" yaml:"display"`
}

var (
	classifyFile   string
	classifyOutput string
	classifyFormat string
)

// classifyCmd represents the classify command
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify one image and print the result",
	Long:  "Validate an image, submit it to the classification service (retrying while the server wakes up) and print the verdict. Prompts for the image path when --file is not given.",
	RunE:  runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	closeLogs, err := s.setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLogs()

	outputPath := viper.GetString("classify.output")
	outputFormat := viper.GetString("classify.format")
	if outputFormat == "" {
		outputFormat = "auto"
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path := viper.GetString("classify.file")
	prompted := path == ""

	var spinner *ui.SimpleSpinner
	notifier := notify.NotifierFunc(func(msg string, sev notify.Severity) {
		// Retry warnings replace the spinner text; other notices become the
		// command's error or are printed by the caller.
		if sev == notify.Warning && spinner != nil {
			spinner.UpdateMessage(ui.Warning.Render(msg))
		}
	})

	c, err := s.newClient(notifier)
	if err != nil {
		return err
	}
	m, err := upload.New(upload.Deps{
		Client:   c,
		Notifier: notifier,
		Runner:   func(f func()) { f() },
	})
	if err != nil {
		return err
	}

	view := render.NewResultView(cmd.OutOrStdout(), s.quiet())
	for {
		if prompted {
			if path, err = promptPath(); err != nil {
				return err
			}
		}

		file, loadErr := imagefile.Load(path)
		if loadErr != nil {
			file = nil
		}
		if err := m.SelectFile(file); err != nil {
			if loadErr != nil {
				return apperr.Userf("%s: %v", path, loadErr)
			}
			return apperr.User(selectionMessage(err))
		}

		if !s.quiet() {
			spinner = ui.NewSimpleSpinner(cmd.ErrOrStderr(), "Classifying "+ui.Highlight.Render(file.Name)+"...")
			spinner.Start()
		}
		_ = m.RequestClassify(ctx)
		snap := m.Snapshot()
		if spinner != nil {
			if snap.State == upload.Result {
				spinner.Stop(true, "Classified "+file.Name)
			} else {
				spinner.Stop(false, "Classification failed")
			}
			spinner = nil
		}

		if snap.State != upload.Result || snap.Display == nil {
			return fmt.Errorf("%s", client.UserMessage(snap.Err))
		}
		view.Print(*snap.Display)

		if outputPath != "" {
			report := classifyReport{File: file.Name, Result: snap.Result, Display: snap.Display}
			if err := imagefile.WriteResult(report, outputPath, outputFormat); err != nil {
				return err
			}
			if !s.quiet() {
				fmt.Fprintln(cmd.OutOrStdout(), ui.FormatStatus("success", "Result written to "+ui.Secondary.Render(outputPath)))
			}
		}

		if !prompted {
			return nil
		}
		again, err := confirmAnother()
		if err != nil || !again {
			return err
		}
		_ = m.Remove()
	}
}

func selectionMessage(err error) string {
	if ve, ok := validator.AsValidation(err); ok {
		return ve.Message()
	}
	return err.Error()
}

func promptPath() (string, error) {
	var path string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Image to classify").
				Description("JPEG, PNG or WebP, at most 5MB").
				Placeholder("./photos/bridge.jpg").
				Value(&path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("a path is required")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", apperr.ErrCancelled
		}
		return "", err
	}
	return strings.TrimSpace(path), nil
}

func confirmAnother() (bool, error) {
	var again bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Classify another image?").
				Value(&again).
				Affirmative("Yes").
				Negative("No"),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return again, nil
}

func init() {
	classifyCmd.Flags().StringVarP(&classifyFile, "file", "f", "", "Image to classify (prompted when omitted)")
	classifyCmd.Flags().StringVarP(&classifyOutput, "output", "o", "", "Also write the result to this file (.json or .yaml)")
	classifyCmd.Flags().StringVar(&classifyFormat, "format", "", "Output format: json|yaml|auto")

	viper.BindPFlag("classify.file", classifyCmd.Flags().Lookup("file"))
	viper.BindPFlag("classify.output", classifyCmd.Flags().Lookup("output"))
	viper.BindPFlag("classify.format", classifyCmd.Flags().Lookup("format"))
}
