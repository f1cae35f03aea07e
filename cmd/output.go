package cmd

import (
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rs/zerolog/log"
)

var (
	bold  = color.New(color.Bold).SprintFunc()
	faint = color.New(color.Faint).SprintFunc()

	greenCheck = color.GreenString("✓")
	redCross   = color.RedString("✗")
)

// BeQuietError signals that the error was already reported to the user and
// the root command should exit non-zero without logging it again.
type BeQuietError struct{}

func (BeQuietError) Error() string {
	return "an error occurred"
}

func logSuccess(format string, args ...any) {
	log.Info().Msgf("%s "+format, append([]any{greenCheck}, args...)...)
}

func logError(err error, correlation, msg string) error {
	if correlation != "" {
		log.Error().Msgf("%s %s (correlation ID: %s)", redCross, msg, correlation)
	} else {
		log.Error().Msgf("%s %s", redCross, msg)
	}
	log.Error().Msgf("error: %v", err)
	return BeQuietError{}
}

func applyTableFormat(t table.Writer) {
	s := table.StyleRounded
	s.Format.Header = text.FormatDefault
	t.SetStyle(s)
}
