package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"example.com/itinerary/internal/events"
	"example.com/itinerary/internal/parser"
	httptransport "example.com/itinerary/internal/transport/http"
)

var (
	replayFile   string
	replayChunk  int
	replayStrict bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Feed a saved model transcript through the record parser and print the SSE frames",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if replayFile == "" {
			return errors.New("--file is required")
		}
		in, err := os.Open(replayFile)
		if err != nil {
			return err
		}
		defer in.Close()
		return replay(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), replayChunk, parser.Validator{Strict: replayStrict})
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayFile, "file", "", "path to a captured model answer")
	replayCmd.Flags().IntVar(&replayChunk, "chunk", 7, "fragment size in bytes")
	replayCmd.Flags().BoolVar(&replayStrict, "strict", false, "check activity types and time order")
}

// replay splits the transcript into chunk-sized fragments and writes the frames
// a client would have received. Rejected lines and the dropped tail go to diag.
func replay(in io.Reader, out, diag io.Writer, chunk int, validator parser.Validator) error {
	if chunk <= 0 {
		return fmt.Errorf("chunk must be positive, got %d", chunk)
	}
	transcript, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	consumer := parser.NewConsumer(
		parser.WithValidator(validator),
		parser.WithRejectHook(func(r parser.Rejection) {
			fmt.Fprintf(diag, "rejected (%s): %q\n", r.Reason, r.Line)
		}),
	)

	if err := httptransport.WriteFrame(out, events.Connected()); err != nil {
		return err
	}
	for start := 0; start < len(transcript); start += chunk {
		end := min(start+chunk, len(transcript))
		for _, item := range consumer.Append(string(transcript[start:end])) {
			if err := httptransport.WriteFrame(out, events.Item(item)); err != nil {
				return err
			}
		}
	}
	if tail := consumer.Finish(); tail != "" {
		fmt.Fprintf(diag, "dropped unterminated tail: %q\n", tail)
	}
	return httptransport.WriteFrame(out, events.Complete())
}
