package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/handiism/bgm/internal/app"
	"github.com/handiism/bgm/internal/audio"
	"github.com/handiism/bgm/internal/model"
	"github.com/handiism/bgm/internal/notify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var (
		dir      string
		fileName string
		insecure bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [url]",
		Short: "Download the background music file",
		Long: `Download the background music file from url (or the configured URL)
into the destination directory. The previous file stays in place until the
new one has been received completely.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := root.load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// Apply flags
			if len(args) > 0 {
				settings.URL = args[0]
			}
			if dir != "" {
				settings.Dir = dir
			}
			if fileName != "" {
				settings.FileName = fileName
			}
			if insecure {
				settings.InsecureSkipVerify = true
			}
			if err := settings.Validate(); err != nil {
				return err
			}
			if settings.URL == "" {
				return app.ErrNoURL
			}

			// Handle interrupts
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a := app.New(settings, logger, &audio.NullOutput{}, notify.LogNotifier{Log: logger})
			defer a.Close()

			out := cmd.OutOrStdout()

			if dryRun {
				size, err := a.Client.GetFileSize(ctx, settings.URL)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s (%s) -> %s\n", settings.URL, humanize.Bytes(uint64(size)), settings.Destination())
				fmt.Fprintln(out, "[Dry run - not downloading]")
				return nil
			}

			if _, err := a.Fetch(); err != nil {
				return err
			}

			done := make(chan struct{})
			var g errgroup.Group
			g.Go(func() error {
				a.Manager.Wait()
				close(done)
				return nil
			})
			g.Go(func() error {
				ticker := time.NewTicker(200 * time.Millisecond)
				defer ticker.Stop()

				interrupted := ctx.Done()
				for {
					select {
					case <-done:
						printProgress(out, a.Manager.Snapshot())
						fmt.Fprintln(out)
						return nil
					case <-interrupted:
						fmt.Fprintln(out, "\nInterrupted, cancelling...")
						a.Manager.Cancel()
						interrupted = nil
					case <-ticker.C:
						printProgress(out, a.Manager.Snapshot())
					}
				}
			})
			if err := g.Wait(); err != nil {
				return err
			}

			job := a.Manager.Snapshot()
			switch job.State {
			case model.StateComplete:
				fmt.Fprintf(out, "✨ Saved %s (%s)\n", settings.Destination(), humanize.Bytes(uint64(job.DownloadedBytes)))
				fmt.Fprintf(out, "♪ %s\n", nowPlaying(a.Player))
				return nil
			case model.StateCancelled:
				return errCancelled
			default:
				return fmt.Errorf("download failed: %s", job.Error)
			}
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Destination directory (overrides config)")
	cmd.Flags().StringVarP(&fileName, "name", "n", "", "Destination file name (overrides config)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the remote size without downloading")

	return cmd
}

func printProgress(w io.Writer, job model.Job) {
	size := humanize.Bytes(uint64(job.DownloadedBytes))
	if job.TotalBytes > 0 {
		size += " / " + humanize.Bytes(uint64(job.TotalBytes))
	}
	fmt.Fprintf(w, "\r📥 %3.0f%%  %s", job.Progress*100, size)
}

func nowPlaying(p *audio.Player) string {
	if artist := p.Artist(); artist != "" {
		return p.TrackName() + " - " + artist
	}
	return p.TrackName()
}
