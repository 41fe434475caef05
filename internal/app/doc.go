// Package app wires settings, the download manager, the tag decoder and the
// music player into one application context shared by the CLI and the TUI.
//
//	ctx := app.New(settings, logger, &audio.NullOutput{}, notifier)
//	defer ctx.Close()
//
//	ctx.LoadExisting()
//	if _, err := ctx.Fetch(); err != nil {
//	    return err
//	}
//	ctx.Manager.Wait()
package app
