package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/studio/internal/server"
	"github.com/desertthunder/studio/internal/services"
	"github.com/desertthunder/studio/internal/shared"
)

// DriveAuth performs the OAuth2 authorization code flow for Google Drive.
//
// Starts a local HTTP server, opens the browser for consent, and saves the exchanged token to the config file.
func (r *Runner) DriveAuth(ctx context.Context, cmd *cli.Command) error {
	if r.drive == nil {
		return fmt.Errorf("%w: Google client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}
	if p := cmd.String("config"); p != "" {
		r.configPath = p
	}

	token, err := r.doOAuth(ctx, r.drive, cmd.Duration("timeout"))
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: studio drive photos --folder <id>\n")
	return nil
}

// DrivePhotos lists the images in a Drive folder.
func (r *Runner) DrivePhotos(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDrive(); err != nil {
		return err
	}

	photos, err := r.drive.ListPhotos(ctx, cmd.String("folder"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(photos, cmd.Bool("pretty"))
	}

	if len(photos) == 0 {
		return r.writePlain("No photos found\n")
	}

	r.writePlainHeader(fmt.Sprintf("Photos (%d)", len(photos)))
	for _, p := range photos {
		r.writePlain("%s  %-32s %8d bytes\n", p.ID, p.Name, p.Size)
	}
	return nil
}

// DriveFolders lists the folders under a parent (the Drive root by default).
func (r *Runner) DriveFolders(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDrive(); err != nil {
		return err
	}

	folders, err := r.drive.ListFolders(ctx, cmd.String("parent"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(folders, cmd.Bool("pretty"))
	}

	for _, f := range folders {
		r.writePlain("%s  %s\n", f.ID, f.Name)
	}
	return nil
}

// DriveDownload saves a Drive file to disk.
func (r *Runner) DriveDownload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireDrive(); err != nil {
		return err
	}

	fileID := cmd.String("file")
	output := cmd.String("output")
	if output == "" {
		output = fileID
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	n, err := r.drive.Download(ctx, fileID, f)
	if err != nil {
		os.Remove(output)
		return err
	}

	r.logger.Info("downloaded file", "file", fileID, "bytes", n, "path", output)
	return r.writePlain("✓ Saved %s (%d bytes)\n", output, n)
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(ctx context.Context, drive *services.DriveService, timeout time.Duration) (*oauth2.Token, error) {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := drive.AuthURL(state)
	oauthHandler := server.NewOAuthHandler(drive, state)
	router := server.NewBasicRouter()
	router.Use(server.RequestLogger(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Google Drive authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (%s timeout)...\n", timeout)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: authorization timed out after %s", shared.ErrTimeout, timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	return result.Token, nil
}
