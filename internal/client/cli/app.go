package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/client/client"
	"github.com/dmitrijs2005/imgdrop/internal/client/config"
	"github.com/dmitrijs2005/imgdrop/internal/client/issuer"
	"github.com/dmitrijs2005/imgdrop/internal/client/orchestrator"
	"github.com/dmitrijs2005/imgdrop/internal/client/repositories/uploads"
	"github.com/dmitrijs2005/imgdrop/internal/client/verify"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/filex"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/netx"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	orch    *orchestrator.Orchestrator
	history uploads.Repository
	db      *sql.DB
	out     io.Writer
	styled  bool
}

// NewApp builds the application. withHistory opens (and migrates) the local
// history database; when that fails the app still works, without history.
func NewApp(ctx context.Context, c *config.Config, out, errOut io.Writer, withHistory bool) (*App, error) {
	logger := logging.NewTextLogger(errOut, c.LogLevel)

	a := &App{config: c, logger: logger, out: out, styled: isTerminal(out)}

	opts := []orchestrator.Option{
		orchestrator.WithStoreBase(c.StoreBase),
		orchestrator.WithLogger(logger),
	}

	if withHistory {
		if err := a.openHistory(ctx); err != nil {
			logger.Warn(ctx, "upload history disabled", "error", err)
		} else {
			opts = append(opts, orchestrator.WithRecorder(uploads.NewJournal(a.db, c.HistoryKeep)))
		}
	}

	if c.Verify {
		v, err := verify.NewS3Verifier(ctx, c.VerifyConfig())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("verifier: %w", err)
		}
		opts = append(opts, orchestrator.WithVerifier(timeoutVerifier{v: v, timeout: c.VerifyTimeout}))
	}

	httpClient := &http.Client{}
	a.orch = orchestrator.New(
		issuer.NewClient(c.IssuerEndpoint, httpClient, logger),
		netx.NewUploader(httpClient, logger),
		opts...,
	)

	return a, nil
}

func (a *App) openHistory(ctx context.Context) error {
	if _, err := filex.EnsureSubdDir(a.config.DataDir); err != nil {
		return err
	}

	db, err := client.InitDatabase(ctx, a.config.HistoryPath())
	if err != nil {
		return err
	}
	a.db = db
	a.history = client.NewRepositories(db).Uploads
	return nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// SelectFile replaces the current selection with the file at path and shows
// its preview when it passes validation. Any failure leaves nothing selected.
func (a *App) SelectFile(ctx context.Context, path string) error {
	f, err := filex.Select(path)
	if err != nil {
		a.orch.Clear()
		a.status(statusError, "%v", err)
		return err
	}

	if err := a.orch.Select(ctx, f); err != nil {
		a.status(statusError, "%v", err)
		return err
	}

	a.printPreview(filex.Preview(f))
	return nil
}

// Preview shows the current selection again.
func (a *App) Preview(ctx context.Context) error {
	f := a.orch.Selected()
	if f == nil {
		a.status(statusError, "no file selected")
		return common.ErrNothingSelected
	}
	a.printPreview(filex.Preview(f))
	return nil
}

// Upload starts the upload of the current selection and blocks until it ends.
func (a *App) Upload(ctx context.Context) error {
	f := a.orch.Selected()
	if f == nil {
		a.status(statusError, "select a file first")
		return common.ErrNothingSelected
	}

	a.status(statusInfo, "Uploading %s ...", f.Name)

	bar := newProgressBar(a.out, a.styled, terminalWidth(a.out))
	res, err := a.orch.Start(ctx, bar.Update)
	bar.Done()

	if err != nil {
		a.status(statusError, "Upload failed: %v", err)
		return err
	}

	a.status(statusSuccess, "Upload complete!")
	fmt.Fprintf(a.out, "%s\n", res.Location)
	if a.config.Verify {
		if res.Verified {
			a.status(statusInfo, "object confirmed by the store")
		} else {
			a.status(statusInfo, "object could not be confirmed; the link may not be reachable")
		}
	}
	return nil
}

// Status prints the orchestrator state and the current selection.
func (a *App) Status(ctx context.Context) {
	state := a.orch.State()
	f := a.orch.Selected()

	if f == nil {
		a.status(statusInfo, "state: %s, nothing selected", state)
		return
	}
	a.status(statusInfo, "state: %s, selected: %s (%s)", state, f.Name, f.MimeType)
	if err := a.orch.LastError(); err != nil {
		a.status(statusError, "last attempt failed: %v", err)
	}
}

// History prints up to limit recent attempts.
func (a *App) History(ctx context.Context, limit int) error {
	if a.history == nil {
		err := errors.New("upload history is not available")
		a.status(statusError, "%v", err)
		return err
	}

	records, err := a.history.List(ctx, limit)
	if err != nil {
		a.status(statusError, "%v", err)
		return err
	}

	if len(records) == 0 {
		a.status(statusInfo, "no uploads yet")
		return nil
	}

	for _, r := range records {
		a.printRecord(r)
	}
	return nil
}

// ShowAttempt prints the history record of one attempt.
func (a *App) ShowAttempt(ctx context.Context, id string) error {
	if a.history == nil {
		err := errors.New("upload history is not available")
		a.status(statusError, "%v", err)
		return err
	}

	r, err := a.history.GetByAttemptID(ctx, id)
	if errors.Is(err, common.ErrorNotFound) {
		a.status(statusError, "no upload attempt %s", id)
		return err
	}
	if err != nil {
		a.status(statusError, "%v", err)
		return err
	}

	a.printRecordDetails(r)
	return nil
}

func (a *App) stateLabel() string {
	if a.orch == nil {
		return ""
	}
	if f := a.orch.Selected(); f != nil {
		return fmt.Sprintf("(%s %s)", f.Name, a.orch.State())
	}
	return fmt.Sprintf("(%s)", a.orch.State())
}

type timeoutVerifier struct {
	v       orchestrator.Verifier
	timeout time.Duration
}

func (t timeoutVerifier) Verify(ctx context.Context, key string) (verify.ObjectInfo, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.v.Verify(ctx, key)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminalFd(int(f.Fd()))
}
