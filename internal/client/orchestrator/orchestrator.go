package orchestrator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/client/validate"
	"github.com/dmitrijs2005/imgdrop/internal/client/verify"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/logging"
	"github.com/dmitrijs2005/imgdrop/internal/netx"
)

// CredentialRequester is satisfied by *issuer.Client.
type CredentialRequester interface {
	RequestCredential(ctx context.Context, fileName, contentType string) (models.UploadCredential, error)
}

// ObjectUploader is satisfied by *netx.Uploader.
type ObjectUploader interface {
	Put(ctx context.Context, file *models.SelectedFile, cred models.UploadCredential, onProgress netx.ProgressFunc) error
}

// Recorder is satisfied by uploads.Repository.
type Recorder interface {
	Insert(ctx context.Context, r *models.UploadRecord) error
}

// Verifier is satisfied by *verify.S3Verifier.
type Verifier interface {
	Verify(ctx context.Context, key string) (verify.ObjectInfo, error)
}

type Option func(*Orchestrator)

func WithStoreBase(base string) Option {
	return func(o *Orchestrator) { o.storeBase = base }
}

func WithLogger(l logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithStateObserver registers fn to be called on every state transition.
// fn runs while the orchestrator lock is held and must not call back into it.
func WithStateObserver(fn func(models.UploadState)) Option {
	return func(o *Orchestrator) { o.onState = fn }
}

func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithVerifier(v Verifier) Option {
	return func(o *Orchestrator) { o.verifier = v }
}

type Orchestrator struct {
	requester CredentialRequester
	uploader  ObjectUploader
	recorder  Recorder
	verifier  Verifier
	storeBase string
	logger    logging.Logger
	onState   func(models.UploadState)
	now       func() time.Time

	mu         sync.Mutex
	state      models.UploadState
	file       *models.SelectedFile
	credential *models.UploadCredential
	lastErr    error
	generation uint64
	inFlight   bool
}

func New(requester CredentialRequester, uploader ObjectUploader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		requester: requester,
		uploader:  uploader,
		logger:    logging.Discard(),
		now:       time.Now,
		state:     models.StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() models.UploadState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Selected returns the current validated file, or nil.
func (o *Orchestrator) Selected() *models.SelectedFile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.file
}

// LastError returns the error captured by the most recent failure of the
// current selection.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastErr
}

// Select discards the current selection and credential and validates f.
// A rejected file leaves the orchestrator Idle with nothing selected.
func (o *Orchestrator) Select(ctx context.Context, f *models.SelectedFile) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	o.file = nil
	o.credential = nil
	o.lastErr = nil
	o.setStateLocked(models.StateValidating)

	if err := validate.Validate(f); err != nil {
		o.logger.Info(ctx, "file rejected", "reason", err.Error())
		o.setStateLocked(models.StateIdle)
		return err
	}

	o.file = f
	o.setStateLocked(models.StateReadyToUpload)
	o.logger.Debug(ctx, "file selected", "name", f.Name, "size", f.Size, "type", f.MimeType)
	return nil
}

// Clear drops the current selection and credential and returns to Idle. An
// attempt in flight completes without touching the state.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.generation++
	o.file = nil
	o.credential = nil
	o.lastErr = nil
	o.setStateLocked(models.StateIdle)
}

// Start uploads the selected file. It blocks until the attempt reaches a
// terminal state. onProgress may be nil.
func (o *Orchestrator) Start(ctx context.Context, onProgress netx.ProgressFunc) (models.UploadResult, error) {
	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return models.UploadResult{}, common.ErrUploadInProgress
	}
	if o.file == nil {
		o.mu.Unlock()
		return models.UploadResult{}, common.ErrNothingSelected
	}
	file := o.file
	gen := o.generation
	o.inFlight = true
	o.credential = nil
	o.lastErr = nil
	o.setStateLocked(models.StateAwaitingCredential)
	o.mu.Unlock()

	attempt := uuid.NewString()
	log := o.logger.With("attempt", attempt, "file", file.Name)
	result := models.UploadResult{AttemptID: attempt}

	log.Info(ctx, "requesting upload credential")
	cred, err := o.requester.RequestCredential(ctx, file.Name, file.MimeType)
	if err != nil {
		return result, o.fail(ctx, log, gen, file, result, err)
	}

	if !o.advance(gen, &cred) {
		err := errors.New("selection changed before upload started")
		return result, o.fail(ctx, log, gen, file, result, err)
	}

	result.ObjectKey = cred.ObjectKey
	log.Info(ctx, "uploading", "key", cred.ObjectKey, "size", file.Size)

	if err := o.uploader.Put(ctx, file, cred, onProgress); err != nil {
		return result, o.fail(ctx, log, gen, file, result, err)
	}

	result.Location = netx.ObjectURL(o.storeBase, cred.ObjectKey)
	o.finish(gen, models.StateSucceeded, nil)
	log.Info(ctx, "upload complete", "key", cred.ObjectKey, "location", result.Location)

	// verification only annotates an upload the store already accepted
	if o.verifier != nil {
		if info, err := o.verifier.Verify(ctx, cred.ObjectKey); err != nil {
			log.Warn(ctx, "stored object could not be confirmed", "key", cred.ObjectKey, "error", err)
		} else {
			result.Verified = true
			log.Debug(ctx, "stored object confirmed", "key", info.Key, "size", info.Size)
		}
	}

	o.record(ctx, log, file, result, nil)

	return result, nil
}

// advance moves AwaitingCredential → Uploading if the selection is unchanged.
func (o *Orchestrator) advance(gen uint64, cred *models.UploadCredential) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.generation != gen {
		return false
	}
	o.credential = cred
	o.setStateLocked(models.StateUploading)
	return true
}

func (o *Orchestrator) fail(ctx context.Context, log logging.Logger, gen uint64, file *models.SelectedFile, result models.UploadResult, err error) error {
	log.Error(ctx, "upload failed", "error", err)
	o.finish(gen, models.StateFailed, err)
	o.record(ctx, log, file, result, err)
	return err
}

// finish releases the in-flight slot and, when the selection is unchanged,
// applies the terminal state. Failures re-arm to ReadyToUpload.
func (o *Orchestrator) finish(gen uint64, terminal models.UploadState, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.inFlight = false
	if o.generation != gen {
		return
	}

	o.credential = nil
	o.setStateLocked(terminal)
	if terminal == models.StateFailed {
		o.lastErr = err
		o.setStateLocked(models.StateReadyToUpload)
	}
}

func (o *Orchestrator) record(ctx context.Context, log logging.Logger, file *models.SelectedFile, result models.UploadResult, err error) {
	if o.recorder == nil {
		return
	}

	rec := &models.UploadRecord{
		AttemptID: result.AttemptID,
		FileName:  file.Name,
		Size:      file.Size,
		MimeType:  file.MimeType,
		ObjectKey: result.ObjectKey,
		Location:  result.Location,
		Status:    models.UploadStatusSucceeded,
		CreatedAt: o.now(),
	}
	if err != nil {
		rec.Status = models.UploadStatusFailed
		rec.Error = err.Error()
	}

	if rerr := o.recorder.Insert(ctx, rec); rerr != nil {
		log.Warn(ctx, "could not record upload history", "error", rerr)
	}
}

func (o *Orchestrator) setStateLocked(s models.UploadState) {
	o.state = s
	if o.onState != nil {
		o.onState(s)
	}
}
