package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"gitlite/internal/config"
	"gitlite/internal/database"
	"gitlite/internal/encryption"
	"gitlite/internal/fs"
	"gitlite/internal/model"
	"gitlite/internal/vault"
	"gitlite/internal/vcs"
	"gitlite/internal/workspace"
)

// App is the application layer between the CLI or HTTP server and the
// version-control service. It constructs all dependencies from config,
// records state-changing commands in the operation log, and releases
// resources on Close.
type App struct {
	cfg       *config.Config
	db        *database.SQLiteDatabase
	vault     vcs.Vault
	encryptor vcs.Encryptor
	fsys      *fs.OSFilesystem
	service   *vcs.Service
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// Options adjust how New builds an App.
type Options struct {
	// Console receives log lines in addition to the log file. Nil disables it.
	Console io.Writer
}

// New creates a fully wired App from the given config.
// operation identifies the command being run (e.g. "CreateBranch").
// The caller must call Close when done.
func New(ctx context.Context, cfg *config.Config, operation string, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	v, err := vault.NewFromConfig(ctx, cfg.Vaults, cfg.Cache.Entries)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if enc != nil && !enc.IsConfigured() {
		return nil, errors.New("encryption keys are missing: run `gitlite config init` to generate them")
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}
	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, level, opts.Console)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := vcs.NewService(db, v, &slogAdapter{l: logger}, vcs.RealClock{}, vcs.UUIDGenerator{})
	svc.SetDefaultBranchName(cfg.DefaultBranch)
	svc.SetAuthor(cfg.Author)
	svc.SetDiffContext(cfg.Diff.ContextLines)
	if enc != nil {
		svc.SetEncryption(enc, nil)
	}

	return &App{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		fsys:      fs.NewOSFilesystem(cfg.Filesystem.Ignore),
		service:   svc,
		logger:    logger,
		op:        NewOperation(operation, ""),
		logFile:   logFile,
	}, nil
}

// Service returns the wired version-control service.
func (a *App) Service() *vcs.Service { return a.service }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Config returns the config the App was built from.
func (a *App) Config() *config.Config { return a.cfg }

// Session returns a new workspace session over the service.
func (a *App) Session() *workspace.Session {
	return workspace.NewSession(a.service, &slogAdapter{l: a.logger})
}

// Resolver returns a conflict resolver over the service.
func (a *App) Resolver() *workspace.Resolver {
	return workspace.NewResolver(a.service, &slogAdapter{l: a.logger})
}

// EncryptionEnabled reports whether version content is encrypted in the vault.
func (a *App) EncryptionEnabled() bool { return a.encryptor != nil }

// Unlock decrypts the private key so encrypted content can be read.
func (a *App) Unlock(passphrase string) error {
	if a.encryptor == nil {
		return nil
	}
	dec, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return fmt.Errorf("unlocking key: %w", err)
	}
	a.service.SetEncryption(a.encryptor, dec)
	return nil
}

// Record persists the current operation to the audit log.
// Only state-changing commands call it.
func (a *App) Record(ctx context.Context, parameters ...string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = strings.Join(parameters, " ")
	rec := &model.Operation{
		Operation:  a.op.Operation,
		Parameters: a.op.Parameters,
		StartedAt:  a.op.StartedAt,
	}
	if err := a.db.CreateOperation(ctx, rec); err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = rec.ID
	return nil
}

// Done records the outcome of the current operation and returns err unchanged.
func (a *App) Done(err error) error {
	a.op.Fail(err)
	return err
}

// History returns the most recent recorded operations.
func (a *App) History(ctx context.Context, limit int) ([]*model.Operation, error) {
	return a.db.ListOperations(ctx, limit)
}

// BackupDatabase writes a consistent snapshot of the metadata database to dest.
func (a *App) BackupDatabase(dest string) error {
	return a.db.BackupTo(dest)
}

// ValidateVaults checks that every configured vault is reachable.
func (a *App) ValidateVaults(ctx context.Context) error {
	return a.vault.ValidateSetup(ctx)
}

// AddResult describes one uploaded file.
type AddResult struct {
	Filename string
	Version  int64
	Size     int64
	Created  bool
}

// AddPath uploads a local file, or the files of a directory, to a branch.
// Files already on the branch get a new version; others are created.
func (a *App) AddPath(ctx context.Context, repoID, branch, rawPath string, recursive bool, message string) ([]AddResult, error) {
	uploads, err := a.fsys.Collect(rawPath, recursive)
	if err != nil {
		return nil, fmt.Errorf("collecting files: %w", err)
	}

	results := make([]AddResult, 0, len(uploads))
	for _, u := range uploads {
		content, err := a.fsys.ReadFile(u)
		if err != nil {
			return results, err
		}
		res, err := a.upload(ctx, repoID, branch, u.Name, content, message)
		if err != nil {
			return results, fmt.Errorf("uploading %s: %w", u.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (a *App) upload(ctx context.Context, repoID, branch, name string, content []byte, message string) (AddResult, error) {
	f, err := a.service.CreateFile(ctx, repoID, branch, model.NewFile{
		Filename:      name,
		Content:       content,
		CommitMessage: message,
	})
	if err == nil {
		return AddResult{Filename: name, Version: f.LatestVersion, Size: int64(len(content)), Created: true}, nil
	}
	if !errors.Is(err, vcs.ErrFileExists) {
		return AddResult{}, err
	}

	existing, err := a.service.FindFile(ctx, repoID, name)
	if err != nil {
		return AddResult{}, err
	}
	v, err := a.service.UpdateFile(ctx, repoID, existing.ID, branch, model.FileUpdate{
		Content:       content,
		CommitMessage: message,
	})
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{Filename: name, Version: v.Number, Size: v.Size}, nil
}

// Close finishes the operation record and closes all resources.
func (a *App) Close() error {
	var result *multierror.Error

	if a.op.Persisted() {
		if err := a.db.FinishOperation(context.Background(), a.op.ID, a.op.Status, time.Now().UTC()); err != nil {
			result = multierror.Append(result, fmt.Errorf("finishing operation: %w", err))
		}
	}
	if err := a.db.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing database: %w", err))
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("closing log file: %w", err))
		}
	}
	return result.ErrorOrNil()
}
