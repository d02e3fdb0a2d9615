// Package firestore adapts Cloud Firestore (and its emulator) to the
// docstore contract.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"routemigrate/internal/docstore"
)

const emulatorEnv = "FIRESTORE_EMULATOR_HOST"

// Options configures the client connection.
type Options struct {
	ProjectID       string
	CredentialsFile string
	EmulatorHost    string
}

// Store is a docstore.Store backed by a Firestore client.
type Store struct {
	client *fs.Client
}

// Open connects to Firestore. When an emulator host is configured no
// credentials are loaded.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, errors.New("firestore project id is required")
	}

	var clientOpts []option.ClientOption
	if host := strings.TrimSpace(opts.EmulatorHost); host != "" {
		// The client library only reads the emulator address from the environment.
		if os.Getenv(emulatorEnv) == "" {
			if err := os.Setenv(emulatorEnv, host); err != nil {
				return nil, fmt.Errorf("set %s: %w", emulatorEnv, err)
			}
		}
	} else if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := fs.NewClient(ctx, opts.ProjectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// Close implements docstore.Store.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// List implements docstore.Store.
func (s *Store) List(ctx context.Context, collectionPath string) ([]docstore.Document, error) {
	collectionPath = strings.Trim(collectionPath, "/")
	iter := s.client.Collection(collectionPath).OrderBy(fs.DocumentID, fs.Asc).Documents(ctx)
	defer iter.Stop()

	var docs []docstore.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", collectionPath, err)
		}
		docs = append(docs, docstore.Document{
			ID:   snap.Ref.ID,
			Path: docstore.DocPath(collectionPath, snap.Ref.ID),
			Data: fromFirestoreFields(snap.Data()),
		})
	}
	return docs, nil
}

// Get implements docstore.Store.
func (s *Store) Get(ctx context.Context, docPath string) (docstore.Document, bool, error) {
	docPath = strings.Trim(docPath, "/")
	snap, err := s.client.Doc(docPath).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return docstore.Document{}, false, nil
	}
	if err != nil {
		return docstore.Document{}, false, fmt.Errorf("get %s: %w", docPath, err)
	}
	if !snap.Exists() {
		return docstore.Document{}, false, nil
	}
	return docstore.Document{
		ID:   snap.Ref.ID,
		Path: docPath,
		Data: fromFirestoreFields(snap.Data()),
	}, true, nil
}

// NewBatch implements docstore.Store.
func (s *Store) NewBatch() docstore.Batch {
	return &batch{client: s.client}
}

type batch struct {
	client *fs.Client
	writes []docstore.Write
}

func (b *batch) Add(w docstore.Write) {
	b.writes = append(b.writes, w)
}

func (b *batch) Len() int { return len(b.writes) }

func (b *batch) Commit(ctx context.Context) error {
	if len(b.writes) == 0 {
		return nil
	}
	if len(b.writes) > docstore.HardBatchLimit {
		return fmt.Errorf("%w: %d operations", docstore.ErrBatchTooLarge, len(b.writes))
	}

	wb := b.client.Batch()
	for _, w := range b.writes {
		if err := w.Validate(); err != nil {
			return err
		}
		data := toFirestoreFields(w.Data)
		switch w.Op {
		case docstore.OpMerge:
			wb.Set(b.client.Doc(w.Path), data, fs.MergeAll)
		case docstore.OpCreate:
			wb.Create(b.client.Collection(w.Path).NewDoc(), data)
		}
	}
	if _, err := wb.Commit(ctx); err != nil {
		return fmt.Errorf("commit %d writes: %w", len(b.writes), err)
	}
	b.writes = nil
	return nil
}
