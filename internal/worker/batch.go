package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/linkedscience/crosswalk/internal/identify"
	"github.com/linkedscience/crosswalk/internal/model"
)

// Resolver anchors one person reference to a directory record.
type Resolver interface {
	Reconcile(ctx context.Context, ref model.PersonReference) (*model.PersonRecord, bool, error)
}

// ReconcileJob resolves a single person reference.
type ReconcileJob struct {
	Ref      model.PersonReference
	Resolver Resolver
}

func (j *ReconcileJob) Execute(ctx context.Context) Result {
	record, changed, err := j.Resolver.Reconcile(ctx, j.Ref)
	return &ReconcileResult{
		Ref:     j.Ref,
		Record:  record,
		Changed: changed,
		Error:   err,
	}
}

// ReconcileResult pairs a reference with its resolution outcome. Record is
// nil when the reference could not be anchored to exactly one directory
// person.
type ReconcileResult struct {
	Ref     model.PersonReference
	Record  *model.PersonRecord
	Changed bool
	Error   error
}

func (r *ReconcileResult) GetError() error {
	return r.Error
}

// BatchReconciler resolves many person references concurrently.
type BatchReconciler struct {
	resolver    Resolver
	concurrency int
}

func NewBatchReconciler(resolver Resolver, concurrency int) *BatchReconciler {
	return &BatchReconciler{resolver: resolver, concurrency: concurrency}
}

// Process resolves all references through the worker pool. Result order is
// completion order, not input order.
func (b *BatchReconciler) Process(ctx context.Context, refs []model.PersonReference) []*ReconcileResult {
	if len(refs) == 0 {
		return []*ReconcileResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, ref := range refs {
		pool.Submit(&ReconcileJob{Ref: ref, Resolver: b.resolver})
	}

	results := pool.Wait()
	out := make([]*ReconcileResult, len(results))
	for i, result := range results {
		out[i] = result.(*ReconcileResult)
	}
	return out
}

// ProcessFile reads person references from a file and resolves them.
func (b *BatchReconciler) ProcessFile(ctx context.Context, filePath string) ([]*ReconcileResult, error) {
	refs, err := ReadReferencesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read references: %w", err)
	}
	return b.Process(ctx, refs), nil
}

// ReadReferencesFromFile reads one person reference per line: an email, an
// ORCID, or a directory URI. Blank lines and # comments are skipped and
// duplicates dropped.
func ReadReferencesFromFile(filePath string) ([]model.PersonReference, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var refs []model.PersonReference
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		refs = append(refs, ParseReference(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return refs, nil
}

// ParseReference classifies a raw reference string. Anything that is not a
// recognizable email or ORCID is treated as a directory URI.
func ParseReference(raw string) model.PersonReference {
	if id := identify.Recognize(raw); id != nil {
		switch id.Scheme {
		case model.SchemeEmail:
			return model.PersonReference{Email: id.Value}
		case model.SchemeORCID:
			return model.PersonReference{ORCID: id.Value}
		}
	}
	return model.PersonReference{DirectoryURI: raw}
}
