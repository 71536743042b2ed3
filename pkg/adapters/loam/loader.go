// Package loam loads question banks kept as a directory of markdown documents.
//
// Each document carries its kind in the frontmatter. Questions and conclusions
// use the body as their label and are ordered by the "order" key, then by ID.
//
//	---
//	kind: question
//	order: 1
//	variable: fever
//	type: boolean
//	---
//	Do you have a fever?
package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/intake/pkg/decision"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader builds banks from a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[DocumentMetadata]
	name string
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DocumentMetadata], name string) *Loader {
	return &Loader{Repo: repo, name: name}
}

// LoadBank opens dir read-only and compiles the bank it holds.
func LoadBank(ctx context.Context, dir string) (*decision.Bank, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// The bank is never written, and strict mode keeps numbers as json.Number.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[DocumentMetadata](repo), filepath.Base(absPath)).Load(ctx)
}

// Open loads a bank from a directory of documents, or from a single
// YAML or JSON file.
func Open(ctx context.Context, path string) (*decision.Bank, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bank: %w", err)
	}
	if info.IsDir() {
		return LoadBank(ctx, path)
	}
	return decision.LoadBank(path)
}

type ordered[T any] struct {
	order float64
	id    string
	item  T
}

// Load lists every document and compiles the bank.
func (l *Loader) Load(ctx context.Context) (*decision.Bank, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	bank := &decision.Bank{Name: l.name}
	var questions []ordered[decision.BankQuestion]
	var rules []ordered[decision.Rule]

	for _, doc := range docs {
		meta := doc.Data
		id := trimExtension(doc.ID)
		label := meta.Label
		if label == "" {
			label = strings.TrimSpace(doc.Content)
		}
		order := 0.0
		if o, err := toFloat(meta.Order); err != nil {
			return nil, fmt.Errorf("%s: order: %w", id, err)
		} else if o != nil {
			order = *o
		}

		switch strings.ToLower(meta.Kind) {
		case KindBank:
			if meta.Name != "" {
				bank.Name = meta.Name
			}
			bank.Description = meta.Description
			if bank.Description == "" {
				bank.Description = label
			}

		case KindQuestion:
			q, err := buildQuestion(meta, label)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			questions = append(questions, ordered[decision.BankQuestion]{order: order, id: id, item: q})

		case KindConclusion:
			ruleID := meta.ID
			if ruleID == "" {
				ruleID = filepath.Base(id)
			}
			rules = append(rules, ordered[decision.Rule]{order: order, id: id, item: decision.Rule{
				ID:       ruleID,
				Label:    label,
				Severity: meta.Severity,
				When:     meta.When,
				Requires: meta.Requires,
				Fallback: meta.Fallback,
			}})

		case "":
			// Notes and other documents without a kind are not part of the bank.
			continue

		default:
			return nil, fmt.Errorf("%s: unknown kind %q", id, meta.Kind)
		}
	}

	bank.Questions = sortOrdered(questions)
	bank.Conclusions = sortOrdered(rules)

	if err := bank.Compile(); err != nil {
		return nil, err
	}
	return bank, nil
}

func buildQuestion(meta DocumentMetadata, label string) (decision.BankQuestion, error) {
	q := decision.BankQuestion{
		Question: domain.Question{
			ID:       meta.ID,
			Label:    label,
			Variable: meta.Variable,
			Type:     domain.InputType(meta.Type),
			Options:  meta.Options,
		},
		AskIf: meta.AskIf,
	}
	var err error
	if q.Min, err = toFloat(meta.Min); err != nil {
		return q, fmt.Errorf("min: %w", err)
	}
	if q.Max, err = toFloat(meta.Max); err != nil {
		return q, fmt.Errorf("max: %w", err)
	}
	if q.Step, err = toFloat(meta.Step); err != nil {
		return q, fmt.Errorf("step: %w", err)
	}
	return q, nil
}

// sortOrdered sorts by order, then by document ID.
func sortOrdered[T any](items []ordered[T]) []T {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].order != items[j].order {
			return items[i].order < items[j].order
		}
		return items[i].id < items[j].id
	})
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.item
	}
	return out
}

// toFloat converts a frontmatter number. A missing value yields nil.
func toFloat(v any) (*float64, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil, err
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", n)
		}
		f = parsed
	default:
		return nil, fmt.Errorf("not a number: %T", v)
	}
	return &f, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
