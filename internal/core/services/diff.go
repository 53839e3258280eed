package services

import (
	"fmt"

	"github.com/custodia-labs/ypsync/internal/core/domain"
	"github.com/custodia-labs/ypsync/internal/logger"
)

// DiffCollections classifies records of two collections of one kind.
// current is the source of truth. Records are matched by id in O(N+M).
//
// When an id occurs more than once in former, only its first occurrence is
// matched; the later ones are reported as deleted. When an id occurs more
// than once in current, the first occurrence is matched and the later ones
// are reported as new. Both cases are recorded as anomalies.
// Neither input is modified.
func DiffCollections(former, current domain.Collection) (domain.CollectionDiff, error) {
	return diffCollections("", former, current)
}

func diffCollections(scope string, former, current domain.Collection) (domain.CollectionDiff, error) {
	if err := former.Validate(); err != nil {
		return domain.CollectionDiff{}, fmt.Errorf("former: %w", err)
	}
	if err := current.Validate(); err != nil {
		return domain.CollectionDiff{}, fmt.Errorf("current: %w", err)
	}

	diff := domain.NewCollectionDiff()
	diff.Anomalies = append(diff.Anomalies, duplicates(scope, domain.SideFormer, former)...)
	diff.Anomalies = append(diff.Anomalies, duplicates(scope, domain.SideCurrent, current)...)

	// index of the first occurrence of each former id
	index := make(map[string]int, len(former))
	for i := range former {
		if _, seen := index[former[i].ID]; !seen {
			index[former[i].ID] = i
		}
	}

	consumed := make(map[int]struct{}, len(former))
	for _, cur := range current {
		i, ok := index[cur.ID]
		if !ok {
			diff.New[cur.ID] = cur.Clone()
			continue
		}
		if _, used := consumed[i]; used {
			// Later duplicate in current: first match already taken.
			if _, exists := diff.New[cur.ID]; !exists {
				diff.New[cur.ID] = cur.Clone()
			}
			continue
		}
		consumed[i] = struct{}{}

		if changed := DiffFields(former[i].Fields, cur.Fields); len(changed) > 0 {
			diff.Changed[cur.ID] = changed
		}
	}

	for i, rec := range former {
		if _, used := consumed[i]; used {
			continue
		}
		if _, exists := diff.Deleted[rec.ID]; !exists {
			diff.Deleted[rec.ID] = rec.Clone()
		}
	}

	logAnomalies(diff.Anomalies)
	return diff, nil
}

// allNew classifies every record of a collection with no former state as new.
// The first occurrence of a duplicated id wins.
func allNew(scope string, current domain.Collection) (domain.CollectionDiff, error) {
	if err := current.Validate(); err != nil {
		return domain.CollectionDiff{}, fmt.Errorf("current: %w", err)
	}

	diff := domain.NewCollectionDiff()
	diff.Anomalies = duplicates(scope, domain.SideCurrent, current)
	for _, cur := range current {
		if _, seen := diff.New[cur.ID]; !seen {
			diff.New[cur.ID] = cur.Clone()
		}
	}

	logAnomalies(diff.Anomalies)
	return diff, nil
}

func logAnomalies(anomalies []domain.Anomaly) {
	for _, a := range anomalies {
		logger.Warn("%v: id %s occurs %d times in %s collection %s; first occurrence matched",
			domain.ErrAmbiguousMatch, a.ID, a.Count, a.Side, scopeName(a.Scope))
	}
}

// DiffFields returns every field of current whose value differs from former.
// A field absent from former counts as different, even when current holds null.
// Fields present only in former are not reported.
func DiffFields(former, current domain.Fields) domain.FieldDiff {
	diff := domain.FieldDiff{}
	for key, cur := range current {
		prev, ok := former[key]
		if !ok || !prev.Equal(cur) {
			diff[key] = cur
		}
	}
	return diff
}

func duplicates(scope, side string, c domain.Collection) []domain.Anomaly {
	counts := make(map[string]int, len(c))
	var order []string
	for _, rec := range c {
		if counts[rec.ID] == 0 {
			order = append(order, rec.ID)
		}
		counts[rec.ID]++
	}

	var out []domain.Anomaly
	for _, id := range order {
		if counts[id] > 1 {
			out = append(out, domain.Anomaly{
				Kind:  domain.AnomalyDuplicateID,
				Side:  side,
				Scope: scope,
				ID:    id,
				Count: counts[id],
			})
		}
	}
	return out
}

func scopeName(scope string) string {
	if scope == "" {
		return "(unscoped)"
	}
	return scope
}
