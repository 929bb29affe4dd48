package content

import (
	"context"
	"regexp"
	"sort"

	cerrors "github.com/marmos91/bytengine/pkg/content/errors"
)

// CounterAction selects how SetCounter mutates a counter.
type CounterAction string

const (
	CounterIncr  CounterAction = "incr"
	CounterDecr  CounterAction = "decr"
	CounterReset CounterAction = "reset"
)

// CounterEntry is one counter in a listing.
type CounterEntry struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

// SetCounter applies an action to a named counter and returns the resulting
// value. A missing counter is created implicitly: incr/decr start from zero,
// reset simply stores the value. Deltas are applied by magnitude, so
// `incr -5` adds 5 and `decr -5` subtracts 5.
func (s *Service) SetCounter(ctx context.Context, db, name string, action CounterAction, value int64) (int64, error) {
	if err := ValidateCounterName(name); err != nil {
		return 0, err
	}
	delta := value
	if delta < 0 {
		delta = -delta
	}

	var result int64
	err := s.store.Update(ctx, db, func(tx Tx) error {
		current, _, err := tx.GetCounter(name)
		if err != nil {
			return err
		}
		switch action {
		case CounterIncr:
			result = current + delta
		case CounterDecr:
			result = current - delta
		case CounterReset:
			result = value
		default:
			return cerrors.NewIllegalOperationError("unknown counter action " + string(action))
		}
		return tx.SetCounter(name, result)
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}

// GetCounter returns a counter's value. A missing counter reads as zero.
func (s *Service) GetCounter(ctx context.Context, db, name string) (int64, error) {
	var value int64
	err := s.store.View(ctx, db, func(tx Tx) error {
		v, _, err := tx.GetCounter(name)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}

// ListCounters returns counters sorted by name. The optional filter is a
// case-insensitive regex applied to counter names.
func (s *Service) ListCounters(ctx context.Context, db, filter string) ([]CounterEntry, error) {
	var re *regexp.Regexp
	if filter != "" {
		var err error
		re, err = regexp.Compile("(?i)" + filter)
		if err != nil {
			return nil, cerrors.NewQuerySyntaxError(0, "invalid counter filter regex: "+err.Error())
		}
	}

	entries := []CounterEntry{}
	err := s.store.View(ctx, db, func(tx Tx) error {
		entries = entries[:0]
		counters, err := tx.Counters()
		if err != nil {
			return err
		}
		for name, value := range counters {
			if re != nil && !re.MatchString(name) {
				continue
			}
			entries = append(entries, CounterEntry{Name: name, Value: value})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
