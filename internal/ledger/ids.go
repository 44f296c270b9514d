package ledger

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	CounterIngredientID = "NEXT_ING_ID"
	IngredientIDPrefix  = "ING"
)

// Allocator issues sequential display ids like ING007 from a counter row.
// The counter holds the next id to hand out; allocation writes the
// incremented value back and returns the value it read.
//
// The store has no atomic increment, so allocation is serialized per
// counter key with an in-process mutex. That protects a single bot
// instance; two instances sharing a database can still race.
type Allocator struct {
	repo Repository
	log  *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewAllocator(repo Repository, log *slog.Logger) *Allocator {
	return &Allocator{repo: repo, log: log, locks: map[string]*sync.Mutex{}}
}

func (a *Allocator) keyLock(key string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[key]
	if !ok {
		l = &sync.Mutex{}
		a.locks[key] = l
	}
	return l
}

// Next reserves and returns the next id for the domain key. A missing
// counter row is a configuration error: new domains are provisioned by
// migration, never silently started at zero.
func (a *Allocator) Next(ctx context.Context, key, prefix string) (string, error) {
	l := a.keyLock(key)
	l.Lock()
	defer l.Unlock()

	cur, err := a.repo.ReadCounter(ctx, key)
	if err != nil {
		return "", fmt.Errorf("read counter %s: %w", key, err)
	}
	if cur == "" {
		return "", fmt.Errorf("counter %s is not provisioned", key)
	}

	seq, width, err := splitSequential(cur, prefix)
	if err != nil {
		return "", fmt.Errorf("counter %s: %w", key, err)
	}

	next := fmt.Sprintf("%s%0*d", prefix, width, seq+1)
	if err := a.repo.WriteCounter(ctx, key, next); err != nil {
		// Best-effort degradation: hand out a random suffix instead of
		// failing the whole operation. Not sequential, still unique.
		fallback := randomID(prefix)
		a.log.Warn("counter write failed, falling back to random id",
			"key", key, "id", fallback, "err", err)
		return fallback, nil
	}
	return cur, nil
}

// splitSequential parses e.g. ("ING007", "ING") into (7, 3), keeping the
// zero-padding width so the next value formats the same way.
func splitSequential(value, prefix string) (int, int, error) {
	if !strings.HasPrefix(value, prefix) {
		return 0, 0, fmt.Errorf("value %q does not carry prefix %q", value, prefix)
	}
	digits := value[len(prefix):]
	if digits == "" {
		return 0, 0, fmt.Errorf("value %q has no numeric suffix", value)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, fmt.Errorf("value %q has a non-numeric suffix", value)
	}
	return n, len(digits), nil
}

func randomID(prefix string) string {
	u := uuid.New()
	return prefix + "-" + strings.ToUpper(hex.EncodeToString(u[:])[:6])
}
