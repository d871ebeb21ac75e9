package pipeline

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/netowner/netowner/internal/target"
	"github.com/netowner/netowner/internal/tcptable"
	"github.com/netowner/netowner/pkg/model"
)

// Request describes one read of the TCP table.
type Request struct {
	Families []tcptable.Family
	Level    tcptable.OwnerLevel
	Scope    tcptable.Scope
	Filter   target.Filter
}

// Collector turns raw table rows into a sorted snapshot. Modules and Images
// may be nil; owners are then left empty.
type Collector struct {
	Table   tcptable.Enumerator
	Modules tcptable.ModuleQuerier
	Images  tcptable.ImageLookup
	Workers int
	Logger  *zap.Logger

	now func() time.Time
}

func (c *Collector) Collect(ctx context.Context, req Request) (model.Snapshot, error) {
	if c.Table == nil {
		return model.Snapshot{}, errors.New("collector has no table enumerator")
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	families := req.Families
	if len(families) == 0 {
		families = []tcptable.Family{tcptable.FamilyIPv4, tcptable.FamilyIPv6}
	}

	snap := model.Snapshot{ID: uuid.New(), TakenAt: c.clock()}

	var rows []tcptable.RawRow
	for _, family := range families {
		got, err := c.Table.Enumerate(ctx, family, req.Level, req.Scope)
		if errors.Is(err, tcptable.ErrOwnerLevelUnsupported) && req.Level != tcptable.OwnerPID {
			msg := fmt.Sprintf("%s: %s owner table unavailable, using pid owners", family, req.Level)
			log.Warn("falling back to pid owner table",
				zap.Stringer("family", family),
				zap.Stringer("level", req.Level),
				zap.Error(err))
			snap.Warnings = append(snap.Warnings, msg)
			got, err = c.Table.Enumerate(ctx, family, tcptable.OwnerPID, req.Scope)
		}
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("enumerate %s table: %w", family, err)
		}
		rows = append(rows, got...)
	}

	records, err := c.build(ctx, rows, log)
	if err != nil {
		return model.Snapshot{}, err
	}
	records = req.Filter.Apply(records)
	SortRecords(records)
	snap.Records = records
	return snap, nil
}

// build converts rows on a fixed pool of workers. records[i] always comes
// from rows[i].
func (c *Collector) build(ctx context.Context, rows []tcptable.RawRow, log *zap.Logger) ([]model.ListenerRecord, error) {
	builder := tcptable.NewBuilder(tcptable.NewResolver(c.Modules, c.Images, tcptable.WithResolverLogger(log)))
	records := make([]model.ListenerRecord, len(rows))

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(rows))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				records[i] = builder.Build(rows[i])
			}
		}()
	}

	var err error
feed:
	for i := range rows {
		if err = ctx.Err(); err != nil {
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	if err != nil {
		return nil, fmt.Errorf("build records: %w", err)
	}
	return records, nil
}

func (c *Collector) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// SortRecords orders records by local port, then local address, then pid.
func SortRecords(records []model.ListenerRecord) {
	slices.SortStableFunc(records, func(a, b model.ListenerRecord) int {
		return cmp.Or(
			cmp.Compare(a.Local.Port(), b.Local.Port()),
			a.Local.Addr().Compare(b.Local.Addr()),
			cmp.Compare(a.ProcessID, b.ProcessID),
		)
	})
}
