// Package walk computes recursive directory sizes with a bounded
// worker pool. Each scan or drill-down invocation owns its own Pool,
// so one slow walk cannot starve another's workers.
package walk

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultWorkers is the concurrency ceiling applied when a Pool is
// created without an explicit size. It bounds open file descriptors
// and goroutine count regardless of tree width.
const DefaultWorkers = 8

// Child is the fully recursive measurement of one immediate member of
// a walked directory.
type Child struct {
	Name        string
	Path        string
	Size        int64
	Items       int64
	IsDir       bool
	HasChildren bool
	Partial     bool
	Children    []Child
}

// Result describes one walked directory. Total is always the fully
// recursive byte size. Partial means some subtree member could not be
// read, so Total is a lower bound rather than an exact figure.
type Result struct {
	Path     string
	Total    int64
	Items    int64
	Partial  bool
	Children []Child
}

// Pool is a fixed set of workers draining a shared directory queue.
// Sibling subtrees are sized in parallel; walking is read-only and
// needs no locking against itself.
type Pool struct {
	workers   int
	queue     chan task
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type task struct {
	path    string
	acc     *accumulator
	pending *sync.WaitGroup
}

// accumulator collects the recursive totals charged to one immediate
// child of a walk root.
type accumulator struct {
	size    int64
	items   int64
	partial int32
}

// NewPool starts workers goroutines consuming the shared queue.
// Callers must Close the pool once their walks are done.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	p := &Pool{
		workers: workers,
		queue:   make(chan task, workers*64),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Close shuts the queue and waits for all workers to exit. It must
// not be called while walks are still in flight.
func (p *Pool) Close() {
	p.closeOnce.Do(func() { close(p.queue) })
	p.wg.Wait()
}

func (p *Pool) worker() {
	defer p.wg.Done()
	// Overflow work lives on a local stack so a full queue can never
	// deadlock the pool: workers block only on receive, never on send.
	var stack []task
	for {
		if n := len(stack); n > 0 {
			t := stack[n-1]
			stack = stack[:n-1]
			stack = p.process(t, stack)
			continue
		}
		t, ok := <-p.queue
		if !ok {
			return
		}
		stack = p.process(t, stack)
	}
}

// process reads one directory, charging its contents to the task's
// accumulator and scheduling subdirectories. Unreadable or vanished
// members contribute zero and mark the accumulator partial.
func (p *Pool) process(t task, stack []task) []task {
	defer t.pending.Done()

	dirents, err := os.ReadDir(t.path)
	if err != nil {
		atomic.StoreInt32(&t.acc.partial, 1)
		return stack
	}

	for _, de := range dirents {
		childPath := filepath.Join(t.path, de.Name())
		info, err := os.Lstat(childPath)
		if err != nil {
			atomic.StoreInt32(&t.acc.partial, 1)
			continue
		}
		atomic.AddInt64(&t.acc.items, 1)

		if info.IsDir() {
			t.pending.Add(1)
			sub := task{path: childPath, acc: t.acc, pending: t.pending}
			select {
			case p.queue <- sub:
			default:
				stack = append(stack, sub)
			}
			continue
		}
		// Symlinks are never followed: their own inode size counts,
		// not the target's. Prevents cycles and double-counting.
		atomic.AddInt64(&t.acc.size, info.Size())
	}
	return stack
}

// Walk measures root recursively and materializes levels generations
// of children (levels < 1 is treated as 1). Total bytes are always
// fully recursive regardless of levels. Only an unreadable or missing
// root is an error; failures deeper in the tree degrade the result to
// a partial lower bound instead.
func (p *Pool) Walk(root string, levels int) (*Result, error) {
	if levels < 1 {
		levels = 1
	}

	info, err := os.Lstat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk %s: not a directory", root)
	}

	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	res := &Result{Path: root}

	type slot struct {
		child Child
		acc   *accumulator
		sub   *Result
		err   error
	}
	slots := make([]*slot, 0, len(dirents))

	var pending sync.WaitGroup
	var deep sync.WaitGroup

	for _, de := range dirents {
		childPath := filepath.Join(root, de.Name())
		info, err := os.Lstat(childPath)
		if err != nil {
			res.Partial = true
			continue
		}
		res.Items++

		s := &slot{child: Child{
			Name:  de.Name(),
			Path:  childPath,
			IsDir: info.IsDir(),
		}}
		slots = append(slots, s)

		switch {
		case !info.IsDir():
			s.child.Size = info.Size()
		case levels > 1:
			// Materialize another generation: walk the child as its
			// own root, reusing this pool's workers.
			deep.Add(1)
			go func(s *slot) {
				defer deep.Done()
				s.sub, s.err = p.Walk(s.child.Path, levels-1)
			}(s)
		default:
			s.acc = &accumulator{}
			pending.Add(1)
			// Blocking send is safe here: workers never block on send,
			// so the queue always drains.
			p.queue <- task{path: childPath, acc: s.acc, pending: &pending}
		}
	}

	pending.Wait()
	deep.Wait()

	for _, s := range slots {
		c := s.child
		switch {
		case s.acc != nil:
			c.Size = atomic.LoadInt64(&s.acc.size)
			c.Items = atomic.LoadInt64(&s.acc.items)
			c.HasChildren = c.Items > 0
			c.Partial = atomic.LoadInt32(&s.acc.partial) != 0
		case s.sub != nil:
			c.Size = s.sub.Total
			c.Items = s.sub.Items
			c.HasChildren = c.Items > 0
			c.Partial = s.sub.Partial
			c.Children = s.sub.Children
		case s.err != nil:
			c.Partial = true
		}
		if c.IsDir {
			res.Items += c.Items
		}
		res.Total += c.Size
		if c.Partial {
			res.Partial = true
		}
		res.Children = append(res.Children, c)
	}

	sort.SliceStable(res.Children, func(i, j int) bool {
		return res.Children[i].Size > res.Children[j].Size
	})
	return res, nil
}
