package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"GuildBot/core"
	"GuildBot/core/lookup"

	"github.com/bwmarrin/discordgo"
)

const DefaultPoolSize = 5

var ErrPoolClosed = errors.New("command pool is shut down")

// Executor runs command bodies away from the ingestion path.
type Executor interface {
	// Submit queues the command and returns without waiting for it. A nil error means it was accepted.
	Submit(cmd *Descriptor, ctx *Context) error
}

type job struct {
	cmd *Descriptor
	ctx *Context
}

// PoolStats is a point-in-time view of the pool for diagnostics.
type PoolStats struct {
	Workers   []string
	Queued    int
	Running   int64
	Submitted int64
	Completed int64
	Failed    int64
}

// Pool is a fixed set of named workers fed from an unbounded queue, so Submit never blocks on
// command execution.
type Pool struct {
	size int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	closed  bool
	started bool
	workers []string

	counter   atomic.Int64
	running   atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64

	wg       sync.WaitGroup
	drained  chan struct{}
	shutdown sync.Once
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &Pool{size: size, drained: make(chan struct{})}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. Calling it again is a no-op.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.startLocked()
}

// startLocked launches the workers. p.mu must be held.
func (p *Pool) startLocked() {
	p.started = true
	for i := 0; i < p.size; i++ {
		name := fmt.Sprintf("Command Pool-%d", p.counter.Add(1))
		p.workers = append(p.workers, name)
		p.wg.Add(1)
		go p.work(name)
	}
	go func() {
		p.wg.Wait()
		close(p.drained)
	}()
	core.LogInfoF("Started %d command workers", p.size)
}

func (p *Pool) Submit(cmd *Descriptor, ctx *Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	p.queue = append(p.queue, job{cmd: cmd, ctx: ctx})
	p.submitted.Add(1)
	p.cond.Signal()
	return nil
}

// Shutdown stops accepting work and waits for queued and running commands to finish, or for ctx
// to end. It is safe to call more than once.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.shutdown.Do(func() {
		p.mu.Lock()
		p.closed = true
		// Work accepted before Start still runs; the workers exit once the queue is empty.
		if !p.started && len(p.queue) > 0 {
			p.startLocked()
		}
		started := p.started
		p.cond.Broadcast()
		p.mu.Unlock()
		if !started {
			close(p.drained)
		}
		core.LogInfo("Command pool shutting down")
	})

	select {
	case <-p.drained:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("command pool drain: %w", ctx.Err())
	}
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	queued := len(p.queue)
	workers := append([]string(nil), p.workers...)
	p.mu.Unlock()
	return PoolStats{
		Workers:   workers,
		Queued:    queued,
		Running:   p.running.Load(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

func (p *Pool) work(name string) {
	defer p.wg.Done()
	for {
		j, ok := p.next()
		if !ok {
			return
		}
		p.running.Add(1)
		if execute(name, j.cmd, j.ctx) {
			p.completed.Add(1)
		} else {
			p.failed.Add(1)
		}
		p.running.Add(-1)
	}
}

// next blocks for a job. It reports false once the pool is closed and the queue is empty.
func (p *Pool) next() (job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for len(p.queue) == 0 {
		if p.closed {
			return job{}, false
		}
		p.cond.Wait()
	}
	j := p.queue[0]
	p.queue[0] = job{}
	p.queue = p.queue[1:]
	return j, true
}

// SyncExecutor runs commands on the submitting goroutine with the same failure handling as Pool.
type SyncExecutor struct{}

func (SyncExecutor) Submit(cmd *Descriptor, ctx *Context) error {
	execute("inline", cmd, ctx)
	return nil
}

// execute runs one command body. Nothing the body does, panics included, escapes this function.
func execute(worker string, cmd *Descriptor, ctx *Context) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			core.LogPanicF(r, "[%s] Error in command %s Guild ID: %s User: %s", worker, cmd.Path(), contextGuildID(ctx), displayName(ctx))
			notifyFailure(ctx)
		}
	}()

	if core.IsLogInfo() {
		trigger := ""
		if !strings.EqualFold(cmd.Trigger, ctx.Trigger) {
			trigger = " (Trigger: " + ctx.Trigger + ")"
		}
		core.LogInfoF("[%s] %sCommand %s%s executed by %s with args: %v",
			worker, cmd.Kind(), cmd.Trigger, trigger, ctx.User().String(), ctx.Args)
	}

	if err := cmd.Run(ctx.Member, ctx); err != nil {
		core.LogErrorF("[%s] Error in command %s Guild ID: %s User: %s: %v", worker, cmd.Path(), contextGuildID(ctx), displayName(ctx), err)
		notifyFailure(ctx)
		return false
	}
	return true
}

func notifyFailure(ctx *Context) {
	defer func() {
		if r := recover(); r != nil {
			core.LogPanicF(r, "Failed to report command failure in channel %s", ctx.ChannelID())
		}
	}()
	ctx.ReplyDanger("There was an error running the command!").Discard()
}

func contextGuildID(ctx *Context) string {
	if ctx.Guild == nil {
		return ctx.Message.GuildID
	}
	return ctx.Guild.ID
}

func displayName(ctx *Context) string {
	member := discordgo.Member{User: ctx.User()}
	if ctx.Member != nil {
		member.Nick = ctx.Member.Nick
	}
	return lookup.EffectiveName(&member)
}
