// Package executor, UI tetiklemelerini optimistic güncelleme + remote mutation +
// onay/geri alma döngüsüyle çalıştıran Action Executor'dır.
//
// Her aksiyon açık bir durum makinesinden geçer:
//
//	guard → optimistic → send → (confirm | conflict | rollback) → release
//
// Store ve View Registry yalnızca executor'ın "event loop" kilidi altında,
// updater'lar aracılığıyla değişir. Tek askıya alma noktası remote çağrıdır;
// tüm mutasyonlar çağrıdan önce (optimistic) veya sonra (confirm/rollback)
// yapılır, asla çağrı sırasında değil. Böylece uçuşta çok sayıda aksiyon
// olsa da iki updater çağrısı birbirinin ortasına girmez.
package executor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/akinalp/gallery/guard"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/updaters"
	"github.com/akinalp/gallery/views"
)

// Metrics, executor'ın sonuç sayaçları. pkg/metrics.ActionMetrics karşılar.
type Metrics interface {
	ActionStarted(kind string)
	ActionSettled(kind, result string, d time.Duration)
	ActionRejected(kind string)
	AnomalyReported(kind, class string)
}

type noopMetrics struct{}

func (noopMetrics) ActionStarted(string)                       {}
func (noopMetrics) ActionSettled(string, string, time.Duration) {}
func (noopMetrics) ActionRejected(string)                      {}
func (noopMetrics) AnomalyReported(string, string)             {}

// DefaultRemoteTimeout, remote mutation çağrısının varsayılan üst sınırı.
const DefaultRemoteTimeout = 10 * time.Second

// Executor, Store'a dokunmasına izin verilen tek bileşen.
type Executor struct {
	loop sync.Mutex

	store    *store.Store
	views    *views.Registry
	guard    *guard.Guard
	remote   remote.Remote
	ids      *IDSource
	reporter Reporter
	notifier Notifier
	metrics  Metrics
	timeout  time.Duration

	async sync.WaitGroup
}

// Option, Executor'ı yapılandıran fonksiyonel opsiyon.
type Option func(*Executor)

func WithReporter(r Reporter) Option {
	return func(e *Executor) { e.reporter = r }
}

func WithNotifier(n Notifier) Option {
	return func(e *Executor) { e.notifier = n }
}

func WithMetrics(m Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithRemoteTimeout, remote çağrının süre sınırını ayarlar.
func WithRemoteTimeout(d time.Duration) Option {
	return func(e *Executor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithGuard(g *guard.Guard) Option {
	return func(e *Executor) { e.guard = g }
}

func WithIDSource(s *IDSource) Option {
	return func(e *Executor) { e.ids = s }
}

// New, Store, Registry ve Remote'u enjekte edilmiş bir Executor oluşturur.
func New(st *store.Store, reg *views.Registry, r remote.Remote, opts ...Option) *Executor {
	e := &Executor{
		store:    st,
		views:    reg,
		guard:    guard.New(),
		remote:   r,
		ids:      NewIDSource(),
		reporter: LogReporter{},
		notifier: LogNotifier{},
		metrics:  noopMetrics{},
		timeout:  DefaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Serialize, fn'i event loop kilidi altında çalıştırır. Paginator'ın
// hydrate yazımları ve projeksiyon okumaları bunu kullanır.
func (e *Executor) Serialize(fn func()) {
	e.loop.Lock()
	defer e.loop.Unlock()
	fn()
}

// ApplyCanonical, server'ın onayladığı değişiklikleri event loop kilidi
// altında store'a işler. Guard'a ve View total'lerine dokunmaz.
func (e *Executor) ApplyCanonical(changes ...updaters.Canonical) {
	e.Serialize(func() {
		updaters.ApplyCanonical(updaters.State{Store: e.store, Views: e.views}, changes...)
	})
}

// SeedUser, oturum sahibini takip listesiyle store'a yükler.
func (e *Executor) SeedUser(u store.User, following []string) {
	e.Serialize(func() {
		updaters.SeedUser(updaters.State{Store: e.store, Views: e.views}, u, following)
	})
}

// Guard, executor'ın Pending-Action Guard'ını döner (UI butonları için Status sorgusu).
func (e *Executor) Guard() *guard.Guard {
	return e.guard
}

// Wait, fire-and-forget diagnostics ve notice goroutine'lerinin bitmesini bekler.
// Kapanışta ve testlerde kullanılır.
func (e *Executor) Wait() {
	e.async.Wait()
}

// ExecOption, tek bir Execute çağrısını yapılandırır.
type ExecOption func(*run)

// WithSurface, aksiyonu tetikleyen yüzeyi bağlar; sonuç yüzey hâlâ
// mount edilmişse ona iletilir.
func WithSurface(s *Surface) ExecOption {
	return func(r *run) { r.surface = s }
}

// Admire, UI'ın admire butonu için tek callback.
func (e *Executor) Admire(ctx context.Context, actorID, postID string, opts ...ExecOption) Outcome {
	return e.Execute(ctx, Action{Kind: KindAdmire, ActorID: actorID, TargetID: postID}, opts...)
}

// Unadmire, admire'ı geri alır.
func (e *Executor) Unadmire(ctx context.Context, actorID, postID string, opts ...ExecOption) Outcome {
	return e.Execute(ctx, Action{Kind: KindUnadmire, ActorID: actorID, TargetID: postID}, opts...)
}

func (e *Executor) Follow(ctx context.Context, actorID, userID string, opts ...ExecOption) Outcome {
	return e.Execute(ctx, Action{Kind: KindFollow, ActorID: actorID, TargetID: userID}, opts...)
}

func (e *Executor) Unfollow(ctx context.Context, actorID, userID string, opts ...ExecOption) Outcome {
	return e.Execute(ctx, Action{Kind: KindUnfollow, ActorID: actorID, TargetID: userID}, opts...)
}

func (e *Executor) BulkFollow(ctx context.Context, actorID string, userIDs []string, opts ...ExecOption) Outcome {
	return e.Execute(ctx, Action{Kind: KindBulkFollow, ActorID: actorID, TargetIDs: userIDs}, opts...)
}

// phase, durum makinesinin adımları.
type phase string

const (
	phaseGuard      phase = "guard"
	phaseOptimistic phase = "optimistic"
	phaseSend       phase = "send"
	phaseConfirm    phase = "confirm"
	phaseConflict   phase = "conflict"
	phaseRollback   phase = "rollback"
	phaseRelease    phase = "release"
	phaseDone       phase = "done"
)

// run, tek bir aksiyonun durum makinesindeki state'i.
type run struct {
	e       *Executor
	ctx     context.Context
	action  Action
	surface *Surface

	m       mutation
	ticket  *guard.Ticket
	patch   *updaters.Patch
	verdict verdict
	status  guard.Status
	result  Result
	err     error
	started time.Time
}

// Execute, aksiyonu terminal bir duruma kadar çalıştırır.
// Hiçbir hata panic olarak yükselmez; sonuç her zaman Outcome'dadır.
func (e *Executor) Execute(ctx context.Context, a Action, opts ...ExecOption) Outcome {
	r := &run{e: e, ctx: ctx, action: a, started: time.Now(), status: guard.StatusIdle}
	for _, opt := range opts {
		opt(r)
	}

	for p := phaseGuard; p != phaseDone; {
		p = r.step(p)
	}
	return r.outcome()
}

func (r *run) step(p phase) phase {
	switch p {
	case phaseGuard:
		return r.acquire()
	case phaseOptimistic:
		return r.applyOptimistic()
	case phaseSend:
		return r.send()
	case phaseConfirm:
		return r.confirm()
	case phaseConflict:
		return r.conflict()
	case phaseRollback:
		return r.rollback()
	case phaseRelease:
		return r.release()
	default:
		log.Printf("[executor] unknown phase %q for %s", p, r.action)
		return phaseRelease
	}
}

// acquire: 1. adım. guard kontrolü. Reddedilen aksiyon hiçbir şeyi değiştirmez.
func (r *run) acquire() phase {
	e := r.e
	m, ok := mutationFor(r.action.Kind)
	if !ok {
		return r.reject(fmt.Errorf("%w: %q", ErrUnknownAction, r.action.Kind))
	}
	r.m = m

	if r.action.Kind == KindUnadmire && r.action.TargetID == "" && r.action.EntityID != "" {
		e.Serialize(func() {
			if ent, ok := e.store.Get(r.action.EntityID); ok {
				r.action.TargetID = ent.TargetID
			}
		})
	}
	if err := validate(r.action); err != nil {
		return r.reject(err)
	}

	ticket, err := e.guard.Acquire(string(r.action.Kind), m.keys(r.action)...)
	if err != nil {
		return r.reject(err)
	}
	r.ticket = ticket
	e.metrics.ActionStarted(string(r.action.Kind))
	return phaseOptimistic
}

func validate(a Action) error {
	if a.ActorID == "" {
		return fmt.Errorf("%w: missing actor", ErrInvalidAction)
	}
	if a.Kind == KindBulkFollow {
		if len(a.TargetIDs) == 0 || slices.Contains(a.TargetIDs, "") {
			return fmt.Errorf("%w: bulk follow needs non-empty targets", ErrInvalidAction)
		}
		return nil
	}
	if a.TargetID == "" {
		return fmt.Errorf("%w: missing target", ErrInvalidAction)
	}
	return nil
}

func (r *run) reject(err error) phase {
	r.result = ResultRejected
	r.err = err
	r.e.metrics.ActionRejected(string(r.action.Kind))
	if r.surface != nil {
		r.surface.deliver(r.outcome())
	}
	return phaseDone
}

// applyOptimistic: 2-3. adımlar. geçici kimlik + updater'ın optimistic fazı.
func (r *run) applyOptimistic() phase {
	e := r.e
	e.Serialize(func() {
		r.patch = r.m.updater(r.action).Apply(r.state(), e.ids.Next)
	})

	e.guard.SetTempID(r.ticket, r.patch.TempID())
	if err := r.transition(guard.StatusOptimistic); err != nil {
		r.err = err
		return phaseRollback
	}
	return phaseSend
}

// send: 4. adım. remote mutation. Surface'ın context'i iptal olsa da çağrı
// tamamlanır (context.WithoutCancel); süre sınırı executor'ın timeout'udur.
func (r *run) send() phase {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.ctx), r.e.timeout)
	defer cancel()

	v, err := r.m.send(ctx, r.e.remote, r.action)
	if err != nil {
		r.err = fmt.Errorf("%w: %w", ErrTransport, err)
		return phaseRollback
	}
	r.verdict = v

	switch v.class {
	case classSuccess:
		return phaseConfirm
	case classConflict:
		return phaseConflict
	default:
		r.err = fmt.Errorf("%w: %q", ErrUnexpectedResponse, v.discriminant)
		r.e.report(Anomaly{
			TargetID:     r.targetLabel(),
			ActionKind:   r.action.Kind,
			Discriminant: v.discriminant,
			Err:          r.err,
			Detail:       v.reason,
		})
		return phaseRollback
	}
}

// confirm: 5. adım. kanonik kimlik geçici kaydın yerine, aynı pozisyona.
func (r *run) confirm() phase {
	r.e.Serialize(func() {
		r.patch.Confirm(r.state(), r.verdict.canonical)
	})
	r.result = ResultConfirmed
	if err := r.transition(guard.StatusConfirmed); err != nil {
		log.Printf("[executor] %s: %v", r.action, err)
	}
	return phaseRelease
}

// conflict: 6. adım. beklenen çakışma. Optimistic fazın yaptığının ötesinde
// store değişikliği yok, kullanıcıya hata gösterilmez.
func (r *run) conflict() phase {
	r.err = fmt.Errorf("%w: %s", ErrExpectedConflict, r.verdict.discriminant)
	r.result = ResultConfirmed
	if err := r.transition(guard.StatusConfirmed); err != nil {
		log.Printf("[executor] %s: %v", r.action, err)
	}
	return phaseRelease
}

// rollback: 7. adım. optimistic fazın birebir tersi + kullanıcıya notice.
func (r *run) rollback() phase {
	if r.patch != nil {
		r.e.Serialize(r.patch.Revert)
	}
	r.result = ResultRolledBack
	if err := r.transition(guard.StatusRolledBack); err != nil {
		log.Printf("[executor] %s: %v", r.action, err)
	}
	r.e.notify(Notice{Action: r.action, Key: noticeKey(r.action.Kind), Message: noticeMessage(r.action.Kind)})
	return phaseRelease
}

// release: 8. adım. sonuç ne olursa olsun guard bırakılır.
func (r *run) release() phase {
	r.e.guard.Release(r.ticket)
	r.e.metrics.ActionSettled(string(r.action.Kind), string(r.result), time.Since(r.started))
	if r.surface != nil {
		r.surface.deliver(r.outcome())
	}
	return phaseDone
}

func (r *run) transition(to guard.Status) error {
	if err := r.e.guard.Transition(r.ticket, to); err != nil {
		return err
	}
	r.status = to
	return nil
}

func (r *run) outcome() Outcome {
	o := Outcome{
		Action:       r.action,
		Result:       r.result,
		Status:       r.status,
		Conflict:     r.verdict.class == classConflict && r.result == ResultConfirmed,
		Discriminant: r.verdict.discriminant,
		Err:          r.err,
		Duration:     time.Since(r.started),
	}
	if r.patch != nil {
		o.TempID = r.patch.TempID()
	}
	if r.result == ResultConfirmed {
		for _, id := range r.verdict.canonical {
			o.CanonicalIDs = append(o.CanonicalIDs, id.ID)
		}
		slices.Sort(o.CanonicalIDs)
	}
	return o
}

// state, updater'lara verilen State. İhlaller bu aksiyonun bağlamıyla raporlanır.
func (r *run) state() updaters.State {
	return updaters.State{
		Store: r.e.store,
		Views: r.e.views,
		Report: func(v updaters.Violation) {
			r.e.report(Anomaly{
				TargetID:     v.TargetID,
				ActionKind:   r.action.Kind,
				Discriminant: r.verdict.discriminant,
				Err:          fmt.Errorf("%w: %s", ErrInvariantViolation, v.Code),
				Detail:       v.Detail,
			})
		},
	}
}

func (r *run) targetLabel() string {
	if r.action.Kind == KindBulkFollow {
		return fmt.Sprint(r.action.TargetIDs)
	}
	return r.action.TargetID
}

// report, anomaliyi diagnostics'e kendi goroutine'inde iletir.
func (e *Executor) report(a Anomaly) {
	e.metrics.AnomalyReported(string(a.ActionKind), anomalyClass(a.Err))
	e.async.Add(1)
	go func() {
		defer e.async.Done()
		e.reporter.Report(a)
	}()
}

func (e *Executor) notify(n Notice) {
	e.async.Add(1)
	go func() {
		defer e.async.Done()
		e.notifier.Notify(n)
	}()
}

func anomalyClass(err error) string {
	switch {
	case errors.Is(err, ErrUnexpectedResponse):
		return "unexpected_response"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	default:
		return "other"
	}
}
