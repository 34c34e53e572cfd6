// Package updaters, Store ve View Registry üzerindeki tek mantıksal değişiklikleri
// (Admire, Unadmire, Follow, Unfollow, BulkFollow) tanımlar.
//
// Her updater iki kez, AYNI mantıkla çalışır:
//   - Apply: optimistic faz, geçici kimlikle (tmp-...) hemen uygulanır.
//   - Patch.Confirm: server yanıtındaki kanonik kimlikle, aynı entity builder'ı
//     kullanarak geçici kaydın yerine geçer.
//
// İki faz arasındaki tek fark kimliktir; aksi halde optimistic ve onaylı state
// birbirinden ayrışır ve uzlaştırmadan sonra bayat veri kalır.
//
// Patch.Revert optimistic fazın BİREBİR tersidir, generic bir "reset" değil.
// Bu paketi yalnızca executor çağırır.
package updaters

import (
	"time"

	"github.com/akinalp/gallery/store"
	"github.com/akinalp/gallery/views"
)

// Identity, bir entity'nin kimlik materyali.
// Optimistic fazda ID = DBID = geçici id; confirm fazında server'ın id'si.
type Identity struct {
	ID         string
	DBID       string
	CreatedAt  time.Time
	Optimistic bool
}

// NextID, verilen kind için yeni bir geçici kimlik üretir.
// executor.IDSource.Next bu imzayı karşılar.
type NextID func(kind store.Kind) Identity

// Violation, updater'ın tespit edip clamp ettiği bir invariant ihlali.
type Violation struct {
	Code     string
	TargetID string
	Detail   string
}

const (
	ViolationCounterFloor       = "counter_floor"
	ViolationDuplicateCanonical = "duplicate_canonical"
	ViolationMissingCanonical   = "missing_canonical"
)

// State, updater'ların üzerinde çalıştığı paylaşılan yapılar.
// Report nil olabilir; nil değilse ihlaller ona iletilir.
type State struct {
	Store  *store.Store
	Views  *views.Registry
	Report func(Violation)
}

func (s State) report(v Violation) {
	if s.Report != nil {
		s.Report(v)
	}
}

// Updater, tek bir mantıksal değişikliğin tanımı.
type Updater interface {
	// Name, aksiyon türü (admire, unadmire, follow...).
	Name() string
	// Apply, optimistic fazı çalıştırır ve tersini almak için gereken Patch'i döner.
	Apply(s State, next NextID) *Patch
}

// step, Patch'in tek hedefe ait parçası.
type step struct {
	targetID string
	tempID   string
	revert   func()
	confirm  func(Identity)
}

// Patch, Apply'ın yaptığı değişikliğin kaydı.
//
// Noop: updater hiçbir şey değiştirmedi (ör. zaten admire edilmiş, kayıt yok).
// Noop bir Patch'te Revert ve Confirm etkisizdir.
type Patch struct {
	Noop  bool
	steps []step
	done  bool
}

// TempID, ilk adımın geçici kimliği (PendingAction.TempID için). Noop'ta boş.
func (p *Patch) TempID() string {
	if len(p.steps) == 0 {
		return ""
	}
	return p.steps[0].tempID
}

// Targets, patch'in dokunduğu hedef id'leri.
func (p *Patch) Targets() []string {
	out := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		out = append(out, s.targetID)
	}
	return out
}

// Revert, optimistic fazı ters sırayla geri alır. İkinci çağrı etkisizdir.
func (p *Patch) Revert() {
	if p.done {
		return
	}
	p.done = true
	for i := len(p.steps) - 1; i >= 0; i-- {
		p.steps[i].revert()
	}
}

// Confirm, her adımı hedefinin kanonik kimliğiyle onaylar.
// canonical hedef id → kimlik eşlemesidir; kimliği gelmeyen adımlar rapor
// edilir ve optimistic halleriyle bırakılır.
func (p *Patch) Confirm(s State, canonical map[string]Identity) {
	if p.done {
		return
	}
	p.done = true
	for _, st := range p.steps {
		id, ok := canonical[st.targetID]
		if !ok {
			s.report(Violation{Code: ViolationMissingCanonical, TargetID: st.targetID, Detail: st.tempID})
			continue
		}
		st.confirm(id)
	}
}

func noop() *Patch {
	return &Patch{Noop: true, done: true}
}

// entity, her iki fazda da kullanılan tek entity builder'ı.
func entity(kind store.Kind, actorID, targetID string, id Identity) store.Entity {
	return store.Entity{
		ID:         id.ID,
		DBID:       id.DBID,
		Kind:       kind,
		ActorID:    actorID,
		TargetID:   targetID,
		CreatedAt:  id.CreatedAt,
		Optimistic: id.Optimistic,
	}
}

// swap, geçici kaydı kanonik kayıtla değiştirir ve View edge'lerini aynı
// pozisyonda günceller. Kanonik edge zaten varsa tekrar raporlanır.
func swap(s State, key views.CollectionKey, temp, canonical store.Entity) {
	s.Store.Replace(temp.ID, canonical)
	if dups := s.Views.ReplaceEdge(key, temp.ID, canonical.ID); dups > 0 {
		s.report(Violation{
			Code:     ViolationDuplicateCanonical,
			TargetID: key.TargetID,
			Detail:   canonical.ID,
		})
	}
}

func reportClamped(s State, key views.CollectionKey, removals []views.Removal) {
	for _, rm := range removals {
		if rm.Clamped {
			s.report(Violation{Code: ViolationCounterFloor, TargetID: key.TargetID, Detail: rm.View})
		}
	}
}
