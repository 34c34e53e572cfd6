package executor

import (
	"fmt"
	"time"

	"github.com/akinalp/gallery/guard"
)

// Kind, UI'ın tetikleyebileceği aksiyon türü.
type Kind string

const (
	KindAdmire     Kind = "admire"
	KindUnadmire   Kind = "unadmire"
	KindFollow     Kind = "follow"
	KindUnfollow   Kind = "unfollow"
	KindBulkFollow Kind = "bulk_follow"
)

// Action, bir tetiklemenin taşıdığı minimal tanımlayıcılar (UI state yok).
//
// TargetIDs yalnızca BulkFollow içindir. EntityID Unadmire için opsiyoneldir;
// verilmezse admire kaydı (ActorID, TargetID) ile bulunur.
type Action struct {
	Kind      Kind
	ActorID   string
	TargetID  string
	TargetIDs []string
	EntityID  string
}

func (a Action) String() string {
	if a.Kind == KindBulkFollow {
		return fmt.Sprintf("%s(%s → %d targets)", a.Kind, a.ActorID, len(a.TargetIDs))
	}
	return fmt.Sprintf("%s(%s → %s)", a.Kind, a.ActorID, a.TargetID)
}

// Result, aksiyonun terminal sonucu.
type Result string

const (
	ResultConfirmed  Result = "confirmed"
	ResultRolledBack Result = "rolled_back"
	ResultRejected   Result = "rejected"
)

// Outcome, Execute'un dönüşü.
//
// Conflict: server beklenen bir çakışma varyantı döndü (Result yine Confirmed).
// Discriminant: server yanıtının __typename'i (taşıma hatasında boş).
// Err: Rejected ve RolledBack'te sebebi taşır. Confirmed'da nil, çakışmada
// ErrExpectedConflict'i sarar.
type Outcome struct {
	Action       Action
	Result       Result
	Status       guard.Status
	Conflict     bool
	Discriminant string
	TempID       string
	CanonicalIDs []string
	Err          error
	Duration     time.Duration
}
