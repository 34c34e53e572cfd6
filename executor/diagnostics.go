package executor

import (
	"log"
)

// Anomaly, diagnostics'e gönderilen yapılandırılmış bağlam:
// {targetId, actionKind, responseDiscriminant} + sınıf ve detay.
type Anomaly struct {
	TargetID     string
	ActionKind   Kind
	Discriminant string
	Err          error
	Detail       string
}

// Reporter, anomalileri dış hata raporlama servisine iletir.
// Executor Report'u kendi goroutine'inde çağırır; rollback yolunu asla bloklamaz.
type Reporter interface {
	Report(a Anomaly)
}

// Notice, kullanıcıya gösterilen geçici, kapatılabilir uyarı.
// Key, metnin çeviri anahtarıdır ("notice.admire"); Message İngilizce hali.
type Notice struct {
	Action  Action
	Key     string
	Message string
}

// Notifier, Notice'leri UI'a iletir (toast). Executor'ın her rollback'inde çağrılır.
type Notifier interface {
	Notify(n Notice)
}

// ReporterFunc, sıradan bir fonksiyonu Reporter'a uyarlar.
type ReporterFunc func(Anomaly)

func (f ReporterFunc) Report(a Anomaly) { f(a) }

// NotifierFunc, sıradan bir fonksiyonu Notifier'a uyarlar.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// LogReporter, anomalileri standart log'a yazar. Varsayılan Reporter.
type LogReporter struct{}

func (LogReporter) Report(a Anomaly) {
	log.Printf("[executor] anomaly kind=%s target=%s discriminant=%q err=%v detail=%s",
		a.ActionKind, a.TargetID, a.Discriminant, a.Err, a.Detail)
}

// LogNotifier, notice'leri standart log'a yazar. Varsayılan Notifier.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notice) {
	log.Printf("[executor] notice: %s (%s)", n.Message, n.Action)
}

func noticeKey(k Kind) string {
	switch k {
	case KindAdmire, KindUnadmire, KindFollow, KindUnfollow, KindBulkFollow:
		return "notice." + string(k)
	default:
		return "notice.generic"
	}
}

// noticeMessage, aksiyon türüne göre kullanıcıya gösterilecek metin.
func noticeMessage(k Kind) string {
	switch k {
	case KindAdmire:
		return "Couldn't admire this post. Please try again."
	case KindUnadmire:
		return "Couldn't remove your admire. Please try again."
	case KindFollow, KindBulkFollow:
		return "Couldn't follow. Please try again."
	case KindUnfollow:
		return "Couldn't unfollow. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
