// Package remote, sync çekirdeğinin server ile olan sözleşmesidir.
//
// Her mutation türü kapalı bir varyant kümesi döner: başarı payload'ı, isimli
// "beklenen çakışma" varyantları ve tanınmayan her şey için Unrecognized.
// Varyantlar wire'daki __typename alanından decode edilir; executor bunları
// exhaustive bir type switch ile sınıflandırır, "varsayılan olarak başarılı
// say" dalı yoktur.
//
// Remote metodlarının döndüğü error yalnızca taşıma hatasıdır (ağ, timeout,
// 2xx olmayan status). Çakışmalar error değil, varyanttır.
package remote

import (
	"context"

	"github.com/akinalp/gallery/models"
)

// Remote, executor'ın kullandığı mutation uç noktaları.
// İstekler her zaman gerçek hedef id'lerini taşır, asla geçici id'yi değil.
// Aktör bilgisi (actorContext) kimlik doğrulamadan gelir.
type Remote interface {
	Admire(ctx context.Context, postID string) (AdmireResult, error)
	Unadmire(ctx context.Context, postID string) (UnadmireResult, error)
	Follow(ctx context.Context, userID string) (FollowResult, error)
	Unfollow(ctx context.Context, userID string) (FollowResult, error)
	BulkFollow(ctx context.Context, userIDs []string) (BulkFollowResult, error)
}

// AdmireResult: AdmireSuccess | AdmireAlreadyExists | Unrecognized
type AdmireResult interface{ isAdmireResult() }

// UnadmireResult: UnadmireSuccess | AdmireNotFound | Unrecognized
type UnadmireResult interface{ isUnadmireResult() }

// FollowResult: FollowSuccess | AlreadyFollowing | UnfollowSuccess | NotFollowing | Unrecognized
//
// Follow ve Unfollow aynı arayüzü paylaşır; Follow yalnızca FollowSuccess /
// AlreadyFollowing, Unfollow yalnızca UnfollowSuccess / NotFollowing döner.
// Yanlış taraftan gelen bir varyant Unrecognized gibi ele alınmalıdır.
type FollowResult interface{ isFollowResult() }

// BulkFollowResult: BulkFollowSuccess | Unrecognized
type BulkFollowResult interface{ isBulkFollowResult() }

type AdmireSuccess struct{ Admire models.Admire }

type AdmireAlreadyExists struct{ Message string }

type UnadmireSuccess struct{ Admire models.Admire }

type AdmireNotFound struct{ Message string }

type FollowSuccess struct{ Follow models.Follow }

type AlreadyFollowing struct{ Message string }

type UnfollowSuccess struct{ Follow models.Follow }

type NotFollowing struct{ Message string }

type BulkFollowSuccess struct{ Follows []models.Follow }

// Unrecognized, client'ın tanımadığı ya da eksik dolu bir discriminant.
// Client/server sözleşme kayması demektir; diagnostics'e raporlanır.
type Unrecognized struct {
	Typename string
	Reason   string
}

func (AdmireSuccess) isAdmireResult()       {}
func (AdmireAlreadyExists) isAdmireResult() {}
func (Unrecognized) isAdmireResult()        {}

func (UnadmireSuccess) isUnadmireResult() {}
func (AdmireNotFound) isUnadmireResult()  {}
func (Unrecognized) isUnadmireResult()    {}

func (FollowSuccess) isFollowResult()    {}
func (AlreadyFollowing) isFollowResult() {}
func (UnfollowSuccess) isFollowResult()  {}
func (NotFollowing) isFollowResult()     {}
func (Unrecognized) isFollowResult()     {}

func (BulkFollowSuccess) isBulkFollowResult() {}
func (Unrecognized) isBulkFollowResult()      {}
