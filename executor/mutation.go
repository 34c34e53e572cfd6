package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/gallery/guard"
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/remote"
	"github.com/akinalp/gallery/updaters"
)

// responseClass, server yanıtının executor açısından sınıfı.
type responseClass int

const (
	classSuccess responseClass = iota
	classConflict
	classUnexpected
)

// verdict, bir remote yanıtın sınıflandırılmış hali.
// canonical: hedef id → server'ın atadığı kimlik (yalnızca classSuccess'te dolu).
type verdict struct {
	class        responseClass
	discriminant string
	reason       string
	canonical    map[string]updaters.Identity
}

// mutation, bir aksiyon türünün guard anahtarları, updater'ı ve remote çağrısı.
type mutation interface {
	keys(a Action) []guard.Key
	updater(a Action) updaters.Updater
	send(ctx context.Context, r remote.Remote, a Action) (verdict, error)
}

func mutationFor(k Kind) (mutation, bool) {
	switch k {
	case KindAdmire:
		return admireMutation{}, true
	case KindUnadmire:
		return unadmireMutation{}, true
	case KindFollow:
		return followMutation{}, true
	case KindUnfollow:
		return unfollowMutation{}, true
	case KindBulkFollow:
		return bulkFollowMutation{}, true
	default:
		return nil, false
	}
}

func identity(id string, createdAt time.Time) updaters.Identity {
	return updaters.Identity{ID: id, DBID: id, CreatedAt: createdAt}
}

func unrecognized(u remote.Unrecognized) verdict {
	return verdict{class: classUnexpected, discriminant: u.Typename, reason: u.Reason}
}

// mismatched, tanınan ama bu aksiyona ait olmayan bir varyant.
func mismatched(v any) verdict {
	return verdict{class: classUnexpected, discriminant: fmt.Sprintf("%T", v), reason: "variant does not belong to this action"}
}

type admireMutation struct{}

func (admireMutation) keys(a Action) []guard.Key {
	return []guard.Key{{ActorID: a.ActorID, TargetID: a.TargetID, Family: guard.FamilyAdmire}}
}

func (admireMutation) updater(a Action) updaters.Updater {
	return updaters.Admire{ActorID: a.ActorID, TargetID: a.TargetID}
}

func (admireMutation) send(ctx context.Context, r remote.Remote, a Action) (verdict, error) {
	res, err := r.Admire(ctx, a.TargetID)
	if err != nil {
		return verdict{}, err
	}
	switch v := res.(type) {
	case remote.AdmireSuccess:
		return verdict{
			class:        classSuccess,
			discriminant: models.TypenameAdmirePost,
			canonical:    map[string]updaters.Identity{a.TargetID: identity(v.Admire.ID, v.Admire.CreatedAt)},
		}, nil
	case remote.AdmireAlreadyExists:
		return verdict{class: classConflict, discriminant: models.TypenameAdmireExists}, nil
	case remote.Unrecognized:
		return unrecognized(v), nil
	default:
		return mismatched(v), nil
	}
}

type unadmireMutation struct{}

func (unadmireMutation) keys(a Action) []guard.Key {
	return []guard.Key{{ActorID: a.ActorID, TargetID: a.TargetID, Family: guard.FamilyAdmire}}
}

func (unadmireMutation) updater(a Action) updaters.Updater {
	return updaters.Unadmire{EntityID: a.EntityID, ActorID: a.ActorID, TargetID: a.TargetID}
}

func (unadmireMutation) send(ctx context.Context, r remote.Remote, a Action) (verdict, error) {
	res, err := r.Unadmire(ctx, a.TargetID)
	if err != nil {
		return verdict{}, err
	}
	switch v := res.(type) {
	case remote.UnadmireSuccess:
		return verdict{
			class:        classSuccess,
			discriminant: models.TypenameUnadmirePost,
			canonical:    map[string]updaters.Identity{a.TargetID: identity(v.Admire.ID, v.Admire.CreatedAt)},
		}, nil
	case remote.AdmireNotFound:
		return verdict{class: classConflict, discriminant: models.TypenameAdmireNotFound}, nil
	case remote.Unrecognized:
		return unrecognized(v), nil
	default:
		return mismatched(v), nil
	}
}

type followMutation struct{}

func (followMutation) keys(a Action) []guard.Key {
	return []guard.Key{{ActorID: a.ActorID, TargetID: a.TargetID, Family: guard.FamilyFollow}}
}

func (followMutation) updater(a Action) updaters.Updater {
	return updaters.Follow{ActorID: a.ActorID, TargetID: a.TargetID}
}

func (followMutation) send(ctx context.Context, r remote.Remote, a Action) (verdict, error) {
	res, err := r.Follow(ctx, a.TargetID)
	if err != nil {
		return verdict{}, err
	}
	switch v := res.(type) {
	case remote.FollowSuccess:
		return verdict{
			class:        classSuccess,
			discriminant: models.TypenameFollowUser,
			canonical:    map[string]updaters.Identity{a.TargetID: identity(v.Follow.ID, v.Follow.CreatedAt)},
		}, nil
	case remote.AlreadyFollowing:
		return verdict{class: classConflict, discriminant: models.TypenameAlreadyFollowing}, nil
	case remote.Unrecognized:
		return unrecognized(v), nil
	default:
		return mismatched(v), nil
	}
}

type unfollowMutation struct{}

func (unfollowMutation) keys(a Action) []guard.Key {
	return []guard.Key{{ActorID: a.ActorID, TargetID: a.TargetID, Family: guard.FamilyFollow}}
}

func (unfollowMutation) updater(a Action) updaters.Updater {
	return updaters.Unfollow{ActorID: a.ActorID, TargetID: a.TargetID}
}

func (unfollowMutation) send(ctx context.Context, r remote.Remote, a Action) (verdict, error) {
	res, err := r.Unfollow(ctx, a.TargetID)
	if err != nil {
		return verdict{}, err
	}
	switch v := res.(type) {
	case remote.UnfollowSuccess:
		return verdict{
			class:        classSuccess,
			discriminant: models.TypenameUnfollowUser,
			canonical:    map[string]updaters.Identity{a.TargetID: identity(v.Follow.ID, v.Follow.CreatedAt)},
		}, nil
	case remote.NotFollowing:
		return verdict{class: classConflict, discriminant: models.TypenameNotFollowing}, nil
	case remote.Unrecognized:
		return unrecognized(v), nil
	default:
		return mismatched(v), nil
	}
}

type bulkFollowMutation struct{}

func (bulkFollowMutation) keys(a Action) []guard.Key {
	keys := make([]guard.Key, 0, len(a.TargetIDs))
	for _, target := range a.TargetIDs {
		keys = append(keys, guard.Key{ActorID: a.ActorID, TargetID: target, Family: guard.FamilyFollow})
	}
	return keys
}

func (bulkFollowMutation) updater(a Action) updaters.Updater {
	return updaters.BulkFollow{ActorID: a.ActorID, TargetIDs: a.TargetIDs}
}

func (bulkFollowMutation) send(ctx context.Context, r remote.Remote, a Action) (verdict, error) {
	res, err := r.BulkFollow(ctx, a.TargetIDs)
	if err != nil {
		return verdict{}, err
	}
	switch v := res.(type) {
	case remote.BulkFollowSuccess:
		canonical := make(map[string]updaters.Identity, len(v.Follows))
		for _, f := range v.Follows {
			canonical[f.FolloweeID] = identity(f.ID, f.CreatedAt)
		}
		return verdict{class: classSuccess, discriminant: models.TypenameFollowUsers, canonical: canonical}, nil
	case remote.Unrecognized:
		return unrecognized(v), nil
	default:
		return mismatched(v), nil
	}
}
