package remote

import (
	"github.com/akinalp/gallery/models"
	"github.com/akinalp/gallery/store"
)

// AdmireEntity, server'ın admire kaydını kanonik store entity'sine çevirir.
func AdmireEntity(a models.Admire) store.Entity {
	return store.Entity{
		ID:        a.ID,
		DBID:      a.ID,
		Kind:      store.KindAdmire,
		ActorID:   a.UserID,
		TargetID:  a.PostID,
		CreatedAt: a.CreatedAt,
	}
}

// CommentEntity, yorum kaydını store entity'sine çevirir.
func CommentEntity(c models.Comment) store.Entity {
	return store.Entity{
		ID:        c.ID,
		DBID:      c.ID,
		Kind:      store.KindComment,
		ActorID:   c.UserID,
		TargetID:  c.PostID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
	}
}

// FollowEntity, takip kaydını FollowEdge entity'sine çevirir.
// Actor takip eden, target takip edilendir.
func FollowEntity(f models.Follow) store.Entity {
	return store.Entity{
		ID:        f.ID,
		DBID:      f.ID,
		Kind:      store.KindFollowEdge,
		ActorID:   f.FollowerID,
		TargetID:  f.FolloweeID,
		CreatedAt: f.CreatedAt,
	}
}
