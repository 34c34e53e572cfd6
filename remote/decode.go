package remote

import "github.com/akinalp/gallery/models"

// DecodeAdmire, admire mutation yanıtını varyanta çevirir.
func DecodeAdmire(p models.MutationPayload) AdmireResult {
	switch p.Typename {
	case models.TypenameAdmirePost:
		if p.Admire == nil {
			return Unrecognized{Typename: p.Typename, Reason: "missing admire"}
		}
		return AdmireSuccess{Admire: *p.Admire}
	case models.TypenameAdmireExists:
		return AdmireAlreadyExists{Message: p.Message}
	default:
		return Unrecognized{Typename: p.Typename}
	}
}

// DecodeUnadmire, unadmire mutation yanıtını varyanta çevirir.
func DecodeUnadmire(p models.MutationPayload) UnadmireResult {
	switch p.Typename {
	case models.TypenameUnadmirePost:
		if p.Admire == nil {
			return Unrecognized{Typename: p.Typename, Reason: "missing admire"}
		}
		return UnadmireSuccess{Admire: *p.Admire}
	case models.TypenameAdmireNotFound:
		return AdmireNotFound{Message: p.Message}
	default:
		return Unrecognized{Typename: p.Typename}
	}
}

// DecodeFollow, follow mutation yanıtını varyanta çevirir.
func DecodeFollow(p models.MutationPayload) FollowResult {
	switch p.Typename {
	case models.TypenameFollowUser:
		if p.Follow == nil {
			return Unrecognized{Typename: p.Typename, Reason: "missing follow"}
		}
		return FollowSuccess{Follow: *p.Follow}
	case models.TypenameAlreadyFollowing:
		return AlreadyFollowing{Message: p.Message}
	default:
		return Unrecognized{Typename: p.Typename}
	}
}

// DecodeUnfollow, unfollow mutation yanıtını varyanta çevirir.
func DecodeUnfollow(p models.MutationPayload) FollowResult {
	switch p.Typename {
	case models.TypenameUnfollowUser:
		if p.Follow == nil {
			return Unrecognized{Typename: p.Typename, Reason: "missing follow"}
		}
		return UnfollowSuccess{Follow: *p.Follow}
	case models.TypenameNotFollowing:
		return NotFollowing{Message: p.Message}
	default:
		return Unrecognized{Typename: p.Typename}
	}
}

// DecodeBulkFollow, bulk follow mutation yanıtını varyanta çevirir.
func DecodeBulkFollow(p models.MutationPayload) BulkFollowResult {
	switch p.Typename {
	case models.TypenameFollowUsers:
		return BulkFollowSuccess{Follows: p.Follows}
	default:
		return Unrecognized{Typename: p.Typename}
	}
}
