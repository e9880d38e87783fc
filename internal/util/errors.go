package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrEmailRegistered   = errors.New("该邮箱已被注册")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrCircleNotFound    = errors.New("circle not found")
	ErrNotCircleMember   = errors.New("not a member of this circle")
	ErrCircleFull        = errors.New("circle member limit reached")
	ErrAlreadyMember     = errors.New("already a member of this circle")
	ErrPollClosed        = errors.New("poll is closed")
	ErrPollNotFound      = errors.New("poll not found")
	ErrEventNotFound     = errors.New("event not found")
	ErrEventFull         = errors.New("event capacity reached")
	ErrNotFriends        = errors.New("not friends with this user")
	ErrDailyRatingLimit  = errors.New("daily rating limit reached for this member")
	ErrIncompleteAnswers = errors.New("incomplete or invalid quiz answers")
	ErrIdentityNotFound  = errors.New("authentication identity not found")
	ErrConfirmRequired   = errors.New("confirm flag required")
)
